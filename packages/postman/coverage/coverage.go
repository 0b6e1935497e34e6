// Package coverage compares the requests declared (and executed) in a
// collection run against an external OpenAPI specification, reporting
// which declared endpoints were actually exercised. Adapted from
// packages/coverage/coverage.go's Analyzer/Report, narrowed from its
// hitspec-file ExecutedRequest stream to exec.ExecutionResult entries
// and their resolved wire.Request URLs.
package coverage

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hitcall/hitcall/packages/postman/exec"
)

// Endpoint is one operation declared in an OpenAPI spec.
type Endpoint struct {
	Method      string
	Path        string
	OperationID string
	Tags        []string
}

// EndpointStatus reports whether an Endpoint was exercised.
type EndpointStatus struct {
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	OperationID string   `json:"operationId,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Covered     bool     `json:"covered"`
	HitCount    int      `json:"hitCount"`
}

// TagReport aggregates coverage for one OpenAPI tag.
type TagReport struct {
	Tag              string  `json:"tag"`
	TotalEndpoints   int     `json:"totalEndpoints"`
	CoveredEndpoints int     `json:"coveredEndpoints"`
	CoveragePercent  float64 `json:"coveragePercent"`
}

// Report is the coverage result of one Analyze call.
type Report struct {
	TotalEndpoints   int                  `json:"totalEndpoints"`
	CoveredEndpoints int                  `json:"coveredEndpoints"`
	CoveragePercent  float64              `json:"coveragePercent"`
	ByTag            map[string]*TagReport `json:"byTag,omitempty"`
	Endpoints        []EndpointStatus     `json:"endpoints"`
}

// Analyzer holds the endpoints parsed out of an OpenAPI document.
type Analyzer struct {
	endpoints []Endpoint
}

// NewAnalyzer returns an empty Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// LoadOpenAPI parses path as an OpenAPI 3 document, trying YAML then JSON.
func (a *Analyzer) LoadOpenAPI(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading spec: %w", err)
	}

	var spec map[string]any
	if err := yaml.Unmarshal(data, &spec); err != nil {
		if err := json.Unmarshal(data, &spec); err != nil {
			return fmt.Errorf("parsing spec as YAML or JSON: %w", err)
		}
	}
	return a.parseSpec(spec)
}

func (a *Analyzer) parseSpec(spec map[string]any) error {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return fmt.Errorf("spec has no paths object")
	}

	methods := []string{"get", "post", "put", "patch", "delete", "options", "head"}
	for path, item := range paths {
		pathObj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, method := range methods {
			op, ok := pathObj[method].(map[string]any)
			if !ok {
				continue
			}
			endpoint := Endpoint{Method: strings.ToUpper(method), Path: path}
			if opID, ok := op["operationId"].(string); ok {
				endpoint.OperationID = opID
			}
			if tags, ok := op["tags"].([]any); ok {
				for _, t := range tags {
					if s, ok := t.(string); ok {
						endpoint.Tags = append(endpoint.Tags, s)
					}
				}
			}
			a.endpoints = append(a.endpoints, endpoint)
		}
	}
	return nil
}

// Analyze reports coverage of a.endpoints against the requests actually
// dispatched in result (StatusDone/StatusFailed both count as exercised;
// StatusSkipped does not).
func (a *Analyzer) Analyze(result *exec.CollectionExecutionResult) *Report {
	report := &Report{
		TotalEndpoints: len(a.endpoints),
		ByTag:          map[string]*TagReport{},
	}

	hits := map[string]int{}
	for _, r := range result.Results {
		if r.Status == exec.StatusSkipped || r.WireRequest == nil || r.WireRequest.URL == nil {
			continue
		}
		method := r.WireRequest.Method
		path := r.WireRequest.URL.Path
		for _, ep := range a.endpoints {
			if method == ep.Method && matchPath(ep.Path, path) {
				hits[ep.Method+" "+ep.Path]++
				break
			}
		}
	}

	for _, ep := range a.endpoints {
		key := ep.Method + " " + ep.Path
		count := hits[key]
		covered := count > 0

		report.Endpoints = append(report.Endpoints, EndpointStatus{
			Method: ep.Method, Path: ep.Path, OperationID: ep.OperationID,
			Tags: ep.Tags, Covered: covered, HitCount: count,
		})
		if covered {
			report.CoveredEndpoints++
		}

		for _, tag := range ep.Tags {
			tr, ok := report.ByTag[tag]
			if !ok {
				tr = &TagReport{Tag: tag}
				report.ByTag[tag] = tr
			}
			tr.TotalEndpoints++
			if covered {
				tr.CoveredEndpoints++
			}
		}
	}

	if report.TotalEndpoints > 0 {
		report.CoveragePercent = float64(report.CoveredEndpoints) / float64(report.TotalEndpoints) * 100
	}
	for _, tr := range report.ByTag {
		if tr.TotalEndpoints > 0 {
			tr.CoveragePercent = float64(tr.CoveredEndpoints) / float64(tr.TotalEndpoints) * 100
		}
	}

	sort.Slice(report.Endpoints, func(i, j int) bool {
		if report.Endpoints[i].Path != report.Endpoints[j].Path {
			return report.Endpoints[i].Path < report.Endpoints[j].Path
		}
		return report.Endpoints[i].Method < report.Endpoints[j].Method
	})

	return report
}

// FormatConsole renders r as a human-readable report.
func (r *Report) FormatConsole() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nAPI Coverage Report\n==================\n\n")
	fmt.Fprintf(&sb, "Total Endpoints:   %d\n", r.TotalEndpoints)
	fmt.Fprintf(&sb, "Covered Endpoints: %d\n", r.CoveredEndpoints)
	fmt.Fprintf(&sb, "Coverage:          %.1f%%\n\n", r.CoveragePercent)

	if len(r.ByTag) > 0 {
		sb.WriteString("Coverage by Tag:\n")
		tags := make([]string, 0, len(r.ByTag))
		for tag := range r.ByTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			tr := r.ByTag[tag]
			fmt.Fprintf(&sb, "  %s: %d/%d (%.1f%%)\n", tag, tr.CoveredEndpoints, tr.TotalEndpoints, tr.CoveragePercent)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Endpoint Details:\n")
	for _, ep := range r.Endpoints {
		status := "[ ]"
		if ep.Covered {
			status = "[x]"
		}
		fmt.Fprintf(&sb, "  %s %s %s", status, ep.Method, ep.Path)
		if ep.HitCount > 1 {
			fmt.Fprintf(&sb, " (x%d)", ep.HitCount)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatJSON renders r as indented JSON.
func (r *Report) FormatJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

var pathParamPattern = regexp.MustCompile(`\{[^}]+\}`)

func matchPath(specPath, actual string) bool {
	pattern := "^" + pathParamPattern.ReplaceAllString(specPath, `[^/]+`) + "$"
	matched, _ := regexp.MatchString(pattern, actual)
	return matched
}
