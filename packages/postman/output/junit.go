package output

import (
	"encoding/xml"

	"github.com/hitcall/hitcall/packages/postman/exec"
)

// junitTestSuites/junitTestSuite/junitTestCase/junitFailure mirror
// packages/output/junit.go's JUnit* types, narrowed to one flat suite
// since exec.CollectionExecutionResult does not preserve per-folder
// grouping today.
type junitTestSuites struct {
	XMLName  xml.Name        `xml:"testsuites"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     float64         `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	XMLName  xml.Name         `xml:"testsuite"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     float64          `xml:"time,attr"`
	Cases    []junitTestCase  `xml:"testcase"`
}

type junitTestCase struct {
	XMLName xml.Name       `xml:"testcase"`
	Name    string         `xml:"name,attr"`
	Time    float64        `xml:"time,attr"`
	Failure *junitFailure  `xml:"failure,omitempty"`
	Skipped *junitSkipped  `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Content string `xml:",chardata"`
}

type junitSkipped struct{}

// FormatJUnit renders result as a single JUnit XML test suite.
func FormatJUnit(suiteName string, result *exec.CollectionExecutionResult) ([]byte, error) {
	suite := junitTestSuite{
		Name:     suiteName,
		Tests:    len(result.Results),
		Failures: result.Failed,
		Skipped:  result.Skipped,
		Time:     result.Duration.Seconds(),
	}
	for _, r := range result.Results {
		tc := junitTestCase{Name: r.Request.Name, Time: r.Duration.Seconds()}
		switch r.Status {
		case exec.StatusSkipped:
			tc.Skipped = &junitSkipped{}
		case exec.StatusDone:
			// no-op, passing test case
		default:
			msg := "request failed"
			if r.Error != nil {
				msg = r.Error.Error()
			}
			tc.Failure = &junitFailure{Message: msg, Content: msg}
		}
		suite.Cases = append(suite.Cases, tc)
	}

	root := junitTestSuites{
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Skipped:  suite.Skipped,
		Time:     suite.Time,
		Suites:   []junitTestSuite{suite},
	}
	return xml.MarshalIndent(root, "", "  ")
}
