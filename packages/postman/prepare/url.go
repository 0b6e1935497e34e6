package prepare

import (
	"net/url"
	"strings"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
)

// buildURL resolves a structured model.Url into a *url.URL. The
// structured fields are authoritative for resolution (Raw is never
// consulted here, and nothing rewrites it from the resolved URL). If the resolved Host is a
// single token that itself expands to a full origin (a template like
// {{baseUrl}} resolving to "https://api.example.com"), that string is
// used directly rather than prefixed with "protocol://" a second time —
// this is the one case the structured-form invariant has to special
// case to match the common Postman collection authoring pattern of a
// single {{baseUrl}} host entry carrying the full origin.
func buildURL(u model.Url, resolver *resolve.Resolver) (*url.URL, []resolve.Diagnostic, error) {
	var diags []resolve.Diagnostic

	protocol, pdiags := resolver.Resolve(u.Protocol)
	diags = append(diags, pdiags...)
	if protocol == "" {
		protocol = "https"
	}

	hostTokens := make([]string, 0, len(u.Host))
	for _, h := range u.Host {
		resolved, hdiags := resolver.Resolve(h)
		diags = append(diags, hdiags...)
		hostTokens = append(hostTokens, resolved)
	}
	resolvedHost := strings.Join(hostTokens, ".")

	var origin string
	if len(hostTokens) == 1 && strings.Contains(hostTokens[0], "://") {
		origin = strings.TrimSuffix(hostTokens[0], "/")
	} else {
		origin = protocol + "://" + resolvedHost
		if u.Port != "" {
			port, portDiags := resolver.Resolve(u.Port)
			diags = append(diags, portDiags...)
			origin += ":" + port
		}
	}

	rawPath := strings.Join(u.Path, "/")
	resolvedPath, pathDiags := resolver.ResolvePath(rawPath)
	diags = append(diags, pathDiags...)
	resolvedPath = strings.TrimPrefix(resolvedPath, "/")

	full := origin
	if resolvedPath != "" {
		full += "/" + resolvedPath
	}

	parsed, err := url.Parse(full)
	if err != nil {
		return nil, diags, err
	}

	query := parsed.Query()
	for _, qp := range u.Query {
		if qp.Disabled {
			continue
		}
		key, kdiags := resolver.ResolvePath(qp.Key)
		diags = append(diags, kdiags...)
		value, vdiags := resolver.ResolvePath(qp.Value)
		diags = append(diags, vdiags...)
		query.Set(key, value)
	}
	parsed.RawQuery = query.Encode()

	return parsed, diags, nil
}
