package prepare

import (
	"net/http"
	"strings"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
)

// reservedHeaders names headers the Dispatcher computes itself (via
// net/http's transport) and that a collection-declared header must
// never override directly.
var reservedHeaders = map[string]bool{
	"host":           true,
	"content-length": true,
}

func buildHeaders(headers []model.Header, resolver *resolve.Resolver) (http.Header, []resolve.Diagnostic) {
	out := make(http.Header)
	var diags []resolve.Diagnostic
	for _, h := range headers {
		if h.Disabled {
			continue
		}
		if reservedHeaders[strings.ToLower(h.Key)] {
			continue
		}
		key, kdiags := resolver.Resolve(h.Key)
		diags = append(diags, kdiags...)
		value, vdiags := resolver.Resolve(h.Value)
		diags = append(diags, vdiags...)
		if key == "" || value == "" {
			continue
		}
		out.Add(key, value)
	}
	return out, diags
}
