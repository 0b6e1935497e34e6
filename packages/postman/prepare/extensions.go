package prepare

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
)

// URLSubstitutions overrides individual components of a request's URL
// before template resolution. A nil field leaves the corresponding
// declared component untouched.
type URLSubstitutions struct {
	Host     *string
	Protocol *string
	Port     *string
}

// Extensions carries per-request overrides layered on top of a
// Request's own declaration — a caller-supplied variant used for one
// execution without mutating the collection tree. Substitutions replace
// an existing entry by key; extensions add or merge. Fields apply in a
// fixed order: URL, then query, then header, then body, then auth.
type Extensions struct {
	// URLSubstitutions override host, protocol, and port individually.
	URLSubstitutions *URLSubstitutions

	// HeaderSubstitutions override the resolved value of a header that
	// the request already declares; a key with no matching declared
	// header is ignored (use HeaderExtensions to add new headers).
	HeaderSubstitutions map[string]string
	// HeaderExtensions add headers the request did not declare, or
	// overwrite a declared one by key.
	HeaderExtensions map[string]string

	// ParamSubstitutions override an existing query parameter's value.
	ParamSubstitutions map[string]string
	// ParamExtensions add query parameters the URL did not declare.
	ParamExtensions map[string]string

	// BodySubstitutions/BodyExtensions apply to the request's declared
	// body per its Mode: for a raw body that parses as JSON,
	// substitutions override matching top-level keys and extensions
	// merge at the root; for urlencoded/formdata, both operate on the
	// key-value list by key; file bodies ignore both.
	BodySubstitutions map[string]string
	BodyExtensions    map[string]string

	// AuthSubstitutions override individual parameter values of the
	// resolved effective auth before variable resolution.
	AuthSubstitutions map[string]string
}

// applyURL clones u and overwrites the components named in
// URLSubstitutions, leaving everything else untouched.
func (e *Extensions) applyURL(u model.Url) model.Url {
	if e == nil || e.URLSubstitutions == nil {
		return u
	}
	sub := e.URLSubstitutions
	if sub.Protocol != nil {
		u.Protocol = *sub.Protocol
	}
	if sub.Host != nil {
		u.Host = []string{*sub.Host}
	}
	if sub.Port != nil {
		u.Port = *sub.Port
	}
	return u
}

func (e *Extensions) applyHeaders(h http.Header, resolver *resolve.Resolver) []resolve.Diagnostic {
	if e == nil {
		return nil
	}
	var diags []resolve.Diagnostic
	for k, v := range e.HeaderSubstitutions {
		if h.Get(k) == "" {
			continue
		}
		resolved, d := resolver.Resolve(v)
		diags = append(diags, d...)
		if k == "" || resolved == "" {
			h.Del(k)
			continue
		}
		h.Set(k, resolved)
	}
	for k, v := range e.HeaderExtensions {
		resolved, d := resolver.Resolve(v)
		diags = append(diags, d...)
		if k == "" || resolved == "" {
			h.Del(k)
			continue
		}
		h.Set(k, resolved)
	}
	return diags
}

func (e *Extensions) applyQuery(u *url.URL, resolver *resolve.Resolver) []resolve.Diagnostic {
	if e == nil {
		return nil
	}
	var diags []resolve.Diagnostic
	q := u.Query()
	for k, v := range e.ParamSubstitutions {
		if q.Get(k) == "" {
			continue
		}
		resolved, d := resolver.Resolve(v)
		diags = append(diags, d...)
		q.Set(k, resolved)
	}
	for k, v := range e.ParamExtensions {
		resolved, d := resolver.Resolve(v)
		diags = append(diags, d...)
		q.Set(k, resolved)
	}
	u.RawQuery = q.Encode()
	return diags
}

// applyBody returns an effective Body with BodySubstitutions and
// BodyExtensions merged in, per body's Mode, ready for the normal
// template resolution buildBody performs. The returned Body is a
// shallow copy; body itself is never mutated.
func (e *Extensions) applyBody(body *model.Body) (*model.Body, []resolve.Diagnostic) {
	if e == nil || (len(e.BodySubstitutions) == 0 && len(e.BodyExtensions) == 0) {
		return body, nil
	}
	if body == nil || body.Mode == model.BodyNone {
		return body, nil
	}

	switch body.Mode {
	case model.BodyRaw:
		var parsed map[string]json.RawMessage
		if err := json.Unmarshal([]byte(body.Raw), &parsed); err != nil {
			if len(e.BodyExtensions) > 0 {
				return body, []resolve.Diagnostic{{
					Kind:    resolve.DiagBodyExtensionSkipped,
					Message: "body_extensions ignored: raw body does not parse as a JSON object",
				}}
			}
			return body, nil
		}
		for k, v := range e.BodySubstitutions {
			if _, ok := parsed[k]; ok {
				parsed[k] = jsonString(v)
			}
		}
		for k, v := range e.BodyExtensions {
			parsed[k] = jsonString(v)
		}
		merged, err := json.Marshal(parsed)
		if err != nil {
			return body, nil
		}
		out := *body
		out.Raw = string(merged)
		return &out, nil

	case model.BodyURLEncoded:
		out := *body
		out.URLEncoded = mergeKeyValues(body.URLEncoded, e.BodySubstitutions, e.BodyExtensions)
		return &out, nil

	case model.BodyFormData:
		out := *body
		out.FormData = mergeFormParams(body.FormData, e.BodySubstitutions, e.BodyExtensions)
		return &out, nil

	default:
		return body, nil
	}
}

func jsonString(v string) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func mergeKeyValues(list []model.KeyValue, subs, exts map[string]string) []model.KeyValue {
	out := make([]model.KeyValue, len(list))
	copy(out, list)
	for i, kv := range out {
		if v, ok := subs[kv.Key]; ok {
			out[i].Value = v
		}
	}
	for k, v := range exts {
		if i := indexByKey(out, k); i >= 0 {
			out[i].Value = v
			continue
		}
		out = append(out, model.KeyValue{Key: k, Value: v})
	}
	return out
}

func indexByKey(list []model.KeyValue, key string) int {
	for i, kv := range list {
		if kv.Key == key {
			return i
		}
	}
	return -1
}

func mergeFormParams(list []model.FormParam, subs, exts map[string]string) []model.FormParam {
	out := make([]model.FormParam, len(list))
	copy(out, list)
	for i, f := range out {
		if v, ok := subs[f.Key]; ok {
			out[i].Value = v
		}
	}
	for k, v := range exts {
		found := false
		for i, f := range out {
			if f.Key == k {
				out[i].Value = v
				found = true
				break
			}
		}
		if !found {
			out = append(out, model.FormParam{Key: k, Value: v})
		}
	}
	return out
}
