package loader

import (
	"fmt"
	"strings"

	"github.com/hitcall/hitcall/packages/postman/model"
)

func convertCollection(raw *rawCollection) (*model.Collection, error) {
	schemaVersion, err := schemaVersionFromURL(raw.Info.Schema)
	if err != nil {
		return nil, err
	}

	c := &model.Collection{
		Info: model.Info{
			Name:          raw.Info.Name,
			Description:   raw.Info.Description,
			SchemaVersion: schemaVersion,
		},
		Auth: convertAuth(raw.Auth),
	}
	for _, v := range raw.Variable {
		c.Variables = append(c.Variables, convertVariable(v))
	}
	for _, e := range raw.Event {
		c.Events = append(c.Events, convertEvent(e))
	}
	for _, it := range raw.Item {
		c.Items = append(c.Items, convertItem(it))
	}
	return c, nil
}

// schemaVersionFromURL recognizes only the two schema versions this
// module resolves against (v2.0, v2.1); anything else fails the load
// rather than silently defaulting, since resolution semantics differ
// across schema versions and must never be guessed.
func schemaVersionFromURL(schema string) (model.SchemaVersion, error) {
	switch {
	case strings.Contains(schema, "v2.1"):
		return model.SchemaV21, nil
	case strings.Contains(schema, "v2.0"):
		return model.SchemaV20, nil
	default:
		return "", &SchemaError{Violations: []string{fmt.Sprintf("unrecognized schema_version: %q", schema)}}
	}
}

func convertItem(raw rawItem) model.Item {
	if raw.Request != nil {
		return convertRequest(raw)
	}
	f := &model.Folder{
		Name:        raw.Name,
		Description: raw.Description,
		Auth:        convertAuth(raw.Auth),
	}
	for _, v := range raw.Variable {
		f.Variables = append(f.Variables, convertVariable(v))
	}
	for _, e := range raw.Event {
		f.Events = append(f.Events, convertEvent(e))
	}
	for _, child := range raw.Item {
		f.Items = append(f.Items, convertItem(child))
	}
	return f
}

func convertRequest(raw rawItem) *model.Request {
	r := &model.Request{
		Name:        raw.Name,
		Description: raw.Description,
		Auth:        convertAuth(raw.Auth),
		Method:      raw.Request.Method,
		URL:         convertURL(raw.Request.URL),
	}
	for _, v := range raw.Variable {
		r.Variables = append(r.Variables, convertVariable(v))
	}
	for _, e := range raw.Event {
		r.Events = append(r.Events, convertEvent(e))
	}
	for _, h := range raw.Request.Header {
		r.Headers = append(r.Headers, model.Header{
			Key: h.Key, Value: h.Value, Disabled: h.Disabled, Description: h.Description,
		})
	}
	r.Body = convertBody(raw.Request.Body)
	for _, resp := range raw.Response {
		example := model.ExampleResponse{Name: resp.Name, Status: resp.Code, Body: resp.Body}
		for _, h := range resp.Header {
			example.Headers = append(example.Headers, model.Header{Key: h.Key, Value: h.Value})
		}
		r.ExampleResponses = append(r.ExampleResponses, example)
	}
	// request-level auth in a raw Postman item actually lives on
	// raw.Request.Auth, not raw.Auth (collections nest it under the
	// request object itself) — prefer it when present.
	if raw.Request.Auth != nil {
		r.Auth = convertAuth(raw.Request.Auth)
	}
	return r
}

func convertURL(raw rawURL) model.Url {
	u := model.Url{
		Raw:      raw.Raw,
		Protocol: raw.Protocol,
		Host:     append([]string(nil), raw.Host...),
		Port:     raw.Port,
		Path:     append([]string(nil), raw.Path...),
	}
	for _, q := range raw.Query {
		u.Query = append(u.Query, model.QueryParam{Key: q.Key, Value: q.Value, Disabled: q.Disabled})
	}
	for _, v := range raw.Variable {
		u.PathVars = append(u.PathVars, convertVariable(v))
	}
	return u
}

func convertBody(raw *rawBody) *model.Body {
	if raw == nil || raw.Mode == "" {
		return nil
	}
	b := &model.Body{Mode: model.BodyMode(raw.Mode)}
	switch b.Mode {
	case model.BodyRaw:
		b.Raw = raw.Raw
	case model.BodyURLEncoded:
		for _, kv := range raw.URLEncoded {
			b.URLEncoded = append(b.URLEncoded, model.KeyValue{Key: kv.Key, Value: kv.Value, Disabled: kv.Disabled})
		}
	case model.BodyFormData:
		for _, kv := range raw.FormData {
			b.FormData = append(b.FormData, model.FormParam{
				Key: kv.Key, Value: kv.Value, Type: kv.Type, Src: kv.Src, Disabled: kv.Disabled,
			})
		}
	case model.BodyFile:
		if raw.File != nil {
			b.File = &model.FileRef{Src: raw.File.Src}
		}
	case model.BodyGraphQL:
		if raw.GraphQL != nil {
			b.GraphQL = &model.GraphQLBody{Query: raw.GraphQL.Query, Variables: raw.GraphQL.Variables}
		}
	}
	return b
}

var authParamSources = func(a *rawAuth) map[model.AuthType][]rawAuthParam {
	return map[model.AuthType][]rawAuthParam{
		model.AuthBasic:  a.Basic,
		model.AuthBearer: a.Bearer,
		model.AuthAPIKey: a.APIKey,
		model.AuthOAuth1: a.OAuth1,
		model.AuthOAuth2: a.OAuth2,
		model.AuthDigest: a.Digest,
		model.AuthAWSV4:  a.AWSV4,
		model.AuthNTLM:   a.NTLM,
		model.AuthHawk:   a.Hawk,
		model.AuthNoAuth: a.Noauth,
	}
}

func convertAuth(raw *rawAuth) *model.Auth {
	if raw == nil || raw.Type == "" {
		return nil
	}
	authType := model.AuthType(raw.Type)
	params := map[string]string{}
	if src, ok := authParamSources(raw)[authType]; ok {
		for _, p := range src {
			params[p.Key] = p.Value
		}
	}
	return &model.Auth{Type: authType, Parameters: params}
}

func convertVariable(raw rawVariable) model.Variable {
	return model.Variable{
		Key: raw.Key, Value: raw.Value, Type: raw.Type,
		Description: raw.Description, Disabled: raw.Disabled,
	}
}

func convertEvent(raw rawEvent) model.Event {
	return model.Event{
		Listen: model.EventListen(raw.Listen),
		Script: append([]string(nil), raw.Script.Exec...),
	}
}
