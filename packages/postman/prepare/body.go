package prepare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/resolve"
)

// buildBody renders a model.Body into wire bytes plus the Content-Type
// header it implies, if any (empty string means the caller's own
// headers govern Content-Type).
func buildBody(body *model.Body, baseDir string, resolver *resolve.Resolver) ([]byte, string, []resolve.Diagnostic, error) {
	if body == nil || body.Mode == model.BodyNone {
		return nil, "", nil, nil
	}

	switch body.Mode {
	case model.BodyRaw:
		raw, diags := resolver.Resolve(body.Raw)
		return []byte(raw), "", diags, nil

	case model.BodyURLEncoded:
		var diags []resolve.Diagnostic
		values := url.Values{}
		for _, kv := range body.URLEncoded {
			if kv.Disabled {
				continue
			}
			key, kdiags := resolver.Resolve(kv.Key)
			diags = append(diags, kdiags...)
			val, vdiags := resolver.Resolve(kv.Value)
			diags = append(diags, vdiags...)
			values.Add(key, val)
		}
		return []byte(values.Encode()), "application/x-www-form-urlencoded", diags, nil

	case model.BodyFormData:
		return buildMultipartBody(body.FormData, baseDir, resolver)

	case model.BodyFile:
		if body.File == nil || body.File.Src == "" {
			return nil, "", nil, fmt.Errorf("prepare: BodyFile with no file reference")
		}
		src, diags := resolver.Resolve(body.File.Src)
		path, err := resolveWithinBase(src, baseDir)
		if err != nil {
			return nil, "", diags, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", diags, fmt.Errorf("prepare: reading body file %q: %w", path, err)
		}
		return data, "", diags, nil

	case model.BodyGraphQL:
		if body.GraphQL == nil {
			return nil, "", nil, nil
		}
		query, diags := resolver.Resolve(body.GraphQL.Query)
		varsRaw, vdiags := resolver.Resolve(body.GraphQL.Variables)
		diags = append(diags, vdiags...)

		payload := map[string]json.RawMessage{
			"query": mustMarshal(query),
		}
		if strings.TrimSpace(varsRaw) != "" {
			payload["variables"] = json.RawMessage(varsRaw)
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, "", diags, fmt.Errorf("prepare: encoding graphql body: %w", err)
		}
		return encoded, "application/json", diags, nil

	default:
		return nil, "", nil, fmt.Errorf("prepare: unknown body mode %q", body.Mode)
	}
}

func mustMarshal(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func buildMultipartBody(fields []model.FormParam, baseDir string, resolver *resolve.Resolver) ([]byte, string, []resolve.Diagnostic, error) {
	var diags []resolve.Diagnostic
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, field := range fields {
		if field.Disabled {
			continue
		}
		key, kdiags := resolver.Resolve(field.Key)
		diags = append(diags, kdiags...)

		if field.Type == "file" {
			src, sdiags := resolver.Resolve(field.Src)
			diags = append(diags, sdiags...)
			path, err := resolveWithinBase(src, baseDir)
			if err != nil {
				return nil, "", diags, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, "", diags, fmt.Errorf("prepare: reading form-data file %q: %w", path, err)
			}
			part, err := writer.CreateFormFile(key, filepath.Base(path))
			if err != nil {
				return nil, "", diags, err
			}
			if _, err := part.Write(data); err != nil {
				return nil, "", diags, err
			}
			continue
		}

		val, vdiags := resolver.Resolve(field.Value)
		diags = append(diags, vdiags...)
		if err := writer.WriteField(key, val); err != nil {
			return nil, "", diags, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", diags, err
	}
	return buf.Bytes(), writer.FormDataContentType(), diags, nil
}

// resolveWithinBase joins src under baseDir when src is relative, and
// refuses a relative src that resolves outside baseDir. An absolute src,
// or any src when baseDir is empty, is returned unchanged.
func resolveWithinBase(src, baseDir string) (string, error) {
	if baseDir == "" || filepath.IsAbs(src) {
		return src, nil
	}
	joined := filepath.Join(baseDir, src)
	cleanBase := filepath.Clean(baseDir)
	if joined != cleanBase && !strings.HasPrefix(joined, cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("prepare: path %q escapes base directory %q", src, baseDir)
	}
	return joined, nil
}
