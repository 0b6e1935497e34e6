// Package auth resolves which Auth configuration governs a request by
// walking its ancestor chain (request, then each enclosing folder, then
// the collection), then applies that configuration to a prepared
// wire.Request, reporting where the winning auth came from.
package auth

import "github.com/hitcall/hitcall/packages/postman/model"

// Source identifies which tree level contributed the effective auth.
type Source string

const (
	SourceRequest    Source = "request"
	SourceFolder     Source = "folder"
	SourceCollection Source = "collection"
	SourceNone       Source = "none"
)

// Resolved is the outcome of walking a Request's ancestor chain for auth.
type Resolved struct {
	Auth   *model.Auth
	Source Source
	// Path names every tree node from the collection down to the
	// request, root-first, whichever level the winning auth came from.
	Path []string
}

// Resolve determines the effective auth for req given its ancestor
// folders (outermost first, as returned by model.Ancestors) and the
// owning collection.
//
// Precedence, generalized to any Item: the nearest ancestor-or-self
// Auth whose Type is not AuthNoAuth wins. An
// explicit AuthNoAuth at any level stops the walk immediately — it
// does not fall through to outer levels. Absence of an Auth (nil) at a
// level is transparent: the walk continues outward.
func Resolve(req *model.Request, ancestors []*model.Folder, collection *model.Collection) Resolved {
	var path []string
	if collection != nil {
		path = append(path, "collection:"+collection.Info.Name)
	}
	for _, f := range ancestors {
		path = append(path, "folder:"+f.Name)
	}
	path = append(path, "request:"+req.Name)

	if req.Auth != nil {
		if req.Auth.Type != model.AuthNoAuth {
			return Resolved{Auth: req.Auth, Source: SourceRequest, Path: path}
		}
		return Resolved{Auth: nil, Source: SourceNone, Path: path}
	}

	for i := len(ancestors) - 1; i >= 0; i-- {
		f := ancestors[i]
		if f.Auth == nil {
			continue
		}
		if f.Auth.Type != model.AuthNoAuth {
			return Resolved{Auth: f.Auth, Source: SourceFolder, Path: path}
		}
		return Resolved{Auth: nil, Source: SourceNone, Path: path}
	}

	if collection != nil && collection.Auth != nil {
		if collection.Auth.Type != model.AuthNoAuth {
			return Resolved{Auth: collection.Auth, Source: SourceCollection, Path: path}
		}
		return Resolved{Auth: nil, Source: SourceNone, Path: path}
	}

	return Resolved{Auth: nil, Source: SourceNone, Path: path}
}
