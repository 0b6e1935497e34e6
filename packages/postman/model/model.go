// Package model defines the in-memory collection tree: a Collection of
// Items (Request | Folder) carrying auth, variables, body, URL, headers,
// and events. The loader (packages/postman/loader) is the only producer
// of this tree; nothing in this package mutates it.
package model

// SchemaVersion identifies the Postman collection schema a Collection was
// decoded from. Resolution never crosses schema boundaries.
type SchemaVersion string

const (
	SchemaV20 SchemaVersion = "v2.0"
	SchemaV21 SchemaVersion = "v2.1"
)

// Info carries collection-level metadata.
type Info struct {
	Name          string
	Description   string
	SchemaVersion SchemaVersion
}

// Collection is the root container of items, variables, auth, and events.
// Immutable after load; callers that need a modified copy must clone it.
type Collection struct {
	Info      Info
	Items     []Item
	Variables []Variable
	Auth      *Auth
	Events    []Event
}

// Item is the tagged-union member of a collection tree: a Request or a
// Folder. Folders additionally carry child Items. There is no parent
// back-reference on either implementation — ancestor paths are computed
// on demand by Ancestors, never stored on the node, so the tree carries
// only forward edges and cannot form a reference cycle.
type Item interface {
	ItemName() string
	itemMarker()
}

// Request is one HTTP call definition.
type Request struct {
	Name             string
	Description      string
	Auth             *Auth
	Variables        []Variable
	Events           []Event
	Method           string
	URL              Url
	Headers          []Header
	Body             *Body
	ExampleResponses []ExampleResponse
}

func (r *Request) ItemName() string { return r.Name }
func (r *Request) itemMarker()      {}

// Folder is a named, possibly nested container. It owns its children
// exclusively (invariant: no cyclic folder ownership).
type Folder struct {
	Name        string
	Description string
	Auth        *Auth
	Variables   []Variable
	Events      []Event
	Items       []Item
}

func (f *Folder) ItemName() string { return f.Name }
func (f *Folder) itemMarker()      {}

// Url is the structured form of a request target. The structured form is
// authoritative for resolution; Raw keeps the raw string as loaded and is
// neither consulted nor rewritten during resolution.
type Url struct {
	Raw      string
	Protocol string
	Host     []string
	Port     string
	Path     []string
	Query    []QueryParam
	PathVars []Variable
}

// QueryParam is one query-string entry. Disabled entries are omitted from
// the rendered URL; an empty Value is kept (the two are distinct states).
type QueryParam struct {
	Key      string
	Value    string
	Disabled bool
}

// Header is one request header. Comparison for override purposes is
// case-insensitive; original casing is preserved on emit.
type Header struct {
	Key         string
	Value       string
	Disabled    bool
	Description string
}

// BodyMode tags the payload shape carried by a Body.
type BodyMode string

const (
	BodyNone       BodyMode = "none"
	BodyRaw        BodyMode = "raw"
	BodyURLEncoded BodyMode = "urlencoded"
	BodyFormData   BodyMode = "formdata"
	BodyFile       BodyMode = "file"
	BodyGraphQL    BodyMode = "graphql"
)

// Body is a tagged union by Mode; only the field matching Mode is read.
// A Body with Mode BodyNone is equivalent to a nil Body.
type Body struct {
	Mode       BodyMode
	Raw        string
	URLEncoded []KeyValue
	FormData   []FormParam
	File       *FileRef
	GraphQL    *GraphQLBody
}

// KeyValue is a disableable key/value pair used by urlencoded bodies.
type KeyValue struct {
	Key      string
	Value    string
	Disabled bool
}

// FormParam is one multipart/form-data field: either a plain text value
// or a file reference (Type == "file", Src holds the path).
type FormParam struct {
	Key      string
	Value    string
	Type     string
	Src      string
	Disabled bool
}

// FileRef is the payload of a Mode == BodyFile body.
type FileRef struct {
	Src string
}

// GraphQLBody carries a GraphQL query plus its JSON-encoded variables.
type GraphQLBody struct {
	Query     string
	Variables string
}

// AuthType enumerates the supported authentication schemes.
type AuthType string

const (
	AuthNoAuth AuthType = "noauth"
	AuthBasic  AuthType = "basic"
	AuthBearer AuthType = "bearer"
	AuthAPIKey AuthType = "apikey"
	AuthOAuth1 AuthType = "oauth1"
	AuthOAuth2 AuthType = "oauth2"
	AuthDigest AuthType = "digest"
	AuthAWSV4  AuthType = "awsv4"
	AuthNTLM   AuthType = "ntlm"
	AuthHawk   AuthType = "hawk"
)

// Auth holds a resolved or unresolved authentication configuration.
// Parameters are type-specific; see packages/postman/auth for the
// required-parameter table per type.
type Auth struct {
	Type       AuthType
	Parameters map[string]string
}

// Variable is one entry of a variable scope. Disabled variables are
// skipped during lookup (see packages/postman/context).
type Variable struct {
	Key         string
	Value       string
	Type        string
	Description string
	Disabled    bool
}

// EventListen identifies when a script runs relative to dispatch.
type EventListen string

const (
	ListenPreRequest EventListen = "prerequest"
	ListenTest       EventListen = "test"
)

// Event is an opaque script attachment; the core never evaluates Script
// itself, only passes it to the external hook (packages/postman/hook).
type Event struct {
	Listen EventListen
	Script []string
}

// ExampleResponse is a saved example attached to a Request; the core
// never dispatches against these, they exist for introspection only.
type ExampleResponse struct {
	Name    string
	Status  int
	Headers []Header
	Body    string
}
