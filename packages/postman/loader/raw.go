package loader

// The raw* types mirror the Postman v2.1 collection JSON schema closely
// enough to decode any real export, following the field shapes
// confirmed by other_examples/trufflesecurity-trufflehog__postman_common_structs.go
// (PostmanCollection/PostmanCollectionItem/PostmanCollectionAuth/
// PostmanCollectionUrl). Decoding is structural only — no semantic
// validation happens here; Load applies optional schema validation
// separately before decoding.
type rawCollection struct {
	Info      rawInfo       `json:"info"`
	Item      []rawItem     `json:"item"`
	Variable  []rawVariable `json:"variable"`
	Auth      *rawAuth      `json:"auth"`
	Event     []rawEvent    `json:"event"`
}

type rawInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

type rawItem struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Item        []rawItem     `json:"item"`
	Request     *rawRequest   `json:"request"`
	Response    []rawResponse `json:"response"`
	Auth        *rawAuth      `json:"auth"`
	Variable    []rawVariable `json:"variable"`
	Event       []rawEvent    `json:"event"`
}

type rawRequest struct {
	Method string      `json:"method"`
	URL    rawURL      `json:"url"`
	Header []rawHeader `json:"header"`
	Body   *rawBody    `json:"body"`
	Auth   *rawAuth    `json:"auth"`
}

type rawResponse struct {
	Name   string      `json:"name"`
	Code   int         `json:"code"`
	Header []rawHeader `json:"header"`
	Body   string      `json:"body"`
}

type rawURL struct {
	Raw      string          `json:"raw"`
	Protocol string          `json:"protocol"`
	Host     []string        `json:"host"`
	Port     string          `json:"port"`
	Path     []string        `json:"path"`
	Query    []rawQueryParam `json:"query"`
	Variable []rawVariable   `json:"variable"`
}

type rawQueryParam struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type rawHeader struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Disabled    bool   `json:"disabled"`
	Description string `json:"description"`
}

type rawBody struct {
	Mode       string       `json:"mode"`
	Raw        string       `json:"raw"`
	URLEncoded []rawKV      `json:"urlencoded"`
	FormData   []rawFormKV  `json:"formdata"`
	GraphQL    *rawGraphQL  `json:"graphql"`
	File       *rawFileRef  `json:"file"`
}

type rawKV struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type rawFormKV struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Type     string `json:"type"`
	Src      string `json:"src"`
	Disabled bool   `json:"disabled"`
}

type rawGraphQL struct {
	Query     string `json:"query"`
	Variables string `json:"variables"`
}

type rawFileRef struct {
	Src string `json:"src"`
}

type rawAuth struct {
	Type   string         `json:"type"`
	Basic  []rawAuthParam `json:"basic"`
	Bearer []rawAuthParam `json:"bearer"`
	APIKey []rawAuthParam `json:"apikey"`
	OAuth1 []rawAuthParam `json:"oauth1"`
	OAuth2 []rawAuthParam `json:"oauth2"`
	Digest []rawAuthParam `json:"digest"`
	AWSV4  []rawAuthParam `json:"awsv4"`
	NTLM   []rawAuthParam `json:"ntlm"`
	Hawk   []rawAuthParam `json:"hawk"`
	Noauth []rawAuthParam `json:"noauth"`
}

type rawAuthParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type rawVariable struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Disabled    bool   `json:"disabled"`
}

type rawEvent struct {
	Listen string    `json:"listen"`
	Script rawScript `json:"script"`
}

type rawScript struct {
	Exec []string `json:"exec"`
}
