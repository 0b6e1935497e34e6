package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

// applyOAuth1 signs req per RFC 5849. No library in the example pack
// implements OAuth1, so this is hand-rolled; the shape (canonical base
// string, signing key, Authorization header assembly) follows the same
// structure as applyAWSV4.
func applyOAuth1(req *wire.Request, p map[string]string) error {
	consumerKey, ok := p["consumerKey"]
	if !ok || consumerKey == "" {
		return missingParam(string(model.AuthOAuth1), "consumerKey")
	}
	consumerSecret, ok := p["consumerSecret"]
	if !ok {
		return missingParam(string(model.AuthOAuth1), "consumerSecret")
	}
	token, ok := p["token"]
	if !ok {
		return missingParam(string(model.AuthOAuth1), "token")
	}
	tokenSecret, ok := p["tokenSecret"]
	if !ok {
		return missingParam(string(model.AuthOAuth1), "tokenSecret")
	}
	signatureMethod, ok := p["signatureMethod"]
	if !ok || signatureMethod == "" {
		return missingParam(string(model.AuthOAuth1), "signatureMethod")
	}

	nonce := p["nonce"]
	if nonce == "" {
		nonce = randomNonce()
	}
	timestamp := p["timestamp"]
	if timestamp == "" {
		timestamp = fmt.Sprintf("%d", time.Now().Unix())
	}

	oauthParams := map[string]string{
		"oauth_consumer_key":     consumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": signatureMethod,
		"oauth_timestamp":        timestamp,
		"oauth_version":          "1.0",
	}
	if token != "" {
		oauthParams["oauth_token"] = token
	}

	base := oauth1SignatureBase(req.Method, req.URL, oauthParams)
	signingKey := url.QueryEscape(consumerSecret) + "&" + url.QueryEscape(tokenSecret)

	var signature string
	switch strings.ToUpper(signatureMethod) {
	case "HMAC-SHA1":
		signature = base64.StdEncoding.EncodeToString(hmacSHA1([]byte(signingKey), base))
	case "PLAINTEXT":
		signature = signingKey
	default:
		return &ConfigError{Type: string(model.AuthOAuth1), Field: "signatureMethod", Message: fmt.Sprintf("unsupported signature method %q", signatureMethod)}
	}
	oauthParams["oauth_signature"] = signature

	req.Header.Set("Authorization", buildOAuth1Header(oauthParams))
	return nil
}

func oauth1SignatureBase(method string, u *url.URL, oauthParams map[string]string) string {
	all := map[string]string{}
	for k, v := range oauthParams {
		all[k] = v
	}
	for k, vs := range u.Query() {
		if len(vs) > 0 {
			all[k] = vs[0]
		}
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(all[k]))
	}
	paramString := strings.Join(pairs, "&")

	baseURL := fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path)
	return strings.ToUpper(method) + "&" + url.QueryEscape(baseURL) + "&" + url.QueryEscape(paramString)
}

func buildOAuth1Header(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf(`%s="%s"`, k, url.QueryEscape(params[k])))
	}
	return "OAuth " + strings.Join(parts, ", ")
}

func hmacSHA1(key []byte, data string) []byte {
	h := hmac.New(sha1.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}

func randomNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
