package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hitcall/hitcall/packages/postman/model"
	"github.com/hitcall/hitcall/packages/postman/wire"
)

// applyAWSV4 signs req using AWS Signature Version 4. Fully computable
// without network I/O (only a wall-clock read), so unlike digest and
// oauth2 it runs entirely here rather than being deferred to the
// Dispatcher.
func applyAWSV4(req *wire.Request, p map[string]string) error {
	accessKey, ok := p["accessKey"]
	if !ok || accessKey == "" {
		return missingParam(string(model.AuthAWSV4), "accessKey")
	}
	secretKey, ok := p["secretKey"]
	if !ok || secretKey == "" {
		return missingParam(string(model.AuthAWSV4), "secretKey")
	}
	region, ok := p["region"]
	if !ok || region == "" {
		return missingParam(string(model.AuthAWSV4), "region")
	}
	service, ok := p["service"]
	if !ok || service == "" {
		return missingParam(string(model.AuthAWSV4), "service")
	}

	t := time.Now().UTC()
	amzDate := t.Format("20060102T150405Z")
	dateStamp := t.Format("20060102")

	host := req.URL.Host
	signedHeaders := "host;x-amz-date"
	canonicalHeaders := fmt.Sprintf("host:%s\nx-amz-date:%s\n", host, amzDate)

	payloadHash := sha256Hash(string(req.Body))

	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}

	canonicalQueryString := canonicalAWSQueryString(req.URL.Query())

	canonicalRequest := strings.Join([]string{
		req.Method,
		canonicalURI,
		canonicalQueryString,
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, region, service)
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		credentialScope,
		sha256Hash(canonicalRequest),
	}, "\n")

	signingKey := awsSigningKey(secretKey, dateStamp, region, service)
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	authHeader := fmt.Sprintf("AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		accessKey, credentialScope, signedHeaders, signature)

	req.Header.Set("Host", host)
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)
	req.Header.Set("Authorization", authHeader)
	return nil
}

func canonicalAWSQueryString(values map[string][]string) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		vals := append([]string(nil), values[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			pairs = append(pairs, fmt.Sprintf("%s=%s", awsQueryEscape(k), awsQueryEscape(v)))
		}
	}
	return strings.Join(pairs, "&")
}

func awsQueryEscape(s string) string {
	replacer := strings.NewReplacer("+", "%20")
	return replacer.Replace(strings.ReplaceAll(s, " ", "%20"))
}

func sha256Hash(s string) string {
	h := sha256.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}

func awsSigningKey(secretKey, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, "aws4_request")
}
