package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

var (
	valueEscaper = strings.NewReplacer("%", "%25", "&", "%26")
	keyEscaper   = strings.NewReplacer("%", "%25", "&", "%26", "=", "%3D")
)

// SignOAuthQuery computes Shopify's OAuth callback HMAC.
// Shopify computes the HMAC over the querystring (excluding hmac and signature) in lexicographical order.
func SignOAuthQuery(values url.Values, apiSecret string) string {
	var keys []string
	for k := range values {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, v := range values[k] {
			parts = append(parts, keyEscaper.Replace(k)+"="+valueEscaper.Replace(v))
		}
	}
	msg := strings.Join(parts, "&")

	mac := hmac.New(sha256.New, []byte(apiSecret))
	_, _ = mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyOAuthHMAC reports whether the hmac parameter matches the signed query.
func VerifyOAuthHMAC(values url.Values, apiSecret string) bool {
	given := values.Get("hmac")
	if given == "" || apiSecret == "" {
		return false
	}
	expected := SignOAuthQuery(values, apiSecret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(given)))
}
