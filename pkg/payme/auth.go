package payme

import (
	"crypto/subtle"
	"encoding/base64"
)

// DefaultLogin is the literal username the provider uses in its Basic
// credential.
const DefaultLogin = "Paycom"

// Credential builds the expected Authorization header value for the given
// login and merchant key.
func Credential(login, key string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(login+":"+key))
}

// Authorized reports whether header matches the expected credential byte for
// byte. An empty header or an unconfigured key never matches.
func Authorized(header, expected string) bool {
	if header == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}
