package events

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// verifySignature recomputes the base64-encoded HMAC-SHA-256 of body with
// secret and compares it against the signature header in constant time.
func verifySignature(secret, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
