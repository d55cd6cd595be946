package ingest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature checks the webhook signature against the digest of the
// raw request body keyed by the tenant's webhook secret. The provided
// signature is the base64-encoded HMAC-SHA256 as sent in the
// X-Shopify-Hmac-SHA256 header. The raw bytes must be used as received;
// re-serialized JSON will not verify.
//
// Returns false for an empty secret or signature; never errors.
func VerifySignature(rawBody []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
