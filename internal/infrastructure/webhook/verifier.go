// Package webhook verifies and processes platform webhook deliveries.
// Verification always runs against the raw payload bytes before any JSON
// parsing takes place.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the hex-encoded HMAC-SHA256 signature of a raw payload.
// Adapters and tests use it to produce signatures; platforms compute the
// same value with the shared per-tenant secret.
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks a webhook signature with a constant-time comparison.
// An absent or empty secret fails verification rather than skipping it.
func Verify(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	provided, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hmac.Equal(h.Sum(nil), provided)
}
