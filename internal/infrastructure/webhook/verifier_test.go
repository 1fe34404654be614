package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerify(t *testing.T) {
	payload := []byte(`{"event_id":"evt-1","event_type":"order.created"}`)
	signature := Sign("shared-secret", payload)

	assert.True(t, Verify("shared-secret", payload, signature))
}

func TestVerify_WrongSecret(t *testing.T) {
	payload := []byte(`{"event_id":"evt-1"}`)
	signature := Sign("right-secret", payload)

	assert.False(t, Verify("wrong-secret", payload, signature))
}

func TestVerify_TamperedPayload(t *testing.T) {
	payload := []byte(`{"amount":100}`)
	signature := Sign("secret", payload)

	assert.False(t, Verify("secret", []byte(`{"amount":999}`), signature))
}

func TestVerify_EmptySecretFails(t *testing.T) {
	payload := []byte(`{}`)
	// An unset secret must fail verification, never skip it.
	assert.False(t, Verify("", payload, Sign("", payload)))
}

func TestVerify_EmptySignatureFails(t *testing.T) {
	assert.False(t, Verify("secret", []byte(`{}`), ""))
}

func TestVerify_MalformedHexFails(t *testing.T) {
	assert.False(t, Verify("secret", []byte(`{}`), "not-hex!"))
}
