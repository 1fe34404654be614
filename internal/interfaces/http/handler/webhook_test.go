package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/shared"
	"github.com/commercehub/backend/internal/domain/standard"
	"github.com/commercehub/backend/internal/infrastructure/adapters"
	"github.com/commercehub/backend/internal/infrastructure/adapters/faire"
	"github.com/commercehub/backend/internal/infrastructure/cache"
	"github.com/commercehub/backend/internal/infrastructure/webhook"
)

const testWebhookSecret = "whsec-handler"

type noopSink struct{}

func (noopSink) Handle(_ context.Context, _ uuid.UUID, _ *standard.StandardWebhookEvent) error {
	return nil
}

func newWebhookRouter(t *testing.T, tenantID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adapter, err := faire.NewAdapter(nil)
	require.NoError(t, err)
	require.NoError(t, adapter.SetTenantConfig(tenantID, &faire.FaireConfig{
		AccessToken:   "tok",
		WebhookSecret: testWebhookSecret,
	}))

	registry := adapters.NewRegistry()
	registry.Register(adapter)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { store.Close() })

	processor := webhook.NewProcessor(registry, store, shared.IdempotencyConfig{TTL: time.Hour, Enabled: true}, noopSink{}, zap.NewNop())

	router := gin.New()
	router.POST("/webhooks/:platform", NewWebhookHandler(processor, zap.NewNop()).Receive)
	return router
}

func deliver(router *gin.Engine, platform, tenantID, signature string, payload []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/"+platform, bytes.NewReader(payload))
	if tenantID != "" {
		req.Header.Set("X-Tenant-ID", tenantID)
	}
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func webhookPayload() []byte {
	return []byte(`{"event_id":"evt-1","event_type":"order.created","payload":{"order":{"id":"bo_1"}}}`)
}

func TestReceive_OK(t *testing.T) {
	tenantID := uuid.New()
	router := newWebhookRouter(t, tenantID)

	payload := webhookPayload()
	w := deliver(router, "FAIRE", tenantID.String(), webhook.Sign(testWebhookSecret, payload), payload)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    WebhookResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Received)
	assert.False(t, resp.Data.Duplicate)
	assert.Equal(t, "evt-1", resp.Data.EventID)
	assert.Equal(t, "order.created", resp.Data.EventType)
}

func TestReceive_DuplicateAcknowledged(t *testing.T) {
	tenantID := uuid.New()
	router := newWebhookRouter(t, tenantID)

	payload := webhookPayload()
	signature := webhook.Sign(testWebhookSecret, payload)

	first := deliver(router, "FAIRE", tenantID.String(), signature, payload)
	require.Equal(t, http.StatusOK, first.Code)

	second := deliver(router, "FAIRE", tenantID.String(), signature, payload)
	require.Equal(t, http.StatusOK, second.Code)

	var resp struct {
		Data WebhookResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Duplicate)
}

func TestReceive_BadSignature(t *testing.T) {
	tenantID := uuid.New()
	router := newWebhookRouter(t, tenantID)

	w := deliver(router, "FAIRE", tenantID.String(), "deadbeef", webhookPayload())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")
}

func TestReceive_UnknownPlatform(t *testing.T) {
	tenantID := uuid.New()
	router := newWebhookRouter(t, tenantID)

	w := deliver(router, "EBAY", tenantID.String(), "sig", webhookPayload())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceive_UnregisteredPlatform(t *testing.T) {
	tenantID := uuid.New()
	router := newWebhookRouter(t, tenantID)

	// Valid platform code without a registered adapter.
	w := deliver(router, "SHOPIFY", tenantID.String(), "sig", webhookPayload())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceive_MissingTenantHeader(t *testing.T) {
	router := newWebhookRouter(t, uuid.New())

	w := deliver(router, "FAIRE", "", "sig", webhookPayload())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceive_MalformedPayload(t *testing.T) {
	tenantID := uuid.New()
	router := newWebhookRouter(t, tenantID)

	payload := []byte(`{"payload":{}}`)
	w := deliver(router, "FAIRE", tenantID.String(), webhook.Sign(testWebhookSecret, payload), payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
