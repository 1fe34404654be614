package faire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/standard"
	"github.com/commercehub/backend/internal/infrastructure/webhook"
)

// ---------------------------------------------------------------------------
// Webhook Subscription Management
// ---------------------------------------------------------------------------

// RegisterWebhook subscribes a callback URL to an event topic on Faire
func (a *Adapter) RegisterWebhook(ctx context.Context, tenantID uuid.UUID, topic, address string) (*platform.Webhook, error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(faireWebhook{URL: address, Events: []string{topic}})
	if err != nil {
		return nil, fmt.Errorf("faire: failed to encode webhook: %w", err)
	}

	body, err := a.doRequest(ctx, config, http.MethodPost, "/webhooks", nil, payload)
	if err != nil {
		return nil, err
	}

	var created faireWebhook
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toPlatformWebhook(&created), nil
}

// ListWebhooks lists the webhook subscriptions registered on Faire
func (a *Adapter) ListWebhooks(ctx context.Context, tenantID uuid.UUID) ([]platform.Webhook, error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	body, err := a.doRequest(ctx, config, http.MethodGet, "/webhooks", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp faireWebhooksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}

	webhooks := make([]platform.Webhook, 0, len(resp.Webhooks))
	for i := range resp.Webhooks {
		webhooks = append(webhooks, *toPlatformWebhook(&resp.Webhooks[i]))
	}
	return webhooks, nil
}

// DeleteWebhook removes a webhook subscription from Faire
func (a *Adapter) DeleteWebhook(ctx context.Context, tenantID uuid.UUID, webhookID string) error {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return err
	}
	_, err = a.doRequest(ctx, config, http.MethodDelete, "/webhooks/"+url.PathEscape(webhookID), nil, nil)
	return err
}

func toPlatformWebhook(w *faireWebhook) *platform.Webhook {
	topic := ""
	if len(w.Events) > 0 {
		topic = w.Events[0]
	}
	return &platform.Webhook{
		PlatformID: w.ID,
		Topic:      topic,
		Address:    w.URL,
	}
}

// ---------------------------------------------------------------------------
// Inbound Webhook Processing
// ---------------------------------------------------------------------------

// VerifyWebhookSignature checks the hex HMAC-SHA256 signature of the raw
// payload against the tenant's webhook secret. An empty secret fails
// verification rather than skipping it.
func (a *Adapter) VerifyWebhookSignature(ctx context.Context, tenantID uuid.UUID, payload []byte, signatureHex string) error {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return err
	}
	if !webhook.Verify(config.WebhookSecret, payload, signatureHex) {
		return platform.ErrInvalidSignature
	}
	return nil
}

// ProcessWebhook verifies the delivery signature and only then parses the
// envelope into the canonical event. No event is constructed when
// verification fails.
func (a *Adapter) ProcessWebhook(ctx context.Context, tenantID uuid.UUID, payload []byte, signatureHex string) (*standard.StandardWebhookEvent, error) {
	if err := a.VerifyWebhookSignature(ctx, tenantID, payload, signatureHex); err != nil {
		return nil, err
	}

	var envelope faireWebhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	if envelope.EventID == "" || envelope.EventType == "" {
		return nil, fmt.Errorf("%w: webhook envelope missing event_id or event_type", platform.ErrInvalidResponse)
	}

	data, err := json.Marshal(envelope.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}

	return &standard.StandardWebhookEvent{
		Platform:  standard.PlatformFaire,
		EventType: envelope.EventType,
		EventID:   envelope.EventID,
		CreatedAt: parseFaireTime(envelope.CreatedAt),
		Data:      data,
	}, nil
}
