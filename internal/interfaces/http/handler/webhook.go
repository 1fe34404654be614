package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/standard"
	"github.com/commercehub/backend/internal/infrastructure/webhook"
	"github.com/commercehub/backend/internal/interfaces/http/dto"
)

// WebhookHandler is the webhook ingress endpoint. Platforms deliver raw
// signed payloads here; these endpoints carry no session auth, the HMAC
// signature is the authentication.
type WebhookHandler struct {
	processor *webhook.Processor
	logger    *zap.Logger
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(processor *webhook.Processor, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{processor: processor, logger: logger}
}

// WebhookResponse is the ingress acknowledgement body
type WebhookResponse struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate,omitempty"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
}

// Receive handles POST /api/v1/webhooks/:platform
func (h *WebhookHandler) Receive(c *gin.Context) {
	plat := standard.Platform(c.Param("platform"))
	if !plat.IsValid() {
		c.JSON(http.StatusNotFound, dto.Err(dto.CodeNotFound, "unknown platform"))
		return
	}

	tenantID, err := uuid.Parse(c.GetHeader("X-Tenant-ID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "missing or invalid X-Tenant-ID header"))
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "failed to read request body"))
		return
	}
	signature := c.GetHeader("X-Webhook-Signature")

	event, duplicate, err := h.processor.Process(c.Request.Context(), tenantID, plat, payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, platform.ErrInvalidSignature):
			// No event was constructed; the payload never got parsed.
			c.JSON(http.StatusUnauthorized, dto.Err(dto.CodeInvalidSignature, "webhook signature verification failed"))
		case errors.Is(err, platform.ErrNotRegistered), errors.Is(err, platform.ErrNotConfigured):
			c.JSON(http.StatusNotFound, dto.Err(dto.CodeNotFound, err.Error()))
		case errors.Is(err, platform.ErrInvalidResponse):
			c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "malformed webhook payload"))
		default:
			h.logger.Error("webhook processing failed",
				zap.String("platform", string(plat)),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, dto.Err(dto.CodeInternal, "webhook processing failed"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.OK(WebhookResponse{
		Received:  true,
		Duplicate: duplicate,
		EventID:   event.EventID,
		EventType: event.EventType,
	}))
}
