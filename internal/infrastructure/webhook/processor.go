package webhook

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/shared"
	"github.com/commercehub/backend/internal/domain/standard"
)

// EventSink receives verified, deduplicated webhook events
type EventSink interface {
	Handle(ctx context.Context, tenantID uuid.UUID, event *standard.StandardWebhookEvent) error
}

// Processor runs the webhook ingress pipeline: signature verification
// (inside the adapter, before any parsing), idempotency check on the
// (platform, event_id) pair, then dispatch to the sink.
type Processor struct {
	adapters    platform.Registry
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	sink        EventSink
	logger      *zap.Logger
}

// NewProcessor creates a webhook processor
func NewProcessor(
	adapters platform.Registry,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	sink EventSink,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		adapters:    adapters,
		idempotency: idempotency,
		idemConfig:  idemConfig,
		sink:        sink,
		logger:      logger,
	}
}

// Process handles one raw webhook delivery. The returned bool is true when
// the delivery was a replay of an already-processed event; replays are a
// normal no-op, not an error, and never reach the sink.
func (p *Processor) Process(ctx context.Context, tenantID uuid.UUID, plat standard.Platform, payload []byte, signatureHex string) (*standard.StandardWebhookEvent, bool, error) {
	adapter, err := p.adapters.Get(plat)
	if err != nil {
		return nil, false, err
	}

	// The adapter verifies the HMAC signature against the raw bytes and
	// only constructs an event when verification passes.
	event, err := adapter.ProcessWebhook(ctx, tenantID, payload, signatureHex)
	if err != nil {
		return nil, false, err
	}

	if p.idemConfig.Enabled {
		fresh, err := p.idempotency.MarkProcessed(ctx, event.IdempotencyKey(), p.idemConfig.TTL)
		if err != nil {
			return nil, false, fmt.Errorf("webhook: idempotency check failed: %w", err)
		}
		if !fresh {
			p.logger.Info("webhook replay suppressed",
				zap.String("platform", string(event.Platform)),
				zap.String("event_id", event.EventID),
			)
			return event, true, nil
		}
	}

	if p.sink != nil {
		if err := p.sink.Handle(ctx, tenantID, event); err != nil {
			return event, false, err
		}
	}

	p.logger.Debug("webhook processed",
		zap.String("platform", string(event.Platform)),
		zap.String("event_type", event.EventType),
		zap.String("event_id", event.EventID),
	)
	return event, false, nil
}
