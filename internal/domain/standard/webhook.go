package standard

import (
	"encoding/json"
	"time"
)

// StandardWebhookEvent is the canonical webhook event schema. The pair
// (Platform, EventID) is the idempotency key: it must be processed at most once.
type StandardWebhookEvent struct {
	// Platform identifies the source platform
	Platform Platform `json:"platform"`
	// EventType is the platform-reported event type (e.g., order.created)
	EventType string `json:"event_type"`
	// EventID is the platform-assigned event identifier
	EventID string `json:"event_id"`
	// CreatedAt is when the event occurred on the platform
	CreatedAt time.Time `json:"created_at"`
	// Data is the opaque event payload
	Data json.RawMessage `json:"data"`
}

// IdempotencyKey returns the at-most-once processing key for this event
func (e *StandardWebhookEvent) IdempotencyKey() string {
	return string(e.Platform) + ":" + e.EventID
}

// Context flattens the event into the lookup map trigger conditions resolve
// field paths against. The payload is decoded when it is a JSON object.
func (e *StandardWebhookEvent) Context() map[string]any {
	ctx := map[string]any{
		"platform":   string(e.Platform),
		"event_type": e.EventType,
		"event_id":   e.EventID,
	}
	if len(e.Data) > 0 {
		var payload map[string]any
		if err := json.Unmarshal(e.Data, &payload); err == nil {
			for k, v := range payload {
				ctx[k] = v
			}
		}
	}
	return ctx
}
