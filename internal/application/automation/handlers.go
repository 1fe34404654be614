package automation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commercehub/backend/internal/domain/automation"
	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/standard"
)

// ExecutionContext carries the immutable inputs of one automation run into
// its action handlers.
type ExecutionContext struct {
	TenantID   uuid.UUID
	Automation *automation.Automation
	// EventCtx is the flattened event context conditions and branches
	// resolve field paths against
	EventCtx map[string]any
	// Adapters gives handlers access to the platform adapters
	Adapters platform.Registry
}

// ActionHandler executes one action type. Handlers must be safe for
// concurrent use; parallel actions of one run share the handler instance.
type ActionHandler interface {
	// Type is the action_type this handler serves
	Type() string
	// Execute performs the action. The context carries the per-attempt
	// deadline; handlers must respect cancellation.
	Execute(ctx context.Context, exec *ExecutionContext, action automation.Action) error
}

// HandlerRegistry maps action types to their handlers
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]ActionHandler
}

// NewHandlerRegistry creates an empty handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]ActionHandler)}
}

// Register adds a handler under its own action type
func (r *HandlerRegistry) Register(h ActionHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Type()] = h
}

// Get returns the handler for an action type
func (r *HandlerRegistry) Get(actionType string) (ActionHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", automation.ErrUnknownActionType, actionType)
	}
	return h, nil
}

// Types returns the registered action types, sorted
func (r *HandlerRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ---------------------------------------------------------------------------
// Config Lookup Helpers
// ---------------------------------------------------------------------------

// configString resolves a handler parameter: an explicit config value wins,
// otherwise the key is looked up in the event context.
func configString(exec *ExecutionContext, action automation.Action, key string) (string, error) {
	if raw, ok := action.Config[key]; ok {
		if s, ok := raw.(string); ok && s != "" {
			return s, nil
		}
		return "", &automation.ValidationError{Field: "config." + key, Message: "must be a non-empty string"}
	}
	if v := automation.ResolveFieldPath(exec.EventCtx, key); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, nil
		}
	}
	return "", &automation.ValidationError{Field: "config." + key, Message: "required"}
}

// configInt resolves a numeric handler parameter. JSON numbers decode as
// float64; integral values are required.
func configInt(action automation.Action, key string) (int, error) {
	raw, ok := action.Config[key]
	if !ok {
		return 0, &automation.ValidationError{Field: "config." + key, Message: "required"}
	}
	switch n := raw.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, &automation.ValidationError{Field: "config." + key, Message: "must be a number"}
	}
}

// configDecimal resolves a money-valued handler parameter
func configDecimal(action automation.Action, key string) (decimal.Decimal, error) {
	raw, ok := action.Config[key]
	if !ok {
		return decimal.Zero, &automation.ValidationError{Field: "config." + key, Message: "required"}
	}
	switch n := raw.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, &automation.ValidationError{Field: "config." + key, Message: "must be a decimal number"}
		}
		return d, nil
	default:
		return decimal.Zero, &automation.ValidationError{Field: "config." + key, Message: "must be a decimal number"}
	}
}

// targetPlatform resolves the platform a handler acts on: explicit config
// wins, then the platform of the triggering event.
func targetPlatform(exec *ExecutionContext, action automation.Action) (standard.Platform, error) {
	name, err := configString(exec, action, "platform")
	if err != nil {
		return "", &automation.ValidationError{Field: "config.platform", Message: "required"}
	}
	p := standard.Platform(name)
	if !p.IsValid() {
		return "", &automation.ValidationError{Field: "config.platform", Message: fmt.Sprintf("unknown platform %q", name)}
	}
	return p, nil
}
