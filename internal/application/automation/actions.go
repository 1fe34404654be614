package automation

import (
	"context"

	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/automation"
	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/standard"
)

// Built-in action types
const (
	ActionTypeUpdateInventory    = "update_inventory"
	ActionTypeUpdateProductPrice = "update_product_price"
	ActionTypeFulfillOrder       = "fulfill_order"
	ActionTypeCancelOrder        = "cancel_order"
	ActionTypeAddOrderNote       = "add_order_note"
	ActionTypeSendNotification   = "send_notification"
)

// RegisterBuiltinHandlers wires the built-in action handlers into a registry
func RegisterBuiltinHandlers(registry *HandlerRegistry, notifier Notifier) {
	registry.Register(&UpdateInventoryHandler{})
	registry.Register(&UpdateProductPriceHandler{})
	registry.Register(&FulfillOrderHandler{})
	registry.Register(&CancelOrderHandler{})
	registry.Register(&AddOrderNoteHandler{})
	registry.Register(&SendNotificationHandler{notifier: notifier})
}

// ---------------------------------------------------------------------------
// Inventory Actions
// ---------------------------------------------------------------------------

// UpdateInventoryHandler sets a variant's available quantity on the platform
type UpdateInventoryHandler struct{}

func (h *UpdateInventoryHandler) Type() string { return ActionTypeUpdateInventory }

func (h *UpdateInventoryHandler) Execute(ctx context.Context, exec *ExecutionContext, action automation.Action) error {
	p, err := targetPlatform(exec, action)
	if err != nil {
		return err
	}
	adapter, err := exec.Adapters.Get(p)
	if err != nil {
		return err
	}

	productID, err := configString(exec, action, "product_id")
	if err != nil {
		return err
	}
	quantity, err := configInt(action, "quantity")
	if err != nil {
		return err
	}

	record := &standard.InventoryRecord{
		ProductPlatformID: productID,
		Platform:          p,
		AvailableQuantity: quantity,
	}
	// variant_id and sku are optional, single-variant products omit them
	if variantID, err := configString(exec, action, "variant_id"); err == nil {
		record.VariantPlatformID = variantID
	}
	if sku, err := configString(exec, action, "sku"); err == nil {
		record.SKU = sku
	}

	_, err = adapter.UpdateInventory(ctx, exec.TenantID, record)
	return err
}

// ---------------------------------------------------------------------------
// Product Actions
// ---------------------------------------------------------------------------

// UpdateProductPriceHandler sets a product's price on the platform
type UpdateProductPriceHandler struct{}

func (h *UpdateProductPriceHandler) Type() string { return ActionTypeUpdateProductPrice }

func (h *UpdateProductPriceHandler) Execute(ctx context.Context, exec *ExecutionContext, action automation.Action) error {
	p, err := targetPlatform(exec, action)
	if err != nil {
		return err
	}
	adapter, err := exec.Adapters.Get(p)
	if err != nil {
		return err
	}

	productID, err := configString(exec, action, "product_id")
	if err != nil {
		return err
	}
	price, err := configDecimal(action, "price")
	if err != nil {
		return err
	}

	product, err := adapter.GetProduct(ctx, exec.TenantID, productID)
	if err != nil {
		return err
	}
	product.Price = price
	for i := range product.Variants {
		product.Variants[i].Price = price
	}

	_, err = adapter.UpdateProduct(ctx, exec.TenantID, product)
	return err
}

// ---------------------------------------------------------------------------
// Order Actions
// ---------------------------------------------------------------------------

// FulfillOrderHandler confirms shipment of an order on the platform
type FulfillOrderHandler struct{}

func (h *FulfillOrderHandler) Type() string { return ActionTypeFulfillOrder }

func (h *FulfillOrderHandler) Execute(ctx context.Context, exec *ExecutionContext, action automation.Action) error {
	p, err := targetPlatform(exec, action)
	if err != nil {
		return err
	}
	adapter, err := exec.Adapters.Get(p)
	if err != nil {
		return err
	}

	orderID, err := configString(exec, action, "order_id")
	if err != nil {
		return err
	}

	req := platform.FulfillmentRequest{}
	if carrier, err := configString(exec, action, "carrier"); err == nil {
		req.Carrier = carrier
	}
	if tracking, err := configString(exec, action, "tracking_number"); err == nil {
		req.TrackingNumber = tracking
	}

	_, err = adapter.FulfillOrder(ctx, exec.TenantID, orderID, req)
	return err
}

// CancelOrderHandler cancels an order on the platform
type CancelOrderHandler struct{}

func (h *CancelOrderHandler) Type() string { return ActionTypeCancelOrder }

func (h *CancelOrderHandler) Execute(ctx context.Context, exec *ExecutionContext, action automation.Action) error {
	p, err := targetPlatform(exec, action)
	if err != nil {
		return err
	}
	adapter, err := exec.Adapters.Get(p)
	if err != nil {
		return err
	}

	orderID, err := configString(exec, action, "order_id")
	if err != nil {
		return err
	}
	reason := ""
	if r, err := configString(exec, action, "reason"); err == nil {
		reason = r
	}

	_, err = adapter.CancelOrder(ctx, exec.TenantID, orderID, reason)
	return err
}

// AddOrderNoteHandler appends a note to an order on the platform
type AddOrderNoteHandler struct{}

func (h *AddOrderNoteHandler) Type() string { return ActionTypeAddOrderNote }

func (h *AddOrderNoteHandler) Execute(ctx context.Context, exec *ExecutionContext, action automation.Action) error {
	p, err := targetPlatform(exec, action)
	if err != nil {
		return err
	}
	adapter, err := exec.Adapters.Get(p)
	if err != nil {
		return err
	}

	orderID, err := configString(exec, action, "order_id")
	if err != nil {
		return err
	}
	note, err := configString(exec, action, "note")
	if err != nil {
		return err
	}

	order, err := adapter.GetOrder(ctx, exec.TenantID, orderID)
	if err != nil {
		return err
	}
	if order.Notes != "" {
		order.Notes += "\n"
	}
	order.Notes += note

	_, err = adapter.UpdateOrder(ctx, exec.TenantID, order)
	return err
}

// ---------------------------------------------------------------------------
// Notification Actions
// ---------------------------------------------------------------------------

// Notifier delivers automation notifications to an external channel
type Notifier interface {
	Notify(ctx context.Context, tenantID string, subject, message string) error
}

// LogNotifier writes notifications to the structured log. It stands in when
// no external notification channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification
func (n *LogNotifier) Notify(_ context.Context, tenantID string, subject, message string) error {
	n.logger.Info("automation notification",
		zap.String("tenant_id", tenantID),
		zap.String("subject", subject),
		zap.String("message", message),
	)
	return nil
}

// SendNotificationHandler delivers a templated notification
type SendNotificationHandler struct {
	notifier Notifier
}

func (h *SendNotificationHandler) Type() string { return ActionTypeSendNotification }

func (h *SendNotificationHandler) Execute(ctx context.Context, exec *ExecutionContext, action automation.Action) error {
	message, err := configString(exec, action, "message")
	if err != nil {
		return err
	}
	subject := exec.Automation.Name
	if s, err := configString(exec, action, "subject"); err == nil {
		subject = s
	}
	return h.notifier.Notify(ctx, exec.TenantID.String(), subject, message)
}
