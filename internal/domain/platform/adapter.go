package platform

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/commercehub/backend/internal/domain/standard"
)

// ---------------------------------------------------------------------------
// List Types
// ---------------------------------------------------------------------------

// Pagination describes the position of a page within a list result
type Pagination struct {
	// CurrentPage is the 1-indexed page number
	CurrentPage int `json:"current_page"`
	// TotalPages is the total number of pages
	TotalPages int `json:"total_pages"`
	// TotalItems is the total number of items across all pages
	TotalItems int `json:"total_items"`
}

// Page is the uniform result shape of all adapter list operations
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ListOptions controls paging of adapter list operations
type ListOptions struct {
	// Page is the 1-indexed page number, defaults to 1
	Page int
	// PageSize is the number of items per page, defaults to 50
	PageSize int
}

// Normalize applies the default paging bounds
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 || o.PageSize > 250 {
		o.PageSize = 50
	}
}

// ---------------------------------------------------------------------------
// Webhook Types
// ---------------------------------------------------------------------------

// Webhook is a webhook subscription registered on a platform
type Webhook struct {
	// PlatformID is the subscription ID on the platform
	PlatformID string `json:"platform_id"`
	// Topic is the event topic the subscription covers
	Topic string `json:"topic"`
	// Address is the callback URL events are delivered to
	Address string `json:"address"`
}

// FulfillmentRequest carries the shipment details for FulfillOrder
type FulfillmentRequest struct {
	// Carrier is the shipping company name
	Carrier string `json:"carrier"`
	// TrackingNumber is the shipment tracking number
	TrackingNumber string `json:"tracking_number"`
	// LineItemIDs restricts the fulfillment to specific line items,
	// empty means all items
	LineItemIDs []string `json:"line_item_ids"`
}

// ---------------------------------------------------------------------------
// Adapter Port Interface
// ---------------------------------------------------------------------------

// Adapter is the port interface every commerce platform implements. It is
// defined in the domain layer; concrete adapters (Faire, Shopify, Etsy) live
// in the infrastructure layer and are selected through a Registry.
//
// Contract: every outbound network call first acquires the adapter's rate
// limiter slot; a non-2xx platform response surfaces as *APIError; transport
// failures surface as *NetworkError; list operations return a Page.
type Adapter interface {
	// Platform returns the platform this adapter handles
	Platform() standard.Platform

	// TestConnection verifies the tenant's credentials against the platform
	TestConnection(ctx context.Context, tenantID uuid.UUID) error

	// ---------------------------------------------------------------------------
	// Product Operations
	// ---------------------------------------------------------------------------

	ListProducts(ctx context.Context, tenantID uuid.UUID, opts ListOptions) (*Page[standard.StandardProduct], error)
	GetProduct(ctx context.Context, tenantID uuid.UUID, platformID string) (*standard.StandardProduct, error)
	CreateProduct(ctx context.Context, tenantID uuid.UUID, product *standard.StandardProduct) (*standard.StandardProduct, error)
	UpdateProduct(ctx context.Context, tenantID uuid.UUID, product *standard.StandardProduct) (*standard.StandardProduct, error)
	DeleteProduct(ctx context.Context, tenantID uuid.UUID, platformID string) error

	// ---------------------------------------------------------------------------
	// Inventory Operations
	// ---------------------------------------------------------------------------

	GetInventory(ctx context.Context, tenantID uuid.UUID, productPlatformID string) ([]standard.InventoryRecord, error)
	UpdateInventory(ctx context.Context, tenantID uuid.UUID, record *standard.InventoryRecord) (*standard.InventoryRecord, error)

	// ---------------------------------------------------------------------------
	// Order Operations
	// ---------------------------------------------------------------------------

	ListOrders(ctx context.Context, tenantID uuid.UUID, opts ListOptions) (*Page[standard.StandardOrder], error)
	GetOrder(ctx context.Context, tenantID uuid.UUID, platformID string) (*standard.StandardOrder, error)
	UpdateOrder(ctx context.Context, tenantID uuid.UUID, order *standard.StandardOrder) (*standard.StandardOrder, error)
	FulfillOrder(ctx context.Context, tenantID uuid.UUID, platformID string, req FulfillmentRequest) (*standard.StandardOrder, error)
	CancelOrder(ctx context.Context, tenantID uuid.UUID, platformID string, reason string) (*standard.StandardOrder, error)

	// ---------------------------------------------------------------------------
	// Customer Operations
	// ---------------------------------------------------------------------------

	ListCustomers(ctx context.Context, tenantID uuid.UUID, opts ListOptions) (*Page[standard.StandardCustomer], error)
	GetCustomer(ctx context.Context, tenantID uuid.UUID, platformID string) (*standard.StandardCustomer, error)

	// ---------------------------------------------------------------------------
	// Webhook Operations
	// ---------------------------------------------------------------------------

	RegisterWebhook(ctx context.Context, tenantID uuid.UUID, topic, address string) (*Webhook, error)
	ListWebhooks(ctx context.Context, tenantID uuid.UUID) ([]Webhook, error)
	DeleteWebhook(ctx context.Context, tenantID uuid.UUID, webhookID string) error

	// VerifyWebhookSignature checks the HMAC signature of a raw payload
	// against the tenant's webhook secret. A missing secret fails
	// verification; it never skips it. Returns ErrInvalidSignature on
	// mismatch.
	VerifyWebhookSignature(ctx context.Context, tenantID uuid.UUID, payload []byte, signatureHex string) error

	// ProcessWebhook verifies the signature and only then parses the raw
	// payload into a StandardWebhookEvent. No event is constructed when
	// verification fails.
	ProcessWebhook(ctx context.Context, tenantID uuid.UUID, payload []byte, signatureHex string) (*standard.StandardWebhookEvent, error)

	// ---------------------------------------------------------------------------
	// Transforms
	// ---------------------------------------------------------------------------

	// ProductToStandard normalizes a raw platform product document
	ProductToStandard(raw json.RawMessage) (*standard.StandardProduct, error)
	// ProductFromStandard denormalizes a canonical product into the
	// platform's wire shape
	ProductFromStandard(product *standard.StandardProduct) (json.RawMessage, error)
	// OrderToStandard normalizes a raw platform order document
	OrderToStandard(raw json.RawMessage) (*standard.StandardOrder, error)
}

// Registry provides access to the configured platform adapters,
// keyed by platform code.
type Registry interface {
	// Get returns the adapter for the platform, ErrNotRegistered otherwise
	Get(p standard.Platform) (Adapter, error)
	// List returns all registered adapters
	List() []Adapter
}
