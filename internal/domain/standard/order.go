package standard

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// FinancialStatus represents the payment state of a canonical order
// ---------------------------------------------------------------------------

// FinancialStatus represents the payment state of a canonical order.
// Adapters populate it through a platform-specific state-mapping table;
// unmapped platform states default to FinancialStatusPending.
type FinancialStatus string

const (
	FinancialStatusPending           FinancialStatus = "pending"
	FinancialStatusAuthorized        FinancialStatus = "authorized"
	FinancialStatusPaid              FinancialStatus = "paid"
	FinancialStatusPartiallyRefunded FinancialStatus = "partially_refunded"
	FinancialStatusRefunded          FinancialStatus = "refunded"
	FinancialStatusVoided            FinancialStatus = "voided"
)

// IsValid returns true if the status is valid
func (s FinancialStatus) IsValid() bool {
	switch s {
	case FinancialStatusPending, FinancialStatusAuthorized, FinancialStatusPaid,
		FinancialStatusPartiallyRefunded, FinancialStatusRefunded, FinancialStatusVoided:
		return true
	default:
		return false
	}
}

// String returns the string representation of FinancialStatus
func (s FinancialStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// FulfillmentStatus represents the shipping state of a canonical order
// ---------------------------------------------------------------------------

// FulfillmentStatus represents the shipping state of a canonical order.
// Unmapped platform states default to FulfillmentStatusUnfulfilled.
type FulfillmentStatus string

const (
	FulfillmentStatusUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentStatusPartial     FulfillmentStatus = "partial"
	FulfillmentStatusFulfilled   FulfillmentStatus = "fulfilled"
	FulfillmentStatusDelivered   FulfillmentStatus = "delivered"
	FulfillmentStatusCancelled   FulfillmentStatus = "cancelled"
)

// IsValid returns true if the status is valid
func (s FulfillmentStatus) IsValid() bool {
	switch s {
	case FulfillmentStatusUnfulfilled, FulfillmentStatusPartial, FulfillmentStatusFulfilled,
		FulfillmentStatusDelivered, FulfillmentStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of FulfillmentStatus
func (s FulfillmentStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// OrderTotals holds the monetary totals of an order in decimal currency units
type OrderTotals struct {
	// Subtotal is the sum of line item prices before tax and shipping
	Subtotal decimal.Decimal `json:"subtotal"`
	// Tax is the total tax amount
	Tax decimal.Decimal `json:"tax"`
	// Shipping is the shipping fee
	Shipping decimal.Decimal `json:"shipping"`
	// Total is the grand total the buyer paid
	Total decimal.Decimal `json:"total"`
}

// ShippingAddress is the delivery address of an order
type ShippingAddress struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	Phone       string `json:"phone"`
}

// StandardLineItem is a single purchased item within a StandardOrder
type StandardLineItem struct {
	// PlatformID is the line item ID on the source platform
	PlatformID string `json:"platform_id"`
	// ProductPlatformID is the platform ID of the purchased product
	ProductPlatformID string `json:"product_platform_id"`
	// VariantPlatformID is the platform ID of the purchased variant
	VariantPlatformID string `json:"variant_platform_id"`
	// SKU is the purchased stock keeping unit
	SKU string `json:"sku"`
	// Title is the product title at purchase time
	Title string `json:"title"`
	// Quantity is the purchased quantity
	Quantity int `json:"quantity"`
	// Price is the unit price in decimal currency units
	Price decimal.Decimal `json:"price"`
}

// ---------------------------------------------------------------------------
// StandardOrder
// ---------------------------------------------------------------------------

// StandardOrder is the canonical order schema shared by all platform adapters
type StandardOrder struct {
	// PlatformID is the order ID on the source platform
	PlatformID string `json:"platform_id"`
	// Platform identifies the source platform
	Platform Platform `json:"platform"`
	// OrderNumber is the human-readable order number
	OrderNumber string `json:"order_number"`
	// LineItems contains the purchased items
	LineItems []StandardLineItem `json:"line_items"`
	// Totals holds the order monetary totals
	Totals OrderTotals `json:"totals"`
	// FinancialStatus is the canonical payment state
	FinancialStatus FinancialStatus `json:"financial_status"`
	// FulfillmentStatus is the canonical shipping state
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	// Customer is the buyer, nil when the platform does not expose one
	Customer *StandardCustomer `json:"customer,omitempty"`
	// ShippingAddress is the delivery address
	ShippingAddress ShippingAddress `json:"shipping_address"`
	// Metafields holds platform-specific extra data
	Metafields map[string]string `json:"metafields"`
	// Notes is the buyer or seller note attached to the order
	Notes string `json:"notes"`
	// CreatedAt is when the order was created on the platform
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the order was last updated on the platform
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the canonical order invariants
func (o *StandardOrder) Validate() error {
	if o.PlatformID == "" {
		return ErrMissingPlatformID
	}
	if !o.Platform.IsValid() {
		return ErrMissingPlatform
	}
	return nil
}
