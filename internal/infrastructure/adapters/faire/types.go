package faire

import (
	"github.com/shopspring/decimal"
)

// Faire wire types. All money fields are minor units (cents); transforms
// divide by 100 on ingress and multiply on egress.

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

type faireVariantOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type faireVariant struct {
	ID                  string               `json:"id"`
	SKU                 string               `json:"sku"`
	Name                string               `json:"name"`
	WholesalePriceCents int64                `json:"wholesale_price_cents"`
	RetailPriceCents    int64                `json:"retail_price_cents"`
	AvailableQuantity   int                  `json:"available_quantity"`
	GramsWeight         int64                `json:"grams_weight"`
	Options             []faireVariantOption `json:"options"`
}

type faireImage struct {
	URL string `json:"url"`
}

type faireProduct struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	ShortDescription     string         `json:"short_description"`
	Description          string         `json:"description"`
	BrandName            string         `json:"brand_name"`
	TaxonomyType         string         `json:"taxonomy_type"`
	UnitMultiplier       int            `json:"unit_multiplier"`
	MinimumOrderQuantity int            `json:"minimum_order_quantity"`
	SaleState            string         `json:"sale_state"`      // FOR_SALE, SALES_PAUSED
	LifecycleState       string         `json:"lifecycle_state"` // DRAFT, PUBLISHED
	WholesalePriceCents  int64          `json:"wholesale_price_cents"`
	RetailPriceCents     int64          `json:"retail_price_cents"`
	Variants             []faireVariant `json:"variants"`
	Images               []faireImage   `json:"images"`
	CreatedAt            string         `json:"created_at"`
	UpdatedAt            string         `json:"updated_at"`
}

type faireProductsResponse struct {
	Products   []faireProduct `json:"products"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalCount int            `json:"total_count"`
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type faireAddress struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
}

type faireRetailer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type faireOrderItem struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	PriceCents  int64  `json:"price_cents"`
}

type fairePayoutCosts struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxesCents    int64 `json:"taxes_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TotalCents    int64 `json:"total_cents"`
}

type faireOrder struct {
	ID          string           `json:"id"`
	DisplayID   string           `json:"display_id"`
	State       string           `json:"state"`
	Items       []faireOrderItem `json:"items"`
	PayoutCosts fairePayoutCosts `json:"payout_costs"`
	Address     faireAddress     `json:"address"`
	Retailer    *faireRetailer   `json:"retailer"`
	BuyerNote   string           `json:"buyer_note"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

type faireOrdersResponse struct {
	Orders     []faireOrder `json:"orders"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalCount int          `json:"total_count"`
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

type faireInventoryLevel struct {
	ProductID         string `json:"product_id"`
	VariantID         string `json:"variant_id"`
	SKU               string `json:"sku"`
	AvailableQuantity int    `json:"available_quantity"`
	UpdatedAt         string `json:"updated_at"`
}

type faireInventoryResponse struct {
	Inventories []faireInventoryLevel `json:"inventories"`
}

// ---------------------------------------------------------------------------
// Webhooks
// ---------------------------------------------------------------------------

type faireWebhook struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

type faireWebhooksResponse struct {
	Webhooks []faireWebhook `json:"webhooks"`
}

// faireWebhookEnvelope is the delivery envelope Faire posts to webhook URLs
type faireWebhookEnvelope struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	CreatedAt string `json:"created_at"`
	Payload   any    `json:"payload"`
}

// faireErrorResponse is the uniform error body of the Faire API
type faireErrorResponse struct {
	Message string `json:"message"`
}

// ---------------------------------------------------------------------------
// Money Helpers
// ---------------------------------------------------------------------------

// centsToDecimal converts minor units into decimal currency units
func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// decimalToCents converts decimal currency units into minor units,
// rounding half-up at the cent boundary
func decimalToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
