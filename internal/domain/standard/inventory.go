package standard

import "time"

// InventoryRecord is the canonical inventory level for a product or variant
type InventoryRecord struct {
	// ProductPlatformID is the platform ID of the product
	ProductPlatformID string `json:"product_platform_id"`
	// VariantPlatformID is the platform ID of the variant, empty for
	// product-level inventory
	VariantPlatformID string `json:"variant_platform_id"`
	// Platform identifies the source platform
	Platform Platform `json:"platform"`
	// SKU is the stock keeping unit the level applies to
	SKU string `json:"sku"`
	// AvailableQuantity is the sellable quantity
	AvailableQuantity int `json:"available_quantity"`
	// UpdatedAt is when the level was last observed
	UpdatedAt time.Time `json:"updated_at"`
}
