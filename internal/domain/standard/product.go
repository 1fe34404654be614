package standard

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// StandardModel Errors
// ---------------------------------------------------------------------------

var (
	ErrMissingPlatformID = errors.New("standard: platform ID is required")
	ErrMissingPlatform   = errors.New("standard: platform is required")
	ErrNegativePrice     = errors.New("standard: price must not be negative")
	ErrInvalidStatus     = errors.New("standard: invalid product status")
)

// ---------------------------------------------------------------------------
// Platform identifies the source commerce platform
// ---------------------------------------------------------------------------

// Platform identifies the source commerce platform of a canonical entity
type Platform string

const (
	// PlatformFaire represents the Faire wholesale marketplace
	PlatformFaire Platform = "FAIRE"
	// PlatformShopify represents Shopify stores
	PlatformShopify Platform = "SHOPIFY"
	// PlatformEtsy represents the Etsy marketplace
	PlatformEtsy Platform = "ETSY"
)

// IsValid returns true if the platform is valid
func (p Platform) IsValid() bool {
	switch p {
	case PlatformFaire, PlatformShopify, PlatformEtsy:
		return true
	default:
		return false
	}
}

// String returns the string representation of Platform
func (p Platform) String() string {
	return string(p)
}

// ---------------------------------------------------------------------------
// ProductStatus represents the listing status of a product
// ---------------------------------------------------------------------------

// ProductStatus represents the listing status of a canonical product
type ProductStatus string

const (
	// ProductStatusActive indicates the product is listed for sale
	ProductStatusActive ProductStatus = "active"
	// ProductStatusDraft indicates the product is not yet listed
	ProductStatusDraft ProductStatus = "draft"
)

// IsValid returns true if the status is valid
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusDraft
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// WeightUnit represents the unit of a variant weight
// ---------------------------------------------------------------------------

// WeightUnit represents the unit of a variant weight
type WeightUnit string

const (
	WeightUnitGram     WeightUnit = "g"
	WeightUnitKilogram WeightUnit = "kg"
	WeightUnitOunce    WeightUnit = "oz"
	WeightUnitPound    WeightUnit = "lb"
)

// IsValid returns true if the weight unit is valid
func (u WeightUnit) IsValid() bool {
	switch u {
	case WeightUnitGram, WeightUnitKilogram, WeightUnitOunce, WeightUnitPound:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// StandardProduct
// ---------------------------------------------------------------------------

// StandardProduct is the canonical product schema shared by all platform
// adapters. PlatformID is unique within a platform. All prices are decimal
// currency units after transform, never minor units.
type StandardProduct struct {
	// PlatformID is the product ID on the source platform
	PlatformID string `json:"platform_id"`
	// Platform identifies the source platform
	Platform Platform `json:"platform"`
	// SKU is the merchant stock keeping unit
	SKU string `json:"sku"`
	// Title is the product title
	Title string `json:"title"`
	// Description is the long-form product description
	Description string `json:"description"`
	// Vendor is the brand or maker name
	Vendor string `json:"vendor"`
	// ProductType is the merchant-defined category
	ProductType string `json:"product_type"`
	// Tags contains free-form classification tags
	Tags []string `json:"tags"`
	// Price is the selling price in decimal currency units
	Price decimal.Decimal `json:"price"`
	// CompareAtPrice is the original/strikethrough price
	CompareAtPrice decimal.Decimal `json:"compare_at_price"`
	// CostPerItem is the unit cost in decimal currency units
	CostPerItem decimal.Decimal `json:"cost_per_item"`
	// InventoryQuantity is the total available quantity across variants
	InventoryQuantity int `json:"inventory_quantity"`
	// MinimumOrderQuantity is the wholesale MOQ, zero when not applicable
	MinimumOrderQuantity int `json:"minimum_order_quantity"`
	// Images contains product image URLs
	Images []string `json:"images"`
	// Variants contains the product variants, owned exclusively by this product
	Variants []StandardVariant `json:"variants"`
	// Status is the listing status
	Status ProductStatus `json:"status"`
	// Metafields holds platform-specific extra data
	Metafields map[string]string `json:"metafields"`
	// CreatedAt is when the product was created on the platform
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the product was last updated on the platform
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the canonical product invariants
func (p *StandardProduct) Validate() error {
	if p.PlatformID == "" {
		return ErrMissingPlatformID
	}
	if !p.Platform.IsValid() {
		return ErrMissingPlatform
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	for i := range p.Variants {
		if err := p.Variants[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// StandardVariant
// ---------------------------------------------------------------------------

// StandardVariant is a purchasable variation of a StandardProduct.
// A variant is owned exclusively by its parent product.
type StandardVariant struct {
	// PlatformID is the variant ID on the source platform
	PlatformID string `json:"platform_id"`
	// SKU is the variant stock keeping unit
	SKU string `json:"sku"`
	// Title is the variant display name
	Title string `json:"title"`
	// Price is the variant price in decimal currency units
	Price decimal.Decimal `json:"price"`
	// CompareAtPrice is the original/strikethrough price
	CompareAtPrice decimal.Decimal `json:"compare_at_price"`
	// InventoryQuantity is the available quantity for this variant
	InventoryQuantity int `json:"inventory_quantity"`
	// Weight is the shipping weight in WeightUnit units
	Weight decimal.Decimal `json:"weight"`
	// WeightUnit is the unit of Weight
	WeightUnit WeightUnit `json:"weight_unit"`
	// OptionValues maps option names to values (e.g., color -> red)
	OptionValues map[string]string `json:"option_values"`
}

// Validate checks the variant invariants
func (v *StandardVariant) Validate() error {
	if v.PlatformID == "" {
		return ErrMissingPlatformID
	}
	if v.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
