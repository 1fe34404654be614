package faire

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/commercehub/backend/internal/domain/standard"
)

// ---------------------------------------------------------------------------
// Order State Mapping
// ---------------------------------------------------------------------------

// canonicalStatuses pairs the canonical financial and fulfillment states an
// order state maps to
type canonicalStatuses struct {
	Financial   standard.FinancialStatus
	Fulfillment standard.FulfillmentStatus
}

// faireOrderStateMap translates Faire order lifecycle states into the
// canonical status space. States missing from the table fall back to the
// safest pending/unfulfilled pair.
var faireOrderStateMap = map[string]canonicalStatuses{
	"NEW":         {standard.FinancialStatusPending, standard.FulfillmentStatusUnfulfilled},
	"PROCESSING":  {standard.FinancialStatusPaid, standard.FulfillmentStatusUnfulfilled},
	"PRE_TRANSIT": {standard.FinancialStatusPaid, standard.FulfillmentStatusPartial},
	"IN_TRANSIT":  {standard.FinancialStatusPaid, standard.FulfillmentStatusFulfilled},
	"DELIVERED":   {standard.FinancialStatusPaid, standard.FulfillmentStatusDelivered},
	"BACKORDERED": {standard.FinancialStatusPending, standard.FulfillmentStatusUnfulfilled},
	"CANCELED":    {standard.FinancialStatusVoided, standard.FulfillmentStatusCancelled},
	"RETURNED":    {standard.FinancialStatusRefunded, standard.FulfillmentStatusDelivered},
}

// mapOrderState resolves a Faire order state through the lookup table
func mapOrderState(state string) canonicalStatuses {
	if statuses, ok := faireOrderStateMap[state]; ok {
		return statuses
	}
	return canonicalStatuses{standard.FinancialStatusPending, standard.FulfillmentStatusUnfulfilled}
}

// ---------------------------------------------------------------------------
// Product Transforms
// ---------------------------------------------------------------------------

// toStandardProduct normalizes a Faire product. Wholesale prices arrive in
// cents and leave in decimal currency units.
func toStandardProduct(p *faireProduct) *standard.StandardProduct {
	product := &standard.StandardProduct{
		PlatformID:           p.ID,
		Platform:             standard.PlatformFaire,
		Title:                p.Name,
		Description:          p.Description,
		Vendor:               p.BrandName,
		ProductType:          p.TaxonomyType,
		Price:                centsToDecimal(p.WholesalePriceCents),
		CompareAtPrice:       centsToDecimal(p.RetailPriceCents),
		MinimumOrderQuantity: p.MinimumOrderQuantity,
		Status:               mapLifecycleState(p.LifecycleState),
		Metafields: map[string]string{
			"sale_state":      p.SaleState,
			"unit_multiplier": strconv.Itoa(p.UnitMultiplier),
		},
		CreatedAt: parseFaireTime(p.CreatedAt),
		UpdatedAt: parseFaireTime(p.UpdatedAt),
	}

	for _, img := range p.Images {
		product.Images = append(product.Images, img.URL)
	}

	total := 0
	for i := range p.Variants {
		v := toStandardVariant(&p.Variants[i])
		total += v.InventoryQuantity
		product.Variants = append(product.Variants, v)
	}
	product.InventoryQuantity = total

	if len(p.Variants) > 0 {
		product.SKU = p.Variants[0].SKU
	}
	return product
}

func toStandardVariant(v *faireVariant) standard.StandardVariant {
	variant := standard.StandardVariant{
		PlatformID:        v.ID,
		SKU:               v.SKU,
		Title:             v.Name,
		Price:             centsToDecimal(v.WholesalePriceCents),
		CompareAtPrice:    centsToDecimal(v.RetailPriceCents),
		InventoryQuantity: v.AvailableQuantity,
		Weight:            decimal.NewFromInt(v.GramsWeight),
		WeightUnit:        standard.WeightUnitGram,
	}
	if len(v.Options) > 0 {
		variant.OptionValues = make(map[string]string, len(v.Options))
		for _, opt := range v.Options {
			variant.OptionValues[opt.Name] = opt.Value
		}
	}
	return variant
}

// fromStandardProduct denormalizes a canonical product into the Faire wire
// shape. Decimal prices become cents.
func fromStandardProduct(p *standard.StandardProduct) *faireProduct {
	product := &faireProduct{
		ID:                   p.PlatformID,
		Name:                 p.Title,
		Description:          p.Description,
		BrandName:            p.Vendor,
		TaxonomyType:         p.ProductType,
		MinimumOrderQuantity: p.MinimumOrderQuantity,
		WholesalePriceCents:  decimalToCents(p.Price),
		RetailPriceCents:     decimalToCents(p.CompareAtPrice),
		LifecycleState:       mapProductStatus(p.Status),
		SaleState:            "FOR_SALE",
	}
	if state, ok := p.Metafields["sale_state"]; ok && state != "" {
		product.SaleState = state
	}
	if m, ok := p.Metafields["unit_multiplier"]; ok {
		if n, err := strconv.Atoi(m); err == nil {
			product.UnitMultiplier = n
		}
	}

	for _, url := range p.Images {
		product.Images = append(product.Images, faireImage{URL: url})
	}

	for i := range p.Variants {
		product.Variants = append(product.Variants, fromStandardVariant(&p.Variants[i]))
	}
	return product
}

func fromStandardVariant(v *standard.StandardVariant) faireVariant {
	variant := faireVariant{
		ID:                  v.PlatformID,
		SKU:                 v.SKU,
		Name:                v.Title,
		WholesalePriceCents: decimalToCents(v.Price),
		RetailPriceCents:    decimalToCents(v.CompareAtPrice),
		AvailableQuantity:   v.InventoryQuantity,
		GramsWeight:         gramsFromWeight(v.Weight, v.WeightUnit),
	}
	for name, value := range v.OptionValues {
		variant.Options = append(variant.Options, faireVariantOption{Name: name, Value: value})
	}
	return variant
}

func mapLifecycleState(state string) standard.ProductStatus {
	if state == "PUBLISHED" {
		return standard.ProductStatusActive
	}
	return standard.ProductStatusDraft
}

func mapProductStatus(status standard.ProductStatus) string {
	if status == standard.ProductStatusActive {
		return "PUBLISHED"
	}
	return "DRAFT"
}

func gramsFromWeight(weight decimal.Decimal, unit standard.WeightUnit) int64 {
	switch unit {
	case standard.WeightUnitKilogram:
		return weight.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	case standard.WeightUnitOunce:
		return weight.Mul(decimal.NewFromFloat(28.3495)).Round(0).IntPart()
	case standard.WeightUnitPound:
		return weight.Mul(decimal.NewFromFloat(453.592)).Round(0).IntPart()
	default:
		return weight.Round(0).IntPart()
	}
}

// ---------------------------------------------------------------------------
// Order Transforms
// ---------------------------------------------------------------------------

// toStandardOrder normalizes a Faire order, translating its lifecycle state
// through the canonical status lookup table.
func toStandardOrder(o *faireOrder) *standard.StandardOrder {
	statuses := mapOrderState(o.State)

	order := &standard.StandardOrder{
		PlatformID:        o.ID,
		Platform:          standard.PlatformFaire,
		OrderNumber:       o.DisplayID,
		FinancialStatus:   statuses.Financial,
		FulfillmentStatus: statuses.Fulfillment,
		Totals: standard.OrderTotals{
			Subtotal: centsToDecimal(o.PayoutCosts.SubtotalCents),
			Tax:      centsToDecimal(o.PayoutCosts.TaxesCents),
			Shipping: centsToDecimal(o.PayoutCosts.ShippingCents),
			Total:    centsToDecimal(o.PayoutCosts.TotalCents),
		},
		ShippingAddress: standard.ShippingAddress{
			Name:        o.Address.Name,
			CompanyName: o.Address.CompanyName,
			Address1:    o.Address.Address1,
			Address2:    o.Address.Address2,
			City:        o.Address.City,
			State:       o.Address.State,
			PostalCode:  o.Address.PostalCode,
			Country:     o.Address.Country,
			Phone:       o.Address.PhoneNumber,
		},
		Metafields: map[string]string{"faire_state": o.State},
		Notes:      o.BuyerNote,
		CreatedAt:  parseFaireTime(o.CreatedAt),
		UpdatedAt:  parseFaireTime(o.UpdatedAt),
	}

	for _, item := range o.Items {
		order.LineItems = append(order.LineItems, standard.StandardLineItem{
			PlatformID:        item.ID,
			ProductPlatformID: item.ProductID,
			VariantPlatformID: item.VariantID,
			SKU:               item.SKU,
			Title:             item.ProductName,
			Quantity:          item.Quantity,
			Price:             centsToDecimal(item.PriceCents),
		})
	}

	if o.Retailer != nil {
		order.Customer = toStandardCustomer(o.Retailer, order.CreatedAt)
	}
	return order
}

func toStandardCustomer(r *faireRetailer, firstSeen time.Time) *standard.StandardCustomer {
	return &standard.StandardCustomer{
		PlatformID:  r.ID,
		Platform:    standard.PlatformFaire,
		Email:       r.Email,
		CompanyName: r.Name,
		Phone:       r.Phone,
		OrdersCount: 1,
		CreatedAt:   firstSeen,
	}
}

// deriveRetailers deduplicates the retailers observed across a bounded page
// of recent orders. Faire has no customers endpoint, so this is the customer
// list. First-seen wins, keyed by platform retailer id.
func deriveRetailers(orders []faireOrder) []standard.StandardCustomer {
	seen := make(map[string]int)
	customers := make([]standard.StandardCustomer, 0)

	for i := range orders {
		r := orders[i].Retailer
		if r == nil || r.ID == "" {
			continue
		}
		if idx, ok := seen[r.ID]; ok {
			customers[idx].OrdersCount++
			continue
		}
		seen[r.ID] = len(customers)
		customers = append(customers, *toStandardCustomer(r, parseFaireTime(orders[i].CreatedAt)))
	}
	return customers
}

func parseFaireTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}
