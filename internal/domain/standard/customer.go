package standard

import "time"

// StandardCustomer is the canonical customer schema. On platforms without a
// customers endpoint, adapters derive customers from recently observed orders.
type StandardCustomer struct {
	// PlatformID is the customer ID on the source platform
	PlatformID string `json:"platform_id"`
	// Platform identifies the source platform
	Platform Platform `json:"platform"`
	// Email is the customer email address
	Email string `json:"email"`
	// FirstName is the customer given name
	FirstName string `json:"first_name"`
	// LastName is the customer family name
	LastName string `json:"last_name"`
	// CompanyName is the retailer/company name for wholesale platforms
	CompanyName string `json:"company_name"`
	// Phone is the customer phone number
	Phone string `json:"phone"`
	// OrdersCount is the number of orders observed for this customer
	OrdersCount int `json:"orders_count"`
	// Metafields holds platform-specific extra data
	Metafields map[string]string `json:"metafields"`
	// CreatedAt is when the customer was first seen
	CreatedAt time.Time `json:"created_at"`
}
