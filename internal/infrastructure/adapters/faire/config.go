package faire

import (
	"errors"
	"time"
)

// FaireConfig holds per-tenant credentials and pacing for the Faire
// wholesale marketplace API.
type FaireConfig struct {
	// AccessToken is the brand token sent as X-FAIRE-ACCESS-TOKEN
	AccessToken string
	// WebhookSecret is the per-tenant secret webhook signatures are
	// computed with. An empty secret fails verification, it never skips it.
	WebhookSecret string
	// APIBaseURL is the base URL for the Faire external API
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// RequestsPerMinute derives the minimum inter-request delay from
	// Faire's documented quota
	RequestsPerMinute int
	// RateLimitBurst models a documented burst allowance, 1 when absent
	RateLimitBurst int
}

const (
	// FaireProductionAPIURL is the production API endpoint
	FaireProductionAPIURL = "https://www.faire.com/external-api/v2"

	defaultTimeoutSeconds    = 30
	defaultRequestsPerMinute = 120
)

// Errors for Faire configuration
var (
	ErrConfigMissingAccessToken = errors.New("faire: access token is required")
)

// NewFaireConfig creates a Faire configuration with production defaults
func NewFaireConfig(accessToken, webhookSecret string) *FaireConfig {
	return &FaireConfig{
		AccessToken:       accessToken,
		WebhookSecret:     webhookSecret,
		APIBaseURL:        FaireProductionAPIURL,
		TimeoutSeconds:    defaultTimeoutSeconds,
		RequestsPerMinute: defaultRequestsPerMinute,
		RateLimitBurst:    1,
	}
}

// Validate validates the configuration and applies defaults
func (c *FaireConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = FaireProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = defaultRequestsPerMinute
	}
	if c.RateLimitBurst < 1 {
		c.RateLimitBurst = 1
	}
	return nil
}

// Timeout returns the HTTP timeout as a duration
func (c *FaireConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
