package faire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/standard"
	"github.com/commercehub/backend/internal/infrastructure/ratelimit"
)

// maxResponseSize is the maximum allowed response size from the Faire API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// retailerPageSize bounds the page of recent orders retailers are derived from
const retailerPageSize = 100

// Adapter implements the platform.Adapter port for the Faire wholesale
// marketplace. Every outbound call goes through the adapter's rate limiter.
type Adapter struct {
	config     *FaireConfig
	httpClient *http.Client
	limiter    *ratelimit.Limiter

	// tenantConfigs stores per-tenant credentials
	tenantConfigs map[uuid.UUID]*FaireConfig
	mu            sync.RWMutex // protects tenantConfigs
}

// NewAdapter creates a Faire adapter. A nil config means no shared default
// credentials: every tenant must be configured via SetTenantConfig before use.
func NewAdapter(config *FaireConfig) (*Adapter, error) {
	timeout := time.Duration(defaultTimeoutSeconds) * time.Second
	rpm := defaultRequestsPerMinute
	burst := 1
	if config != nil {
		if err := config.Validate(); err != nil {
			return nil, err
		}
		timeout = config.Timeout()
		rpm = config.RequestsPerMinute
		burst = config.RateLimitBurst
	}

	return &Adapter{
		config:        config,
		httpClient:    &http.Client{Timeout: timeout},
		limiter:       ratelimit.PerWindow(rpm, time.Minute, burst),
		tenantConfigs: make(map[uuid.UUID]*FaireConfig),
	}, nil
}

// SetTenantConfig sets the credentials for a specific tenant
func (a *Adapter) SetTenantConfig(tenantID uuid.UUID, config *FaireConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tenantConfigs[tenantID] = config
	return nil
}

func (a *Adapter) tenantConfig(tenantID uuid.UUID) (*FaireConfig, error) {
	a.mu.RLock()
	config, ok := a.tenantConfigs[tenantID]
	a.mu.RUnlock()
	if ok {
		return config, nil
	}
	if a.config != nil {
		return a.config, nil
	}
	return nil, platform.ErrNotConfigured
}

// Platform returns the platform this adapter handles
func (a *Adapter) Platform() standard.Platform {
	return standard.PlatformFaire
}

// TestConnection verifies the tenant's token against the products endpoint
func (a *Adapter) TestConnection(ctx context.Context, tenantID uuid.UUID) error {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return err
	}
	query := url.Values{"page": {"1"}, "limit": {"1"}}
	_, err = a.doRequest(ctx, config, http.MethodGet, "/products", query, nil)
	return err
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// ListProducts lists products normalized into the canonical schema
func (a *Adapter) ListProducts(ctx context.Context, tenantID uuid.UUID, opts platform.ListOptions) (*platform.Page[standard.StandardProduct], error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}
	opts.Normalize()

	query := url.Values{
		"page":  {strconv.Itoa(opts.Page)},
		"limit": {strconv.Itoa(opts.PageSize)},
	}
	body, err := a.doRequest(ctx, config, http.MethodGet, "/products", query, nil)
	if err != nil {
		return nil, err
	}

	var resp faireProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}

	page := &platform.Page[standard.StandardProduct]{
		Items:      make([]standard.StandardProduct, 0, len(resp.Products)),
		Pagination: buildPagination(opts.Page, opts.PageSize, resp.TotalCount),
	}
	for i := range resp.Products {
		page.Items = append(page.Items, *toStandardProduct(&resp.Products[i]))
	}
	return page, nil
}

// GetProduct retrieves one product by its Faire id
func (a *Adapter) GetProduct(ctx context.Context, tenantID uuid.UUID, platformID string) (*standard.StandardProduct, error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	body, err := a.doRequest(ctx, config, http.MethodGet, "/products/"+url.PathEscape(platformID), nil, nil)
	if err != nil {
		return nil, err
	}

	var product faireProduct
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardProduct(&product), nil
}

// CreateProduct creates a product on Faire from the canonical schema
func (a *Adapter) CreateProduct(ctx context.Context, tenantID uuid.UUID, product *standard.StandardProduct) (*standard.StandardProduct, error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fromStandardProduct(product))
	if err != nil {
		return nil, fmt.Errorf("faire: failed to encode product: %w", err)
	}

	body, err := a.doRequest(ctx, config, http.MethodPost, "/products", nil, payload)
	if err != nil {
		return nil, err
	}

	var created faireProduct
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardProduct(&created), nil
}

// UpdateProduct updates an existing product on Faire
func (a *Adapter) UpdateProduct(ctx context.Context, tenantID uuid.UUID, product *standard.StandardProduct) (*standard.StandardProduct, error) {
	if product.PlatformID == "" {
		return nil, standard.ErrMissingPlatformID
	}
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fromStandardProduct(product))
	if err != nil {
		return nil, fmt.Errorf("faire: failed to encode product: %w", err)
	}

	body, err := a.doRequest(ctx, config, http.MethodPatch, "/products/"+url.PathEscape(product.PlatformID), nil, payload)
	if err != nil {
		return nil, err
	}

	var updated faireProduct
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardProduct(&updated), nil
}

// DeleteProduct removes a product from Faire
func (a *Adapter) DeleteProduct(ctx context.Context, tenantID uuid.UUID, platformID string) error {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return err
	}
	_, err = a.doRequest(ctx, config, http.MethodDelete, "/products/"+url.PathEscape(platformID), nil, nil)
	return err
}

// ---------------------------------------------------------------------------
// Inventory Operations
// ---------------------------------------------------------------------------

// GetInventory retrieves the per-variant inventory levels of a product
func (a *Adapter) GetInventory(ctx context.Context, tenantID uuid.UUID, productPlatformID string) ([]standard.InventoryRecord, error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	body, err := a.doRequest(ctx, config, http.MethodGet, "/products/"+url.PathEscape(productPlatformID)+"/inventory-levels", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp faireInventoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}

	records := make([]standard.InventoryRecord, 0, len(resp.Inventories))
	for _, level := range resp.Inventories {
		records = append(records, standard.InventoryRecord{
			ProductPlatformID: level.ProductID,
			VariantPlatformID: level.VariantID,
			Platform:          standard.PlatformFaire,
			SKU:               level.SKU,
			AvailableQuantity: level.AvailableQuantity,
			UpdatedAt:         parseFaireTime(level.UpdatedAt),
		})
	}
	return records, nil
}

// UpdateInventory sets the available quantity of a variant
func (a *Adapter) UpdateInventory(ctx context.Context, tenantID uuid.UUID, record *standard.InventoryRecord) (*standard.InventoryRecord, error) {
	if record.ProductPlatformID == "" {
		return nil, standard.ErrMissingPlatformID
	}
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(faireInventoryLevel{
		ProductID:         record.ProductPlatformID,
		VariantID:         record.VariantPlatformID,
		SKU:               record.SKU,
		AvailableQuantity: record.AvailableQuantity,
	})
	if err != nil {
		return nil, fmt.Errorf("faire: failed to encode inventory: %w", err)
	}

	body, err := a.doRequest(ctx, config, http.MethodPatch, "/products/"+url.PathEscape(record.ProductPlatformID)+"/inventory-levels", nil, payload)
	if err != nil {
		return nil, err
	}

	var level faireInventoryLevel
	if err := json.Unmarshal(body, &level); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return &standard.InventoryRecord{
		ProductPlatformID: level.ProductID,
		VariantPlatformID: level.VariantID,
		Platform:          standard.PlatformFaire,
		SKU:               level.SKU,
		AvailableQuantity: level.AvailableQuantity,
		UpdatedAt:         parseFaireTime(level.UpdatedAt),
	}, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// ListOrders lists orders normalized into the canonical schema
func (a *Adapter) ListOrders(ctx context.Context, tenantID uuid.UUID, opts platform.ListOptions) (*platform.Page[standard.StandardOrder], error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}
	opts.Normalize()

	resp, err := a.fetchOrders(ctx, config, opts.Page, opts.PageSize)
	if err != nil {
		return nil, err
	}

	page := &platform.Page[standard.StandardOrder]{
		Items:      make([]standard.StandardOrder, 0, len(resp.Orders)),
		Pagination: buildPagination(opts.Page, opts.PageSize, resp.TotalCount),
	}
	for i := range resp.Orders {
		page.Items = append(page.Items, *toStandardOrder(&resp.Orders[i]))
	}
	return page, nil
}

// GetOrder retrieves one order by its Faire id
func (a *Adapter) GetOrder(ctx context.Context, tenantID uuid.UUID, platformID string) (*standard.StandardOrder, error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	body, err := a.doRequest(ctx, config, http.MethodGet, "/orders/"+url.PathEscape(platformID), nil, nil)
	if err != nil {
		return nil, err
	}

	var order faireOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardOrder(&order), nil
}

// UpdateOrder pushes the mutable order fields (notes) back to Faire
func (a *Adapter) UpdateOrder(ctx context.Context, tenantID uuid.UUID, order *standard.StandardOrder) (*standard.StandardOrder, error) {
	if order.PlatformID == "" {
		return nil, standard.ErrMissingPlatformID
	}
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"buyer_note": order.Notes})
	if err != nil {
		return nil, fmt.Errorf("faire: failed to encode order: %w", err)
	}

	body, err := a.doRequest(ctx, config, http.MethodPatch, "/orders/"+url.PathEscape(order.PlatformID), nil, payload)
	if err != nil {
		return nil, err
	}

	var updated faireOrder
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardOrder(&updated), nil
}

// FulfillOrder confirms shipment of an order
func (a *Adapter) FulfillOrder(ctx context.Context, tenantID uuid.UUID, platformID string, req platform.FulfillmentRequest) (*standard.StandardOrder, error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"carrier":         req.Carrier,
		"tracking_code":   req.TrackingNumber,
		"order_item_ids":  req.LineItemIDs,
		"shipment_source": "EXTERNAL",
	})
	if err != nil {
		return nil, fmt.Errorf("faire: failed to encode shipment: %w", err)
	}

	body, err := a.doRequest(ctx, config, http.MethodPost, "/orders/"+url.PathEscape(platformID)+"/shipments", nil, payload)
	if err != nil {
		return nil, err
	}

	var order faireOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardOrder(&order), nil
}

// CancelOrder cancels an order on Faire
func (a *Adapter) CancelOrder(ctx context.Context, tenantID uuid.UUID, platformID string, reason string) (*standard.StandardOrder, error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return nil, fmt.Errorf("faire: failed to encode cancellation: %w", err)
	}

	body, err := a.doRequest(ctx, config, http.MethodPost, "/orders/"+url.PathEscape(platformID)+"/cancel", nil, payload)
	if err != nil {
		return nil, err
	}

	var order faireOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardOrder(&order), nil
}

// ---------------------------------------------------------------------------
// Customer Operations
// ---------------------------------------------------------------------------

// ListCustomers derives retailers from a bounded page of recent orders.
// Faire exposes no customers endpoint, so the retailer list is deduplicated
// from order history, first-seen wins.
func (a *Adapter) ListCustomers(ctx context.Context, tenantID uuid.UUID, opts platform.ListOptions) (*platform.Page[standard.StandardCustomer], error) {
	config, err := a.tenantConfig(tenantID)
	if err != nil {
		return nil, err
	}
	opts.Normalize()

	resp, err := a.fetchOrders(ctx, config, 1, retailerPageSize)
	if err != nil {
		return nil, err
	}

	customers := deriveRetailers(resp.Orders)
	return &platform.Page[standard.StandardCustomer]{
		Items:      customers,
		Pagination: platform.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: len(customers)},
	}, nil
}

// GetCustomer looks one retailer up in the derived customer list
func (a *Adapter) GetCustomer(ctx context.Context, tenantID uuid.UUID, platformID string) (*standard.StandardCustomer, error) {
	page, err := a.ListCustomers(ctx, tenantID, platform.ListOptions{})
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		if page.Items[i].PlatformID == platformID {
			return &page.Items[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

// ---------------------------------------------------------------------------
// Raw Transforms
// ---------------------------------------------------------------------------

// ProductToStandard normalizes a raw Faire product document
func (a *Adapter) ProductToStandard(raw json.RawMessage) (*standard.StandardProduct, error) {
	var product faireProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardProduct(&product), nil
}

// ProductFromStandard denormalizes a canonical product into the Faire wire shape
func (a *Adapter) ProductFromStandard(product *standard.StandardProduct) (json.RawMessage, error) {
	raw, err := json.Marshal(fromStandardProduct(product))
	if err != nil {
		return nil, fmt.Errorf("faire: failed to encode product: %w", err)
	}
	return raw, nil
}

// OrderToStandard normalizes a raw Faire order document
func (a *Adapter) OrderToStandard(raw json.RawMessage) (*standard.StandardOrder, error) {
	var order faireOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return toStandardOrder(&order), nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

func (a *Adapter) fetchOrders(ctx context.Context, config *FaireConfig, page, limit int) (*faireOrdersResponse, error) {
	query := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	body, err := a.doRequest(ctx, config, http.MethodGet, "/orders", query, nil)
	if err != nil {
		return nil, err
	}

	var resp faireOrdersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return &resp, nil
}

// doRequest performs one HTTP request against the Faire API. It acquires the
// adapter's rate-limiter slot before dispatch and translates non-2xx
// responses into *platform.APIError.
func (a *Adapter) doRequest(ctx context.Context, config *FaireConfig, method, path string, query url.Values, body []byte) ([]byte, error) {
	if err := a.limiter.Await(ctx); err != nil {
		return nil, err
	}

	endpoint := config.APIBaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("faire: failed to create request: %w", err)
	}
	req.Header.Set("X-FAIRE-ACCESS-TOKEN", config.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &platform.NetworkError{Platform: standard.PlatformFaire, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &platform.NetworkError{Platform: standard.PlatformFaire, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s %s", platform.ErrNotFound, method, path)
		}
		var apiErr faireErrorResponse
		_ = json.Unmarshal(respBody, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, &platform.APIError{
			Platform:        standard.PlatformFaire,
			Status:          resp.StatusCode,
			PlatformMessage: apiErr.Message,
		}
	}
	return respBody, nil
}

func buildPagination(page, pageSize, totalItems int) platform.Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return platform.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
	}
}

// Ensure Adapter implements the platform port
var _ platform.Adapter = (*Adapter)(nil)
