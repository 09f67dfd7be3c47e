// Package client talks to a commerce backend over HTTP, so a real server can stand in for the
// in-process mock without touching callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cartDomain "github.com/ridloal/supermarket-management/internal/cart/domain"
	"github.com/ridloal/supermarket-management/internal/commerce/domain"
	"github.com/ridloal/supermarket-management/internal/commerce/service"
	dashboardDomain "github.com/ridloal/supermarket-management/internal/dashboard/domain"
	forecastDomain "github.com/ridloal/supermarket-management/internal/forecast/domain"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	saleDomain "github.com/ridloal/supermarket-management/internal/sale/domain"
)

var ErrUnexpectedStatus = errors.New("commerce api returned an error")

// remote errors that map back onto the facade sentinels
var sentinels = []error{
	service.ErrProductNotFound,
	service.ErrForecastNotFound,
	service.ErrInvalidProduct,
	service.ErrEmptySale,
	service.ErrInvalidQuantity,
}

// TokenSource supplies the bearer token for each call. It may return "".
type TokenSource func(ctx context.Context) string

type httpCommerceClient struct {
	BaseURL    string
	HTTPClient *http.Client
	token      TokenSource
}

func NewHTTPCommerceClient(baseURL string, token TokenSource) service.Backend {
	return &httpCommerceClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token: token,
	}
}

func call[T any](ctx context.Context, c *httpCommerceClient, method, path string, query url.Values, body interface{}) (*T, error) {
	reqURL := c.BaseURL + "/api/v1" + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("CommerceClient: %s %s failed", method, path), err)
		return nil, fmt.Errorf("failed to call commerce api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env domain.Envelope[T]
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		return nil, remoteError(method, path, resp.StatusCode, env.Error)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode %s %s response: %w", method, path, decodeErr)
	}
	if env.Data == nil {
		var zero T
		return &zero, nil
	}
	return env.Data, nil
}

func remoteError(method, path string, status int, msg string) error {
	for _, s := range sentinels {
		if msg == s.Error() {
			return s
		}
		if strings.HasPrefix(msg, s.Error()) {
			return fmt.Errorf("%w%s", s, strings.TrimPrefix(msg, s.Error()))
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("%w: %s %s returned status %d: %s", ErrUnexpectedStatus, method, path, status, msg)
}

func (c *httpCommerceClient) ListProducts(ctx context.Context) ([]productDomain.Product, error) {
	res, err := call[[]productDomain.Product](ctx, c, http.MethodGet, "/products", nil, nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *httpCommerceClient) CreateProduct(ctx context.Context, in productDomain.ProductInput) (*productDomain.Product, error) {
	return call[productDomain.Product](ctx, c, http.MethodPost, "/products", nil, in)
}

func (c *httpCommerceClient) GetProduct(ctx context.Context, id string) (*productDomain.Product, error) {
	return call[productDomain.Product](ctx, c, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *httpCommerceClient) UpdateProduct(ctx context.Context, id string, in productDomain.ProductInput) (*productDomain.Product, error) {
	return call[productDomain.Product](ctx, c, http.MethodPut, "/products/"+url.PathEscape(id), nil, in)
}

func (c *httpCommerceClient) DeleteProduct(ctx context.Context, id string) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *httpCommerceClient) DashboardStats(ctx context.Context) (*dashboardDomain.Stats, error) {
	return call[dashboardDomain.Stats](ctx, c, http.MethodGet, "/dashboard/stats", nil, nil)
}

func (c *httpCommerceClient) BestSellingProducts(ctx context.Context) ([]dashboardDomain.BestSellingProduct, error) {
	res, err := call[[]dashboardDomain.BestSellingProduct](ctx, c, http.MethodGet, "/dashboard/best-selling", nil, nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *httpCommerceClient) StockAlerts(ctx context.Context) ([]dashboardDomain.StockAlert, error) {
	res, err := call[[]dashboardDomain.StockAlert](ctx, c, http.MethodGet, "/dashboard/stock-alerts", nil, nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *httpCommerceClient) RecentSales(ctx context.Context) ([]dashboardDomain.RecentSale, error) {
	res, err := call[[]dashboardDomain.RecentSale](ctx, c, http.MethodGet, "/dashboard/recent-sales", nil, nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *httpCommerceClient) ProductForecasts(ctx context.Context) ([]forecastDomain.ProductForecast, error) {
	res, err := call[[]forecastDomain.ProductForecast](ctx, c, http.MethodGet, "/ai/forecasts", nil, nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *httpCommerceClient) ProductForecast(ctx context.Context, productID string) (*forecastDomain.ProductForecast, error) {
	return call[forecastDomain.ProductForecast](ctx, c, http.MethodGet, "/ai/forecast", url.Values{"productId": {productID}}, nil)
}

func (c *httpCommerceClient) CreateSale(ctx context.Context, items []cartDomain.CartItem) (*saleDomain.Sale, error) {
	if items == nil {
		items = []cartDomain.CartItem{}
	}
	return call[saleDomain.Sale](ctx, c, http.MethodPost, "/sales", nil, items)
}

func (c *httpCommerceClient) SearchProducts(ctx context.Context, f productDomain.ProductFilters) ([]productDomain.Product, error) {
	q := url.Values{}
	for k, v := range map[string]string{
		"search":      f.Search,
		"category":    f.Category,
		"supplier":    f.Supplier,
		"stockStatus": f.StockStatus,
		"sortBy":      f.SortBy,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	if f.SortDesc {
		q.Set("sortDesc", strconv.FormatBool(true))
	}
	res, err := call[[]productDomain.Product](ctx, c, http.MethodGet, "/catalog/search", q, nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *httpCommerceClient) ProductCategories(ctx context.Context) ([]string, error) {
	res, err := call[[]string](ctx, c, http.MethodGet, "/catalog/categories", nil, nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *httpCommerceClient) ProductSuppliers(ctx context.Context) ([]string, error) {
	res, err := call[[]string](ctx, c, http.MethodGet, "/catalog/suppliers", nil, nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}
