// Package service is the commerce facade the UI talks to: one typed method per backend route.
// The mock implementation answers from the in-process stores after a simulated network delay.
package service

import (
	"context"

	cartDomain "github.com/ridloal/supermarket-management/internal/cart/domain"
	dashboardDomain "github.com/ridloal/supermarket-management/internal/dashboard/domain"
	dashboardService "github.com/ridloal/supermarket-management/internal/dashboard/service"
	forecastDomain "github.com/ridloal/supermarket-management/internal/forecast/domain"
	forecastService "github.com/ridloal/supermarket-management/internal/forecast/service"
	"github.com/ridloal/supermarket-management/internal/platform/latency"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	productRepo "github.com/ridloal/supermarket-management/internal/product/repository"
	productService "github.com/ridloal/supermarket-management/internal/product/service"
	saleDomain "github.com/ridloal/supermarket-management/internal/sale/domain"
	saleService "github.com/ridloal/supermarket-management/internal/sale/service"
	userDomain "github.com/ridloal/supermarket-management/internal/user/domain"
)

var (
	ErrProductNotFound  = productRepo.ErrProductNotFound
	ErrInvalidProduct   = productDomain.ErrInvalidProduct
	ErrForecastNotFound = forecastService.ErrForecastNotFound
	ErrEmptySale        = saleService.ErrEmptySale
	ErrInvalidQuantity  = saleService.ErrInvalidQuantity
)

type API interface {
	ListProducts(ctx context.Context) ([]productDomain.Product, error)
	CreateProduct(ctx context.Context, in productDomain.ProductInput) (*productDomain.Product, error)
	GetProduct(ctx context.Context, id string) (*productDomain.Product, error)
	UpdateProduct(ctx context.Context, id string, in productDomain.ProductInput) (*productDomain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	DashboardStats(ctx context.Context) (*dashboardDomain.Stats, error)
	BestSellingProducts(ctx context.Context) ([]dashboardDomain.BestSellingProduct, error)
	StockAlerts(ctx context.Context) ([]dashboardDomain.StockAlert, error)
	RecentSales(ctx context.Context) ([]dashboardDomain.RecentSale, error)

	ProductForecasts(ctx context.Context) ([]forecastDomain.ProductForecast, error)
	ProductForecast(ctx context.Context, productID string) (*forecastDomain.ProductForecast, error)

	CreateSale(ctx context.Context, items []cartDomain.CartItem) (*saleDomain.Sale, error)
}

// Catalog holds the synchronous lookups used by search boxes and filters. They never wait.
type Catalog interface {
	SearchProducts(ctx context.Context, filters productDomain.ProductFilters) ([]productDomain.Product, error)
	ProductCategories(ctx context.Context) ([]string, error)
	ProductSuppliers(ctx context.Context) ([]string, error)
}

// Backend is everything the HTTP surface serves.
type Backend interface {
	API
	Catalog
}

// CashierProvider names whoever is ringing up a sale. The auth service satisfies it.
type CashierProvider interface {
	CurrentUser(ctx context.Context) *userDomain.User
}

type Deps struct {
	Products  productService.ProductService
	Sales     saleService.SaleService
	Dashboard dashboardService.DashboardService
	Forecasts forecastService.ForecastService
	Cashier   CashierProvider
	Latency   *latency.Simulator
}

type mockAPI struct {
	Deps
}

// NewMockAPI returns the in-process backend. A nil Latency means no delay.
func NewMockAPI(d Deps) Backend {
	if d.Latency == nil {
		d.Latency = latency.None()
	}
	return &mockAPI{Deps: d}
}

func (m *mockAPI) ListProducts(ctx context.Context) ([]productDomain.Product, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Products.ListProducts(ctx)
}

func (m *mockAPI) CreateProduct(ctx context.Context, in productDomain.ProductInput) (*productDomain.Product, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	p, err := m.Products.CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	m.Forecasts.Invalidate()
	return p, nil
}

func (m *mockAPI) GetProduct(ctx context.Context, id string) (*productDomain.Product, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Products.GetProduct(ctx, id)
}

func (m *mockAPI) UpdateProduct(ctx context.Context, id string, in productDomain.ProductInput) (*productDomain.Product, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	p, err := m.Products.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, err
	}
	m.Forecasts.Invalidate()
	return p, nil
}

func (m *mockAPI) DeleteProduct(ctx context.Context, id string) error {
	if err := m.Latency.Wait(ctx); err != nil {
		return err
	}
	if err := m.Products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	m.Forecasts.Invalidate()
	return nil
}

func (m *mockAPI) DashboardStats(ctx context.Context) (*dashboardDomain.Stats, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Dashboard.Stats(ctx)
}

func (m *mockAPI) BestSellingProducts(ctx context.Context) ([]dashboardDomain.BestSellingProduct, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Dashboard.BestSellingProducts(ctx)
}

func (m *mockAPI) StockAlerts(ctx context.Context) ([]dashboardDomain.StockAlert, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Dashboard.StockAlerts(ctx)
}

func (m *mockAPI) RecentSales(ctx context.Context) ([]dashboardDomain.RecentSale, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Dashboard.RecentSales(ctx)
}

func (m *mockAPI) ProductForecasts(ctx context.Context) ([]forecastDomain.ProductForecast, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Forecasts.ProductForecasts(ctx)
}

func (m *mockAPI) ProductForecast(ctx context.Context, productID string) (*forecastDomain.ProductForecast, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Forecasts.ProductForecast(ctx, productID)
}

func (m *mockAPI) CreateSale(ctx context.Context, items []cartDomain.CartItem) (*saleDomain.Sale, error) {
	if err := m.Latency.Wait(ctx); err != nil {
		return nil, err
	}

	req := saleDomain.CreateSaleRequest{Lines: make([]saleDomain.CreateSaleLine, len(items))}
	for i, it := range items {
		req.Lines[i] = saleDomain.CreateSaleLine{Product: it.Product, Quantity: it.Quantity}
	}
	if m.Cashier != nil {
		if u := m.Cashier.CurrentUser(ctx); u != nil {
			req.CashierID, req.CashierName = u.ID, u.Name
		}
	}

	sale, err := m.Sales.CreateSale(ctx, req)
	if err != nil {
		return nil, err
	}
	m.Forecasts.Invalidate()
	logger.Debug("CreateSale: forecasts invalidated after %s", sale.ID)
	return sale, nil
}

func (m *mockAPI) SearchProducts(ctx context.Context, filters productDomain.ProductFilters) ([]productDomain.Product, error) {
	return m.Products.SearchProducts(ctx, filters)
}

func (m *mockAPI) ProductCategories(ctx context.Context) ([]string, error) {
	return m.Products.ProductCategories(ctx)
}

func (m *mockAPI) ProductSuppliers(ctx context.Context) ([]string, error) {
	return m.Products.ProductSuppliers(ctx)
}
