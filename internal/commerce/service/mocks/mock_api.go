package mocks

import (
	"context"

	cartDomain "github.com/ridloal/supermarket-management/internal/cart/domain"
	dashboardDomain "github.com/ridloal/supermarket-management/internal/dashboard/domain"
	forecastDomain "github.com/ridloal/supermarket-management/internal/forecast/domain"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	saleDomain "github.com/ridloal/supermarket-management/internal/sale/domain"
	"github.com/stretchr/testify/mock"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListProducts(ctx context.Context) ([]productDomain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]productDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) CreateProduct(ctx context.Context, in productDomain.ProductInput) (*productDomain.Product, error) {
	args := m.Called(ctx, in)
	if res := args.Get(0); res != nil {
		return res.(*productDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) GetProduct(ctx context.Context, id string) (*productDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*productDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) UpdateProduct(ctx context.Context, id string, in productDomain.ProductInput) (*productDomain.Product, error) {
	args := m.Called(ctx, id, in)
	if res := args.Get(0); res != nil {
		return res.(*productDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) DashboardStats(ctx context.Context) (*dashboardDomain.Stats, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*dashboardDomain.Stats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) BestSellingProducts(ctx context.Context) ([]dashboardDomain.BestSellingProduct, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]dashboardDomain.BestSellingProduct), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) StockAlerts(ctx context.Context) ([]dashboardDomain.StockAlert, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]dashboardDomain.StockAlert), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) RecentSales(ctx context.Context) ([]dashboardDomain.RecentSale, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]dashboardDomain.RecentSale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) ProductForecasts(ctx context.Context) ([]forecastDomain.ProductForecast, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]forecastDomain.ProductForecast), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) ProductForecast(ctx context.Context, productID string) (*forecastDomain.ProductForecast, error) {
	args := m.Called(ctx, productID)
	if res := args.Get(0); res != nil {
		return res.(*forecastDomain.ProductForecast), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) CreateSale(ctx context.Context, items []cartDomain.CartItem) (*saleDomain.Sale, error) {
	args := m.Called(ctx, items)
	if res := args.Get(0); res != nil {
		return res.(*saleDomain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}
