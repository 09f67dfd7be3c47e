package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/supermarket-management/internal/commerce/domain"
	"github.com/ridloal/supermarket-management/internal/commerce/service"
	"github.com/ridloal/supermarket-management/internal/commerce/service/mocks"
	dashboardService "github.com/ridloal/supermarket-management/internal/dashboard/service"
	forecastService "github.com/ridloal/supermarket-management/internal/forecast/service"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	productRepo "github.com/ridloal/supermarket-management/internal/product/repository"
	productService "github.com/ridloal/supermarket-management/internal/product/service"
	saleRepo "github.com/ridloal/supermarket-management/internal/sale/repository"
	saleService "github.com/ridloal/supermarket-management/internal/sale/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBackend() service.Backend {
	products := productRepo.NewMemoryProductRepository([]productDomain.Product{
		{ID: "1", Name: "Whole Milk", Category: "Dairy", Price: 2.49, Stock: 10, ReorderLevel: 5, Supplier: "Fresh Farms"},
		{ID: "2", Name: "Bread", Category: "Bakery", Price: 3.99, Stock: 2, ReorderLevel: 4, Supplier: "Golden Oven"},
	})
	sales := saleRepo.NewMemorySaleRepository(nil)
	return service.NewMockAPI(service.Deps{
		Products:  productService.NewProductService(products),
		Sales:     saleService.NewSaleService(sales, products),
		Dashboard: dashboardService.NewDashboardService(products, sales),
		Forecasts: forecastService.NewForecastService(products, sales, forecastService.Options{}),
	})
}

func setupRouter(backend service.Backend, g Guards) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	NewCommerceHandler(backend).RegisterRoutes(r.Group("/api/v1"), g)
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) domain.Envelope[T] {
	t.Helper()
	var env domain.Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCommerceHandler_Products(t *testing.T) {
	r := setupRouter(newBackend(), Guards{})

	t.Run("List", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/products", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := decode[[]productDomain.Product](t, w)
		assert.True(t, env.Success)
		assert.Len(t, *env.Data, 2)
	})

	t.Run("Get unknown product", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/products/404", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		env := decode[struct{}](t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "product not found", env.Error)
	})

	t.Run("Create, update, delete", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/products", productDomain.ProductInput{Name: "Tea", Category: "Beverages", Price: 4.5, Stock: 10, ReorderLevel: 2})
		require.Equal(t, http.StatusCreated, w.Code)
		created := decode[productDomain.Product](t, w)
		assert.Equal(t, "Product added successfully", created.Message)
		id := created.Data.ID

		w = do(r, http.MethodPut, "/api/v1/products/"+id, productDomain.ProductInput{Name: "Green Tea", Price: 4.5})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Product updated successfully", decode[productDomain.Product](t, w).Message)

		w = do(r, http.MethodDelete, "/api/v1/products/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		deleted := decode[struct{}](t, w)
		assert.True(t, deleted.Success)
		assert.Nil(t, deleted.Data)
		assert.Equal(t, "Product deleted successfully", deleted.Message)
	})

	t.Run("Invalid payload", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/products", map[string]interface{}{"price": 1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decode[struct{}](t, w).Success)
	})
}

func TestCommerceHandler_Sales(t *testing.T) {
	r := setupRouter(newBackend(), Guards{})

	w := do(r, http.MethodPost, "/api/v1/sales", []map[string]interface{}{
		{"product": map[string]interface{}{"id": "1", "name": "Whole Milk", "price": 2.49}, "quantity": 2},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	env := decode[map[string]interface{}](t, w)
	assert.Equal(t, "Sale completed successfully", env.Message)
	assert.Equal(t, 4.98, (*env.Data)["totalAmount"])

	w = do(r, http.MethodPost, "/api/v1/sales", []interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/dashboard/recent-sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, *decode[[]map[string]interface{}](t, w).Data, 1)
}

func TestCommerceHandler_SalesUseStoredPrices(t *testing.T) {
	r := setupRouter(newBackend(), Guards{})

	t.Run("Posted price is ignored", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/sales", []map[string]interface{}{
			{"product": map[string]interface{}{"id": "2", "name": "Bread", "price": 0}, "quantity": 2},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		sale := *decode[map[string]interface{}](t, w).Data
		assert.Equal(t, 7.98, sale["totalAmount"])
		line := sale["items"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, 3.99, line["price"])
	})

	t.Run("Unknown product", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/sales", []map[string]interface{}{
			{"product": map[string]interface{}{"id": "404", "price": 1}, "quantity": 1},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, decode[struct{}](t, w).Error, "404")
	})
}

func TestCommerceHandler_ReadRoutes(t *testing.T) {
	r := setupRouter(newBackend(), Guards{})

	for _, path := range []string{
		"/api/v1/dashboard/stats",
		"/api/v1/dashboard/best-selling",
		"/api/v1/dashboard/stock-alerts",
		"/api/v1/ai/forecasts",
		"/api/v1/ai/forecast?productId=1",
		"/api/v1/catalog/search?category=Dairy",
		"/api/v1/catalog/categories",
		"/api/v1/catalog/suppliers",
	} {
		t.Run(path, func(t *testing.T) {
			w := do(r, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, decode[json.RawMessage](t, w).Success)
		})
	}

	w := do(r, http.MethodGet, "/api/v1/ai/forecast?productId=404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommerceHandler_Guards(t *testing.T) {
	deny := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusForbidden, domain.Fail("Insufficient permissions"))
	}
	r := setupRouter(newBackend(), Guards{Manage: []gin.HandlerFunc{deny}})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/products", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/v1/products/1", nil).Code)
}

// mockBackend leaves the catalog unimplemented; the tests below never reach it.
type mockBackend struct {
	mocks.MockAPI
	service.Catalog
}

func TestCommerceHandler_ErrorMapping(t *testing.T) {
	mockAPI := new(mockBackend)
	r := setupRouter(mockAPI, Guards{})

	t.Run("Unexpected error hides details", func(t *testing.T) {
		mockAPI.On("DashboardStats", mock.Anything).Return(nil, errors.New("disk on fire")).Once()
		w := do(r, http.MethodGet, "/api/v1/dashboard/stats", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decode[struct{}](t, w).Error)
	})

	t.Run("Panic is recovered into an envelope", func(t *testing.T) {
		mockAPI.On("StockAlerts", mock.Anything).Panic("boom").Once()
		w := do(r, http.MethodGet, "/api/v1/dashboard/stock-alerts", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decode[struct{}](t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "Internal server error", env.Error)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrProductNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: 9", service.ErrProductNotFound), http.StatusNotFound},
		{service.ErrForecastNotFound, http.StatusNotFound},
		{service.ErrInvalidProduct, http.StatusBadRequest},
		{service.ErrEmptySale, http.StatusBadRequest},
		{service.ErrInvalidQuantity, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
