package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	cartDomain "github.com/ridloal/supermarket-management/internal/cart/domain"
	"github.com/ridloal/supermarket-management/internal/commerce/domain"
	"github.com/ridloal/supermarket-management/internal/commerce/service"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
)

// Guards are middleware chains per access level. Empty chains leave a route open.
type Guards struct {
	Read     []gin.HandlerFunc // any signed-in user
	Manage   []gin.HandlerFunc // inventory changes
	Sell     []gin.HandlerFunc // ringing up sales
	Insights []gin.HandlerFunc // forecasts
}

type CommerceHandler struct {
	api     service.API
	catalog service.Catalog
}

func NewCommerceHandler(backend service.Backend) *CommerceHandler {
	return &CommerceHandler{api: backend, catalog: backend}
}

func (h *CommerceHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	products := router.Group("/products", g.Read...)
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", chain(h.CreateProduct, g.Manage)...)
		products.PUT("/:id", chain(h.UpdateProduct, g.Manage)...)
		products.DELETE("/:id", chain(h.DeleteProduct, g.Manage)...)
	}

	catalog := router.Group("/catalog", g.Read...)
	{
		catalog.GET("/search", h.SearchProducts)
		catalog.GET("/categories", h.ProductCategories)
		catalog.GET("/suppliers", h.ProductSuppliers)
	}

	dashboard := router.Group("/dashboard", g.Read...)
	{
		dashboard.GET("/stats", h.DashboardStats)
		dashboard.GET("/best-selling", h.BestSellingProducts)
		dashboard.GET("/stock-alerts", h.StockAlerts)
		dashboard.GET("/recent-sales", h.RecentSales)
	}

	ai := router.Group("/ai", g.Read...)
	{
		ai.GET("/forecasts", chain(h.ProductForecasts, g.Insights)...)
		ai.GET("/forecast", chain(h.ProductForecast, g.Insights)...)
	}

	router.POST("/sales", chain(h.CreateSale, g.Read, g.Sell)...)
}

// chain copies the guards so routes never share a backing array.
func chain(h gin.HandlerFunc, guards ...[]gin.HandlerFunc) []gin.HandlerFunc {
	var out []gin.HandlerFunc
	for _, g := range guards {
		out = append(out, g...)
	}
	return append(out, h)
}

// Recovery turns a panic in any handler into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Recovered from panic", fmt.Errorf("%v", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.Fail("Internal server error"))
	})
}

// StatusFor maps facade errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrForecastNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrEmptySale),
		errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, op string, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(op+": service error", err)
		msg = "Internal server error"
	}
	c.JSON(status, domain.Fail(msg))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, domain.Fail("Invalid request payload: "+err.Error()))
}

func (h *CommerceHandler) ListProducts(c *gin.Context) {
	products, err := h.api.ListProducts(c.Request.Context())
	if err != nil {
		fail(c, "ListProducts", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(products, ""))
}

func (h *CommerceHandler) GetProduct(c *gin.Context) {
	product, err := h.api.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "GetProduct", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(product, ""))
}

func (h *CommerceHandler) CreateProduct(c *gin.Context) {
	var in productDomain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.api.CreateProduct(c.Request.Context(), in)
	if err != nil {
		fail(c, "CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, domain.OK(product, "Product added successfully"))
}

func (h *CommerceHandler) UpdateProduct(c *gin.Context) {
	var in productDomain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.api.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, "UpdateProduct", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(product, "Product updated successfully"))
}

func (h *CommerceHandler) DeleteProduct(c *gin.Context) {
	if err := h.api.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, "DeleteProduct", err)
		return
	}
	c.JSON(http.StatusOK, domain.Done("Product deleted successfully"))
}

func (h *CommerceHandler) SearchProducts(c *gin.Context) {
	var f productDomain.ProductFilters
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, err)
		return
	}
	products, err := h.catalog.SearchProducts(c.Request.Context(), f)
	if err != nil {
		fail(c, "SearchProducts", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(products, ""))
}

func (h *CommerceHandler) ProductCategories(c *gin.Context) {
	cats, err := h.catalog.ProductCategories(c.Request.Context())
	if err != nil {
		fail(c, "ProductCategories", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(cats, ""))
}

func (h *CommerceHandler) ProductSuppliers(c *gin.Context) {
	sups, err := h.catalog.ProductSuppliers(c.Request.Context())
	if err != nil {
		fail(c, "ProductSuppliers", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(sups, ""))
}

func (h *CommerceHandler) DashboardStats(c *gin.Context) {
	stats, err := h.api.DashboardStats(c.Request.Context())
	if err != nil {
		fail(c, "DashboardStats", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(stats, ""))
}

func (h *CommerceHandler) BestSellingProducts(c *gin.Context) {
	best, err := h.api.BestSellingProducts(c.Request.Context())
	if err != nil {
		fail(c, "BestSellingProducts", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(best, ""))
}

func (h *CommerceHandler) StockAlerts(c *gin.Context) {
	alerts, err := h.api.StockAlerts(c.Request.Context())
	if err != nil {
		fail(c, "StockAlerts", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(alerts, ""))
}

func (h *CommerceHandler) RecentSales(c *gin.Context) {
	recent, err := h.api.RecentSales(c.Request.Context())
	if err != nil {
		fail(c, "RecentSales", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(recent, ""))
}

func (h *CommerceHandler) ProductForecasts(c *gin.Context) {
	forecasts, err := h.api.ProductForecasts(c.Request.Context())
	if err != nil {
		fail(c, "ProductForecasts", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(forecasts, ""))
}

func (h *CommerceHandler) ProductForecast(c *gin.Context) {
	forecast, err := h.api.ProductForecast(c.Request.Context(), c.Query("productId"))
	if err != nil {
		fail(c, "ProductForecast", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(forecast, ""))
}

func (h *CommerceHandler) CreateSale(c *gin.Context) {
	var items []cartDomain.CartItem
	if err := c.ShouldBindJSON(&items); err != nil {
		badRequest(c, err)
		return
	}
	items, err := h.priceFromCatalog(c.Request.Context(), items)
	if err != nil {
		fail(c, "CreateSale", err)
		return
	}
	sale, err := h.api.CreateSale(c.Request.Context(), items)
	if err != nil {
		fail(c, "CreateSale", err)
		return
	}
	c.JSON(http.StatusCreated, domain.OK(sale, "Sale completed successfully"))
}

// priceFromCatalog replaces each posted product with the stored one, so a remote
// caller cannot set its own unit price. Quantities are kept as posted.
func (h *CommerceHandler) priceFromCatalog(ctx context.Context, items []cartDomain.CartItem) ([]cartDomain.CartItem, error) {
	if len(items) == 0 {
		return items, nil
	}
	products, err := h.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]productDomain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	priced := make([]cartDomain.CartItem, len(items))
	for i, it := range items {
		p, ok := byID[it.Product.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", service.ErrProductNotFound, it.Product.ID)
		}
		priced[i] = cartDomain.CartItem{Product: p, Quantity: it.Quantity}
	}
	return priced, nil
}
