package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cartDomain "github.com/ridloal/supermarket-management/internal/cart/domain"
	"github.com/ridloal/supermarket-management/internal/cart/service"
	commerceApi "github.com/ridloal/supermarket-management/internal/commerce/api"
	"github.com/ridloal/supermarket-management/internal/commerce/domain"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
)

// Backend resolves products for new lines and completes checkouts.
type Backend interface {
	GetProduct(ctx context.Context, id string) (*productDomain.Product, error)
	service.SaleCreator
}

type CartHandler struct {
	cart    *service.Manager
	backend Backend
}

func NewCartHandler(cart *service.Manager, backend Backend) *CartHandler {
	return &CartHandler{cart: cart, backend: backend}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, guards ...gin.HandlerFunc) {
	cartRoutes := router.Group("/cart", guards...)
	{
		cartRoutes.GET("", h.GetCart)
		cartRoutes.DELETE("", h.ClearCart)
		cartRoutes.POST("/items", h.AddItem)
		cartRoutes.PUT("/items/:productId", h.UpdateItem)
		cartRoutes.DELETE("/items/:productId", h.RemoveItem)
		cartRoutes.POST("/checkout", h.Checkout)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	default:
		return commerceApi.StatusFor(err)
	}
}

func (h *CartHandler) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(op+": service error", err)
		msg = "Internal server error"
	}
	c.JSON(status, domain.Fail(msg))
}

func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, domain.OK(h.cart.Summary(), ""))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartDomain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.Fail("Invalid request payload: "+err.Error()))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.backend.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		h.fail(c, "AddItem", err)
		return
	}
	if err := h.cart.AddToCart(c.Request.Context(), *product, req.Quantity); err != nil {
		h.fail(c, "AddItem", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(h.cart.Summary(), ""))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req cartDomain.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.Fail("Invalid request payload: "+err.Error()))
		return
	}
	if err := h.cart.UpdateQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity); err != nil {
		h.fail(c, "UpdateItem", err)
		return
	}
	c.JSON(http.StatusOK, domain.OK(h.cart.Summary(), ""))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.cart.RemoveFromCart(c.Request.Context(), c.Param("productId"))
	c.JSON(http.StatusOK, domain.OK(h.cart.Summary(), ""))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.cart.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, domain.OK(h.cart.Summary(), ""))
}

func (h *CartHandler) Checkout(c *gin.Context) {
	sale, err := h.cart.Checkout(c.Request.Context(), h.backend)
	if err != nil {
		h.fail(c, "Checkout", err)
		return
	}
	c.JSON(http.StatusCreated, domain.OK(sale, "Sale completed successfully"))
}
