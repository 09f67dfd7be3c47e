package domain

import (
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
)

// StorageKey is where the cart snapshot is persisted.
const StorageKey = "supermarket-cart"

type CartItem struct {
	Product  productDomain.Product `json:"product"`
	Quantity int                   `json:"quantity"`
}

// Summary is the cart as returned to clients, with derived totals.
type Summary struct {
	Items       []CartItem `json:"items"`
	TotalItems  int        `json:"totalItems"`
	TotalAmount float64    `json:"totalAmount"`
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
