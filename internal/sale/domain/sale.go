package domain

import (
	"time"

	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
)

type SaleItem struct {
	ProductID string                `json:"productId"`
	Product   productDomain.Product `json:"product"`
	Quantity  int                   `json:"quantity"`
	Price     float64               `json:"price"`
	Total     float64               `json:"total"`
}

type Sale struct {
	ID          string     `json:"id"`
	Items       []SaleItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt"`
	CashierID   string     `json:"cashierId"`
	CashierName string     `json:"cashierName"`
}

// ItemCount is the number of units sold across all lines.
func (s Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// CreateSaleLine carries the product snapshot captured when the line was rung up.
type CreateSaleLine struct {
	Product  productDomain.Product
	Quantity int
}

type CreateSaleRequest struct {
	Lines       []CreateSaleLine
	CashierID   string
	CashierName string
}
