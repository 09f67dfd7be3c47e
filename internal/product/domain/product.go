package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ridloal/supermarket-management/internal/platform/money"
)

var ErrInvalidProduct = errors.New("invalid product")

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	ReorderLevel int       `json:"reorderLevel"`
	Supplier     string    `json:"supplier"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type StockStatus string

const (
	StockOK         StockStatus = "ok"
	StockLow        StockStatus = "low"
	StockOutOfStock StockStatus = "outOfStock"
)

// StockStatus reports whether the product is out of stock or at/below its reorder level.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockOutOfStock
	case p.Stock <= p.ReorderLevel:
		return StockLow
	default:
		return StockOK
	}
}

// ProductInput is the administrative create/update payload.
type ProductInput struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category"`
	Price        float64 `json:"price" binding:"gte=0"`
	Stock        int     `json:"stock" binding:"gte=0"`
	ReorderLevel int     `json:"reorderLevel" binding:"gte=0"`
	Supplier     string  `json:"supplier"`
}

func (in ProductInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case in.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case in.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	case in.ReorderLevel < 0:
		return fmt.Errorf("%w: reorder level must not be negative", ErrInvalidProduct)
	}
	return nil
}

// Apply copies the input onto p, leaving identity and timestamps alone. Prices are kept to cents.
func (in ProductInput) Apply(p *Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.TrimSpace(in.Category)
	p.Price = money.Round(in.Price)
	p.Stock = in.Stock
	p.ReorderLevel = in.ReorderLevel
	p.Supplier = strings.TrimSpace(in.Supplier)
}

// FilterAll is the select-box value meaning "no filter".
const FilterAll = "all"

type ProductFilters struct {
	Search      string `form:"search" json:"search"`
	Category    string `form:"category" json:"category"`
	Supplier    string `form:"supplier" json:"supplier"`
	StockStatus string `form:"stockStatus" json:"stockStatus"` // all, low, outOfStock
	SortBy      string `form:"sortBy" json:"sortBy"`           // name, category, price, stock
	SortDesc    bool   `form:"sortDesc" json:"sortDesc"`
}

// StockDecrement is one line of a completed sale as seen by the product store.
type StockDecrement struct {
	ProductID string
	Quantity  int
}
