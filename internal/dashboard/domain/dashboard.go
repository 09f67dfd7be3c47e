package domain

import "time"

type Stats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalSales    int     `json:"totalSales"`
	TotalRevenue  float64 `json:"totalRevenue"`
	LowStockCount int     `json:"lowStockCount"`
}

type BestSellingProduct struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	QuantitySold int     `json:"quantitySold"`
	Revenue      float64 `json:"revenue"`
}

type RecentSale struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Items       int       `json:"items"`
	Amount      float64   `json:"amount"`
	CashierName string    `json:"cashierName"`
}

type StockAlert struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrentStock int    `json:"currentStock"`
	ReorderLevel int    `json:"reorderLevel"`
	Supplier     string `json:"supplier"`
	Status       string `json:"status"` // low, outOfStock
}
