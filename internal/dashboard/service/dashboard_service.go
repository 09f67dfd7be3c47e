package service

import (
	"context"
	"sort"

	"github.com/ridloal/supermarket-management/internal/dashboard/domain"
	"github.com/ridloal/supermarket-management/internal/platform/money"
	productRepo "github.com/ridloal/supermarket-management/internal/product/repository"
	saleRepo "github.com/ridloal/supermarket-management/internal/sale/repository"
)

const (
	bestSellerLimit  = 5
	recentSalesLimit = 5
)

type DashboardService interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	BestSellingProducts(ctx context.Context) ([]domain.BestSellingProduct, error)
	StockAlerts(ctx context.Context) ([]domain.StockAlert, error)
	RecentSales(ctx context.Context) ([]domain.RecentSale, error)
}

type dashboardService struct {
	products productRepo.ProductRepository
	sales    saleRepo.SaleRepository
}

func NewDashboardService(products productRepo.ProductRepository, sales saleRepo.SaleRepository) DashboardService {
	return &dashboardService{products: products, sales: sales}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.Stats, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{TotalProducts: len(products), TotalSales: len(sales)}
	amounts := make([]float64, len(sales))
	for i, sale := range sales {
		amounts[i] = sale.TotalAmount
	}
	stats.TotalRevenue = money.Sum(amounts...)
	for _, p := range products {
		if p.Stock <= p.ReorderLevel {
			stats.LowStockCount++
		}
	}
	return stats, nil
}

// BestSellingProducts ranks by units sold, then revenue. Products deleted since the sale keep
// the name captured on the sale line.
func (s *dashboardService) BestSellingProducts(ctx context.Context) ([]domain.BestSellingProduct, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	current := make(map[string]int, len(products))
	for i, p := range products {
		current[p.ID] = i
	}

	byID := map[string]*domain.BestSellingProduct{}
	for _, sale := range sales {
		for _, it := range sale.Items {
			b, ok := byID[it.ProductID]
			if !ok {
				b = &domain.BestSellingProduct{ID: it.ProductID, Name: it.Product.Name, Category: it.Product.Category}
				if i, found := current[it.ProductID]; found {
					b.Name, b.Category = products[i].Name, products[i].Category
				}
				byID[it.ProductID] = b
			}
			b.QuantitySold += it.Quantity
			b.Revenue = money.Sum(b.Revenue, it.Total)
		}
	}

	out := make([]domain.BestSellingProduct, 0, len(byID))
	for _, b := range byID {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > bestSellerLimit {
		out = out[:bestSellerLimit]
	}
	return out, nil
}

func (s *dashboardService) StockAlerts(ctx context.Context) ([]domain.StockAlert, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	alerts := []domain.StockAlert{}
	for _, p := range products {
		if p.Stock > p.ReorderLevel {
			continue
		}
		alerts = append(alerts, domain.StockAlert{
			ID:           p.ID,
			Name:         p.Name,
			CurrentStock: p.Stock,
			ReorderLevel: p.ReorderLevel,
			Supplier:     p.Supplier,
			Status:       string(p.StockStatus()),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].CurrentStock < alerts[j].CurrentStock })
	return alerts, nil
}

func (s *dashboardService) RecentSales(ctx context.Context) ([]domain.RecentSale, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecentSale, 0, recentSalesLimit)
	for i := len(sales) - 1; i >= 0 && len(out) < recentSalesLimit; i-- {
		sale := sales[i]
		out = append(out, domain.RecentSale{
			ID:          sale.ID,
			Date:        sale.CreatedAt,
			Items:       sale.ItemCount(),
			Amount:      sale.TotalAmount,
			CashierName: sale.CashierName,
		})
	}
	return out, nil
}
