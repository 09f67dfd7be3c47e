package service

import (
	"context"
	"sort"
	"strings"

	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/ridloal/supermarket-management/internal/product/domain"
	"github.com/ridloal/supermarket-management/internal/product/repository"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error

	SearchProducts(ctx context.Context, filters domain.ProductFilters) ([]domain.Product, error)
	ProductCategories(ctx context.Context) ([]string, error)
	ProductSuppliers(ctx context.Context) ([]string, error)
}

type productServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productServiceImpl{repo: repo}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *productServiceImpl) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, productID)
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &domain.Product{}
	in.Apply(p)
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		logger.Error("Svc.CreateProduct: repo error", err)
		return nil, err
	}
	logger.Info("Product %s (%s) created", p.ID, p.Name)
	return p, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID string, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	in.Apply(p)
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		logger.Error("Svc.UpdateProduct: repo error", err)
		return nil, err
	}
	return p, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.repo.DeleteProduct(ctx, productID)
}

func isFilterSet(v string) bool {
	return v != "" && v != domain.FilterAll
}

// SearchProducts matches the query against name or id case-insensitively; category and
// supplier must match exactly.
func (s *productServiceImpl) SearchProducts(ctx context.Context, f domain.ProductFilters) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(f.Search))
	results := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.ID), query) {
			continue
		}
		if isFilterSet(f.Category) && p.Category != f.Category {
			continue
		}
		if isFilterSet(f.Supplier) && p.Supplier != f.Supplier {
			continue
		}
		switch domain.StockStatus(f.StockStatus) {
		case domain.StockLow:
			// low includes out of stock, as on the inventory screen
			if p.Stock > p.ReorderLevel {
				continue
			}
		case domain.StockOutOfStock:
			if p.Stock != 0 {
				continue
			}
		}
		results = append(results, p)
	}

	sortProducts(results, f.SortBy, f.SortDesc)
	return results, nil
}

func sortProducts(ps []domain.Product, key string, desc bool) {
	var less func(a, b domain.Product) bool
	switch key {
	case "name":
		less = func(a, b domain.Product) bool { return a.Name < b.Name }
	case "category":
		less = func(a, b domain.Product) bool { return a.Category < b.Category }
	case "price":
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case "stock":
		less = func(a, b domain.Product) bool { return a.Stock < b.Stock }
	default:
		return
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if desc {
			return less(ps[j], ps[i])
		}
		return less(ps[i], ps[j])
	})
}

func (s *productServiceImpl) ProductCategories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, func(p domain.Product) string { return p.Category })
}

func (s *productServiceImpl) ProductSuppliers(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, func(p domain.Product) string { return p.Supplier })
}

// distinct keeps first-seen order.
func (s *productServiceImpl) distinct(ctx context.Context, field func(domain.Product) string) ([]string, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(products))
	out := []string{}
	for _, p := range products {
		v := field(p)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
