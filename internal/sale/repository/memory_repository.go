package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ridloal/supermarket-management/internal/sale/domain"
)

var (
	ErrSaleNotFound = errors.New("sale not found")
	ErrSaleConflict = errors.New("sale with this id already exists")
)

type SaleRepository interface {
	CreateSale(ctx context.Context, sale *domain.Sale) error
	GetSaleByID(ctx context.Context, id string) (*domain.Sale, error)
	// ListSales returns sales oldest first.
	ListSales(ctx context.Context) ([]domain.Sale, error)
}

type memorySaleRepository struct {
	mu    sync.RWMutex
	sales []domain.Sale
}

func NewMemorySaleRepository(seed []domain.Sale) SaleRepository {
	r := &memorySaleRepository{sales: append([]domain.Sale(nil), seed...)}
	sort.SliceStable(r.sales, func(i, j int) bool {
		return r.sales[i].CreatedAt.Before(r.sales[j].CreatedAt)
	})
	return r
}

func (r *memorySaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.ID == sale.ID {
			return ErrSaleConflict
		}
	}
	r.sales = append(r.sales, *sale)
	return nil
}

func (r *memorySaleRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.sales) - 1; i >= 0; i-- {
		if r.sales[i].ID == id {
			s := r.sales[i]
			return &s, nil
		}
	}
	return nil, ErrSaleNotFound
}

func (r *memorySaleRepository) ListSales(ctx context.Context) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Sale(nil), r.sales...), nil
}
