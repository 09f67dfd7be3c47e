package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/ridloal/supermarket-management/internal/product/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductConflict = errors.New("product with this id already exists")
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// DecrementStock applies every line or none. Stock is floored at zero.
	DecrementStock(ctx context.Context, lines []domain.StockDecrement) ([]domain.Product, error)
}

type memoryProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
	now      func() time.Time
}

// NewMemoryProductRepository keeps seed in insertion order, which is the listing order.
func NewMemoryProductRepository(seed []domain.Product) ProductRepository {
	r := &memoryProductRepository{
		products: make([]domain.Product, 0, len(seed)),
		index:    make(map[string]int, len(seed)),
		now:      time.Now,
	}
	for _, p := range seed {
		r.index[p.ID] = len(r.products)
		r.products = append(r.products, p)
	}
	return r
}

func (r *memoryProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *memoryProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := r.products[i]
	return &p, nil
}

func (r *memoryProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if _, exists := r.index[product.ID]; exists {
		logger.Warn("CreateProduct: id %s already taken", product.ID)
		return ErrProductConflict
	}
	product.CreatedAt = r.now()
	product.UpdatedAt = product.CreatedAt

	r.index[product.ID] = len(r.products)
	r.products = append(r.products, *product)
	return nil
}

func (r *memoryProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	product.CreatedAt = r.products[i].CreatedAt
	product.UpdatedAt = r.now()
	r.products[i] = *product
	return nil
}

func (r *memoryProductRepository) DeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.products); j++ {
		r.index[r.products[j].ID] = j
	}
	return nil
}

func (r *memoryProductRepository) DecrementStock(ctx context.Context, lines []domain.StockDecrement) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// validate everything before touching any row
	for _, l := range lines {
		if _, ok := r.index[l.ProductID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, l.ProductID)
		}
	}

	now := r.now()
	updated := make([]domain.Product, 0, len(lines))
	for _, l := range lines {
		p := &r.products[r.index[l.ProductID]]
		if l.Quantity > p.Stock {
			logger.Warn("DecrementStock: oversell on product %s (stock %d, sold %d), flooring at 0", p.ID, p.Stock, l.Quantity)
		}
		p.Stock = max(0, p.Stock-l.Quantity)
		p.UpdatedAt = now
		updated = append(updated, *p)
	}
	return updated, nil
}
