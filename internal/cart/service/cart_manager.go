package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ridloal/supermarket-management/internal/cart/domain"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/ridloal/supermarket-management/internal/platform/money"
	"github.com/ridloal/supermarket-management/internal/platform/storage"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	saleDomain "github.com/ridloal/supermarket-management/internal/sale/domain"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// SaleCreator completes a sale from cart lines. The commerce API satisfies it.
type SaleCreator interface {
	CreateSale(ctx context.Context, items []domain.CartItem) (*saleDomain.Sale, error)
}

// Manager owns the billing cart. Every mutation is followed by a snapshot write to the store.
type Manager struct {
	store storage.Store

	mu     sync.Mutex
	items  []domain.CartItem
	loaded bool
}

func NewManager(store storage.Store) *Manager {
	return &Manager{store: store, items: []domain.CartItem{}}
}

// Init rehydrates the cart from the store. Only the first call reads; malformed data is dropped.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return nil
	}
	m.loaded = true

	raw, err := m.store.Get(ctx, domain.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil
		}
		logger.Error("Cart.Init: failed to read cart", err)
		return nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Error("Cart.Init: malformed cart snapshot, starting empty", err)
		return nil
	}
	valid := items[:0]
	for _, it := range items {
		if it.Product.ID == "" || it.Quantity < 1 {
			logger.Warn("Cart.Init: dropping invalid line %q x%d", it.Product.ID, it.Quantity)
			continue
		}
		valid = append(valid, it)
	}
	m.items = append([]domain.CartItem{}, valid...)
	logger.Info("Cart restored with %d lines", len(m.items))
	return nil
}

// Close flushes the current snapshot.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistLocked(ctx)
}

func (m *Manager) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(m.items)
	if err != nil {
		logger.Error("Cart: failed to encode snapshot", err)
		return err
	}
	if err := m.store.Set(ctx, domain.StorageKey, string(raw)); err != nil {
		logger.Error("Cart: failed to persist snapshot", err)
		return err
	}
	return nil
}

// mutate runs fn under the lock and persists when fn reports a change. Persistence failures
// are logged only.
func (m *Manager) mutate(ctx context.Context, fn func() (bool, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	changed, err := fn()
	if err != nil || !changed {
		return err
	}
	_ = m.persistLocked(ctx)
	return nil
}

func (m *Manager) indexOf(productID string) int {
	for i, it := range m.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddToCart inserts a line or merges into the existing one. The merged quantity is checked
// against the stock of the product being added.
func (m *Manager) AddToCart(ctx context.Context, product productDomain.Product, quantity int) error {
	return m.mutate(ctx, func() (bool, error) {
		if quantity < 1 {
			return false, ErrInvalidQuantity
		}
		i := m.indexOf(product.ID)
		want := quantity
		if i >= 0 {
			want += m.items[i].Quantity
		}
		if product.Stock < want {
			return false, fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, product.Stock, product.Name)
		}
		if i >= 0 {
			m.items[i].Quantity = want
		} else {
			m.items = append(m.items, domain.CartItem{Product: product, Quantity: quantity})
		}
		return true, nil
	})
}

func (m *Manager) RemoveFromCart(ctx context.Context, productID string) {
	_ = m.mutate(ctx, func() (bool, error) {
		i := m.indexOf(productID)
		if i < 0 {
			return false, nil
		}
		m.items = append(m.items[:i], m.items[i+1:]...)
		return true, nil
	})
}

// UpdateQuantity sets a line's quantity exactly; anything below 1 removes the line.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return m.mutate(ctx, func() (bool, error) {
		i := m.indexOf(productID)
		if i < 0 {
			return false, nil
		}
		if quantity < 1 {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
		if p := m.items[i].Product; p.Stock < quantity {
			return false, fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, p.Stock, p.Name)
		}
		m.items[i].Quantity = quantity
		return true, nil
	})
}

func (m *Manager) ClearCart(ctx context.Context) {
	_ = m.mutate(ctx, func() (bool, error) {
		m.items = []domain.CartItem{}
		return true, nil
	})
}

func (m *Manager) Items() []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartItem{}, m.items...)
}

func (m *Manager) TotalItems() int {
	return totalItems(m.Items())
}

func (m *Manager) TotalAmount() float64 {
	return totalAmount(m.Items())
}

// Summary reads items and totals from one snapshot.
func (m *Manager) Summary() domain.Summary {
	items := m.Items()
	return domain.Summary{Items: items, TotalItems: totalItems(items), TotalAmount: totalAmount(items)}
}

func totalItems(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// totalAmount prices each line at the price captured when it was added.
func totalAmount(items []domain.CartItem) float64 {
	lines := make([]float64, len(items))
	for i, it := range items {
		lines[i] = money.LineTotal(it.Product.Price, it.Quantity)
	}
	return money.Sum(lines...)
}

// Checkout completes a sale from the current lines. Once it succeeds the sold quantities
// leave the cart; anything added while the sale was in flight stays.
func (m *Manager) Checkout(ctx context.Context, creator SaleCreator) (*saleDomain.Sale, error) {
	items := m.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	sale, err := creator.CreateSale(ctx, items)
	if err != nil {
		return nil, err
	}
	m.removeSold(ctx, items)
	return sale, nil
}

func (m *Manager) removeSold(ctx context.Context, sold []domain.CartItem) {
	_ = m.mutate(ctx, func() (bool, error) {
		soldQty := make(map[string]int, len(sold))
		for _, it := range sold {
			soldQty[it.Product.ID] += it.Quantity
		}
		left := make([]domain.CartItem, 0, len(m.items))
		for _, it := range m.items {
			it.Quantity -= soldQty[it.Product.ID]
			if it.Quantity > 0 {
				left = append(left, it)
			}
		}
		m.items = left
		return true, nil
	})
}
