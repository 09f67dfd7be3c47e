package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/ridloal/supermarket-management/internal/platform/money"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	productRepo "github.com/ridloal/supermarket-management/internal/product/repository"
	"github.com/ridloal/supermarket-management/internal/sale/domain"
	"github.com/ridloal/supermarket-management/internal/sale/repository"
)

var (
	ErrEmptySale          = errors.New("sale must contain at least one item")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrSaleCreationFailed = errors.New("sale creation failed")
)

type SaleService interface {
	CreateSale(ctx context.Context, req domain.CreateSaleRequest) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
}

type saleServiceImpl struct {
	saleRepo    repository.SaleRepository
	productRepo productRepo.ProductRepository
	now         func() time.Time

	idMu   sync.Mutex
	lastID int64
}

func NewSaleService(sr repository.SaleRepository, pr productRepo.ProductRepository) SaleService {
	return &saleServiceImpl{saleRepo: sr, productRepo: pr, now: time.Now}
}

// nextID returns "sale<unix millis>", bumped by a millisecond when two sales land together.
func (s *saleServiceImpl) nextID(at time.Time) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	ms := at.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return "sale" + strconv.FormatInt(ms, 10)
}

func (s *saleServiceImpl) CreateSale(ctx context.Context, req domain.CreateSaleRequest) (*domain.Sale, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptySale
	}

	items := make([]domain.SaleItem, len(req.Lines))
	decrements := make([]productDomain.StockDecrement, len(req.Lines))
	totals := make([]float64, len(req.Lines))
	for i, line := range req.Lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: product_id %s, quantity %d", ErrInvalidQuantity, line.Product.ID, line.Quantity)
		}
		total := money.LineTotal(line.Product.Price, line.Quantity)
		items[i] = domain.SaleItem{
			ProductID: line.Product.ID,
			Product:   line.Product,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
			Total:     total,
		}
		decrements[i] = productDomain.StockDecrement{ProductID: line.Product.ID, Quantity: line.Quantity}
		totals[i] = total
	}

	if _, err := s.productRepo.DecrementStock(ctx, decrements); err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			return nil, err
		}
		logger.Error("Svc.CreateSale: stock decrement failed", err)
		return nil, fmt.Errorf("%w: %v", ErrSaleCreationFailed, err)
	}

	now := s.now()
	sale := &domain.Sale{
		ID:          s.nextID(now),
		Items:       items,
		TotalAmount: money.Sum(totals...),
		CreatedAt:   now,
		CashierID:   req.CashierID,
		CashierName: req.CashierName,
	}

	if err := s.saleRepo.CreateSale(ctx, sale); err != nil {
		// stock is already gone at this point; the record is what is lost
		logger.Error(fmt.Sprintf("CRITICAL: Svc.CreateSale: stock decremented but sale %s not recorded", sale.ID), err)
		return nil, fmt.Errorf("%w: %v", ErrSaleCreationFailed, err)
	}

	logger.Info("Sale %s completed: %d lines, total %.2f, cashier %q", sale.ID, len(sale.Items), sale.TotalAmount, sale.CashierName)
	return sale, nil
}

func (s *saleServiceImpl) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.saleRepo.ListSales(ctx)
}
