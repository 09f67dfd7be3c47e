package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	pRepo "github.com/ridloal/supermarket-management/internal/product/repository"
	productMocks "github.com/ridloal/supermarket-management/internal/product/repository/mocks"
	"github.com/ridloal/supermarket-management/internal/sale/domain"
	saleMocks "github.com/ridloal/supermarket-management/internal/sale/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSaleService_CreateSale(t *testing.T) {
	ctx := context.TODO()
	productA := productDomain.Product{ID: "A", Name: "Apples", Price: 5.00, Stock: 10}
	productB := productDomain.Product{ID: "B", Name: "Bread", Price: 3.00, Stock: 1}

	req := domain.CreateSaleRequest{
		Lines: []domain.CreateSaleLine{
			{Product: productA, Quantity: 2},
			{Product: productB, Quantity: 1},
		},
		CashierID:   "2",
		CashierName: "Cashier User",
	}
	decrements := []productDomain.StockDecrement{{ProductID: "A", Quantity: 2}, {ProductID: "B", Quantity: 1}}

	t.Run("Successful sale", func(t *testing.T) {
		mockProductRepo := new(productMocks.MockProductRepository)
		mockSaleRepo := new(saleMocks.MockSaleRepository)
		svc := NewSaleService(mockSaleRepo, mockProductRepo)

		mockProductRepo.On("DecrementStock", ctx, decrements).Return([]productDomain.Product{}, nil).Once()
		mockSaleRepo.On("CreateSale", ctx, mock.AnythingOfType("*domain.Sale")).Return(nil).Once()

		sale, err := svc.CreateSale(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, 13.00, sale.TotalAmount)
		assert.Len(t, sale.Items, 2)
		assert.Equal(t, 10.00, sale.Items[0].Total)
		assert.Equal(t, 5.00, sale.Items[0].Price)
		assert.Equal(t, "Cashier User", sale.CashierName)
		assert.Regexp(t, `^sale\d+$`, sale.ID)
		mockProductRepo.AssertExpectations(t)
		mockSaleRepo.AssertExpectations(t)
	})

	t.Run("Empty sale", func(t *testing.T) {
		svc := NewSaleService(new(saleMocks.MockSaleRepository), new(productMocks.MockProductRepository))
		_, err := svc.CreateSale(ctx, domain.CreateSaleRequest{})
		assert.ErrorIs(t, err, ErrEmptySale)
	})

	t.Run("Zero quantity rejected before stock is touched", func(t *testing.T) {
		mockProductRepo := new(productMocks.MockProductRepository)
		svc := NewSaleService(new(saleMocks.MockSaleRepository), mockProductRepo)

		_, err := svc.CreateSale(ctx, domain.CreateSaleRequest{Lines: []domain.CreateSaleLine{{Product: productA, Quantity: 0}}})

		assert.ErrorIs(t, err, ErrInvalidQuantity)
		mockProductRepo.AssertNotCalled(t, "DecrementStock")
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockProductRepo := new(productMocks.MockProductRepository)
		mockSaleRepo := new(saleMocks.MockSaleRepository)
		svc := NewSaleService(mockSaleRepo, mockProductRepo)
		mockProductRepo.On("DecrementStock", ctx, decrements).Return(nil, fmt.Errorf("%w: B", pRepo.ErrProductNotFound)).Once()

		_, err := svc.CreateSale(ctx, req)

		assert.ErrorIs(t, err, pRepo.ErrProductNotFound)
		mockSaleRepo.AssertNotCalled(t, "CreateSale")
	})

	t.Run("Recording fails after decrement", func(t *testing.T) {
		mockProductRepo := new(productMocks.MockProductRepository)
		mockSaleRepo := new(saleMocks.MockSaleRepository)
		svc := NewSaleService(mockSaleRepo, mockProductRepo)
		mockProductRepo.On("DecrementStock", ctx, decrements).Return([]productDomain.Product{}, nil).Once()
		mockSaleRepo.On("CreateSale", ctx, mock.AnythingOfType("*domain.Sale")).Return(errors.New("disk full")).Once()

		_, err := svc.CreateSale(ctx, req)

		assert.ErrorIs(t, err, ErrSaleCreationFailed)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestSaleService_NextIDIsUnique(t *testing.T) {
	svc := NewSaleService(nil, nil).(*saleServiceImpl)
	at := time.UnixMilli(1_700_000_000_000)

	first := svc.nextID(at)
	second := svc.nextID(at)

	assert.Equal(t, "sale1700000000000", first)
	assert.Equal(t, "sale1700000000001", second)
}
