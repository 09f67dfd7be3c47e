package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ridloal/supermarket-management/internal/sale/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySaleRepository(t *testing.T) {
	ctx := context.TODO()
	now := time.Now()
	repo := NewMemorySaleRepository([]domain.Sale{
		{ID: "late", CreatedAt: now},
		{ID: "early", CreatedAt: now.Add(-time.Hour)},
	})

	t.Run("Seed is ordered oldest first", func(t *testing.T) {
		sales, err := repo.ListSales(ctx)
		require.NoError(t, err)
		assert.Equal(t, "early", sales[0].ID)
		assert.Equal(t, "late", sales[1].ID)
	})

	t.Run("Create and get", func(t *testing.T) {
		require.NoError(t, repo.CreateSale(ctx, &domain.Sale{ID: "new", CreatedAt: now.Add(time.Minute), TotalAmount: 13}))
		s, err := repo.GetSaleByID(ctx, "new")
		require.NoError(t, err)
		assert.Equal(t, 13.0, s.TotalAmount)

		sales, _ := repo.ListSales(ctx)
		assert.Equal(t, "new", sales[len(sales)-1].ID)
	})

	t.Run("Duplicate id", func(t *testing.T) {
		assert.ErrorIs(t, repo.CreateSale(ctx, &domain.Sale{ID: "new"}), ErrSaleConflict)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := repo.GetSaleByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrSaleNotFound)
	})
}
