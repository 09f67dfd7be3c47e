package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_StockStatus(t *testing.T) {
	assert.Equal(t, StockOutOfStock, Product{Stock: 0, ReorderLevel: 5}.StockStatus())
	assert.Equal(t, StockLow, Product{Stock: 5, ReorderLevel: 5}.StockStatus())
	assert.Equal(t, StockOK, Product{Stock: 6, ReorderLevel: 5}.StockStatus())
}

func TestProductInput_Validate(t *testing.T) {
	valid := ProductInput{Name: "Whole Milk", Price: 1.99, Stock: 10, ReorderLevel: 3}
	assert.NoError(t, valid.Validate())

	cases := map[string]ProductInput{
		"blank name":       {Name: "  "},
		"negative price":   {Name: "x", Price: -1},
		"negative stock":   {Name: "x", Stock: -1},
		"negative reorder": {Name: "x", ReorderLevel: -2},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, in.Validate(), ErrInvalidProduct)
		})
	}
}

func TestProductInput_Apply(t *testing.T) {
	p := Product{ID: "7"}
	ProductInput{Name: " Bread ", Category: "Bakery", Price: 2.5, Stock: 4, ReorderLevel: 1, Supplier: "Baker Co"}.Apply(&p)

	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "Bread", p.Name)
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, "Baker Co", p.Supplier)
	assert.Equal(t, 2.5, p.Price)

	ProductInput{Name: "Cheese", Price: 4.996}.Apply(&p)
	assert.Equal(t, 5.0, p.Price)
}
