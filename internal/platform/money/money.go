// Package money does currency arithmetic in decimal and hands back 2-place float64 amounts.
package money

import "github.com/shopspring/decimal"

// LineTotal returns price x quantity rounded to cents.
func LineTotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}

// Sum adds amounts without accumulating float error.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}

func Round(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}
