package domain

type ForecastPoint struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Quantity int    `json:"quantity"`
}

type ProductForecast struct {
	ProductID           string          `json:"productId"`
	ProductName         string          `json:"productName"`
	CurrentStock        int             `json:"currentStock"`
	ReorderLevel        int             `json:"reorderLevel"`
	PredictedSales      []ForecastPoint `json:"predictedSales"`
	RecommendedPurchase int             `json:"recommendedPurchase"`
}

// PredictedTotal is the number of units expected to sell over the forecast horizon.
func (f ProductForecast) PredictedTotal() int {
	n := 0
	for _, p := range f.PredictedSales {
		n += p.Quantity
	}
	return n
}

// NeedsRestock mirrors the insights view: at or below the reorder level.
func (f ProductForecast) NeedsRestock() bool {
	return f.CurrentStock <= f.ReorderLevel
}
