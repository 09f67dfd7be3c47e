package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/ridloal/supermarket-management/internal/forecast/domain"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	productRepo "github.com/ridloal/supermarket-management/internal/product/repository"
	saleRepo "github.com/ridloal/supermarket-management/internal/sale/repository"
)

var ErrForecastNotFound = errors.New("forecast not found")

const dateLayout = "2006-01-02"

type ForecastService interface {
	ProductForecasts(ctx context.Context) ([]domain.ProductForecast, error)
	ProductForecast(ctx context.Context, productID string) (*domain.ProductForecast, error)
	// Refresh recomputes every forecast from the current stock and sales history.
	Refresh(ctx context.Context) error
	// Invalidate marks the cache stale; the next read recomputes.
	Invalidate()
}

type Options struct {
	WindowDays  int
	HorizonDays int
}

type forecastService struct {
	products productRepo.ProductRepository
	sales    saleRepo.SaleRepository
	opts     Options
	now      func() time.Time

	mu        sync.RWMutex
	forecasts []domain.ProductForecast
	index     map[string]int
	fresh     bool
	// gen counts invalidations; built is the gen the cached forecasts were computed at.
	gen   uint64
	built uint64
}

func NewForecastService(products productRepo.ProductRepository, sales saleRepo.SaleRepository, opts Options) ForecastService {
	if opts.WindowDays < 1 {
		opts.WindowDays = 28
	}
	if opts.HorizonDays < 1 {
		opts.HorizonDays = 7
	}
	return &forecastService{
		products: products,
		sales:    sales,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *forecastService) ProductForecasts(ctx context.Context) ([]domain.ProductForecast, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ProductForecast(nil), s.forecasts...), nil
}

func (s *forecastService) ProductForecast(ctx context.Context, productID string) (*domain.ProductForecast, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[productID]
	if !ok {
		return nil, ErrForecastNotFound
	}
	f := s.forecasts[i]
	return &f, nil
}

func (s *forecastService) Invalidate() {
	s.mu.Lock()
	s.gen++
	s.fresh = false
	s.mu.Unlock()
}

func (s *forecastService) ensureFresh(ctx context.Context) error {
	s.mu.RLock()
	fresh := s.fresh
	s.mu.RUnlock()
	if fresh {
		return nil
	}
	return s.Refresh(ctx)
}

func (s *forecastService) Refresh(ctx context.Context) error {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return err
	}
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	since := now.AddDate(0, 0, -s.opts.WindowDays)
	sold := map[string]int{}
	for _, sale := range sales {
		if sale.CreatedAt.Before(since) || sale.CreatedAt.After(now) {
			continue
		}
		for _, it := range sale.Items {
			sold[it.ProductID] += it.Quantity
		}
	}

	forecasts := make([]domain.ProductForecast, 0, len(products))
	index := make(map[string]int, len(products))
	for _, p := range products {
		daily := float64(sold[p.ID]) / float64(s.opts.WindowDays)
		f := domain.ProductForecast{
			ProductID:      p.ID,
			ProductName:    p.Name,
			CurrentStock:   p.Stock,
			ReorderLevel:   p.ReorderLevel,
			PredictedSales: project(daily, now, s.opts.HorizonDays),
		}
		f.RecommendedPurchase = max(0, f.PredictedTotal()+p.ReorderLevel-p.Stock)
		index[p.ID] = len(forecasts)
		forecasts = append(forecasts, f)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forecasts != nil && gen < s.built {
		// a later refresh already stored newer data
		return nil
	}
	s.forecasts, s.index, s.built = forecasts, index, gen
	// an invalidation during the computation keeps the cache stale
	s.fresh = gen == s.gen
	logger.Debug("Forecasts refreshed for %d products from %d sales", len(forecasts), len(sales))
	return nil
}

// project spreads the daily rate over the horizon starting tomorrow. Each point is the
// difference of rounded cumulative totals so the points sum to round(daily*horizon).
func project(daily float64, now time.Time, horizon int) []domain.ForecastPoint {
	points := make([]domain.ForecastPoint, horizon)
	prev := 0
	for i := 0; i < horizon; i++ {
		cum := int(math.Round(daily * float64(i+1)))
		points[i] = domain.ForecastPoint{
			Date:     now.AddDate(0, 0, i+1).Format(dateLayout),
			Quantity: cum - prev,
		}
		prev = cum
	}
	return points
}
