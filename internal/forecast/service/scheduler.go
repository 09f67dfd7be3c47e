package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Second

// Scheduler refreshes forecasts in the background on a cron spec with a seconds field.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

func NewScheduler(spec string, svc ForecastService) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := svc.Refresh(ctx); err != nil {
			logger.Error("Scheduler: forecast refresh failed", err)
			return
		}
		logger.Debug("Scheduler: forecasts refreshed")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid forecast cron spec %q: %w", spec, err)
	}
	return &Scheduler{cron: c, spec: spec}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Forecast scheduler started with spec '%s'", s.spec)
}

// Stop prevents new runs and waits for a running refresh or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("Forecast scheduler stop timed out")
	}
}
