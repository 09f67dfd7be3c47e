// Package latency simulates the delay of a network round trip for the mock backend.
package latency

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Simulator sleeps for a random duration in [Min, Max] before a call completes.
type Simulator struct {
	min, max time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func New(min, max time.Duration) *Simulator {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return &Simulator{
		min: min,
		max: max,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// None returns a simulator that never waits.
func None() *Simulator {
	return New(0, 0)
}

// Next picks the next delay.
func (s *Simulator) Next() time.Duration {
	if s.max == s.min {
		return s.min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.min + time.Duration(s.rnd.Int63n(int64(s.max-s.min)+1))
}

// Wait blocks for the next delay or until ctx is done.
func (s *Simulator) Wait(ctx context.Context) error {
	return Sleep(ctx, s.Next())
}

// Sleep blocks for d, returning ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
