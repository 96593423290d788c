package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"forecaster/config"
	"forecaster/pkg/logger"
)

const (
	defaultInterval = 15 * time.Minute
	pinTimeout      = 30 * time.Second
)

// Refresher reloads the forecast for a coordinate.
type Refresher interface {
	Refresh(ctx context.Context, lat, lon float64) error
}

// Scheduler keeps the forecasts of pinned locations warm.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	pins      []config.PinConfig
	interval  time.Duration
	l         *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(pins []config.PinConfig, interval time.Duration, refresher Refresher, l *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		pins:      pins,
		interval:  interval,
		l:         l,
	}
}

// Start schedules the refresh job; the first run happens immediately.
// Refreshes run under ctx and are cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if len(s.pins) == 0 {
		s.l.Info("scheduler: no pins configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		s.RunOnce(s.ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.l.Info("scheduler started", map[string]any{
		"pins":     len(s.pins),
		"interval": s.interval.String(),
	})
	return nil
}

// RunOnce refreshes every pin concurrently and returns the number of failures.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)

	for _, pin := range s.pins {
		wg.Add(1)
		go func(pin config.PinConfig) {
			defer wg.Done()

			pinCtx, cancel := context.WithTimeout(ctx, pinTimeout)
			defer cancel()

			if err := s.refresher.Refresh(pinCtx, pin.Lat, pin.Lon); err != nil {
				s.l.Warning("scheduler: refresh failed", map[string]any{
					"pin": pin.Name,
					"err": err.Error(),
				})
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}

			s.l.Debug("scheduler: pin refreshed", map[string]any{"pin": pin.Name})
		}(pin)
	}

	wg.Wait()
	return failures
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
