package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"forecaster/internal/forecast"
	"forecaster/internal/models"
	"forecaster/internal/repositories"
	"forecaster/pkg/logger"
)

const dayLayout = "2006-01-02"

// Query identifies a dropped pin. Today is the caller's reference day in
// YYYY-MM-DD form; when empty the service clock decides.
type Query struct {
	Lat   float64
	Lon   float64
	Today string
}

// Outcome is the single value delivered by ForecastAsync.
type Outcome struct {
	Result models.ForecastResult
	Err    error
}

type Option func(*Service)

// WithCacheTTL enables the raw payload cache. A zero TTL disables it.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cache = NewCache[any](ttl)
		}
	}
}

// WithLocation sets the time zone used to derive today's day key.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service turns a coordinate into a daily forecast summary.
type Service struct {
	repo  repositories.ForecastRepository
	cache *Cache[any]
	l     *logger.Logger
	loc   *time.Location
	now   func() time.Time
}

func NewForecastService(repo repositories.ForecastRepository, l *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		l:    l,
		loc:  time.Local,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache != nil {
		s.cache.now = s.now
	}
	return s
}

// TodayKey is the current day in the service time zone.
func (s *Service) TodayKey() string {
	return s.now().In(s.loc).Format(dayLayout)
}

// Forecast fetches the forecast for q and summarizes it relative to q.Today.
func (s *Service) Forecast(ctx context.Context, q Query) (models.ForecastResult, error) {
	today := q.Today
	if today == "" {
		today = s.TodayKey()
	}

	doc, err := s.fetch(ctx, q.Lat, q.Lon)
	if err != nil {
		s.l.Error(err, map[string]any{
			"repo": s.repo.Name(),
			"lat":  q.Lat,
			"lon":  q.Lon,
		})
		return models.ForecastResult{}, errors.Wrapf(err, "fetch forecast from %s", s.repo.Name())
	}

	result := forecast.Summarize(doc, today)

	s.l.Info("forecast summarized", map[string]any{
		"lat":        q.Lat,
		"lon":        q.Lon,
		"today":      today,
		"hasCurrent": result.HasCurrentDay(),
		"otherDays":  len(result.OtherDays),
	})

	return result, nil
}

// ForecastAsync runs Forecast in the background. The returned channel yields
// exactly one Outcome and is then closed.
func (s *Service) ForecastAsync(ctx context.Context, q Query) <-chan Outcome {
	out := make(chan Outcome, 1)

	go func() {
		defer close(out)
		result, err := s.Forecast(ctx, q)
		out <- Outcome{Result: result, Err: err}
	}()

	return out
}

// Refresh fetches a fresh document for the coordinate, bypassing the cache.
func (s *Service) Refresh(ctx context.Context, lat, lon float64) error {
	doc, err := s.repo.FetchForecast(ctx, lat, lon)
	if err != nil {
		return errors.Wrapf(err, "refresh forecast %s", cacheKey(lat, lon))
	}

	if s.cache != nil {
		s.cache.Set(cacheKey(lat, lon), doc)
		s.cache.Purge()
	}

	return nil
}

func (s *Service) fetch(ctx context.Context, lat, lon float64) (any, error) {
	key := cacheKey(lat, lon)

	if s.cache != nil {
		if doc, ok := s.cache.Get(key); ok {
			s.l.Debug("forecast cache hit", map[string]any{"key": key})
			return doc, nil
		}
	}

	doc, err := s.repo.FetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, doc)
	}

	return doc, nil
}

// cacheKey rounds to roughly a kilometre so nearby pins share a payload.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}
