package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"forecaster/config"
	"forecaster/pkg/logger"
)

var (
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	ErrCircuitOpen = errors.New("circuit breaker open")
	ErrRateLimited = errors.New("rate limit wait canceled")
)

// StatusError is returned when the provider answers with a non-200 status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error (status %d): %s", e.Code, e.Status)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ForecastRepository fetches the raw forecast document for a coordinate.
type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64) (any, error)
}

func InitForecastRepository(cfg *config.Config, l *logger.Logger) (ForecastRepository, error) {
	client := &http.Client{Timeout: cfg.OpenWeather.Timeout}

	return NewOpenWeatherMapRepository(cfg.OpenWeather, l, client)
}
