package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"forecaster/config"
	"forecaster/internal/forecast"
	"forecaster/pkg/logger"
)

const (
	OpenWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5/forecast"

	breakerConsecutiveFailures = 5
)

type OpenWeatherMapRepository struct {
	BaseURL    string
	APIKey     string
	Units      string
	httpClient HTTPClient
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	l          *logger.Logger
}

func NewOpenWeatherMapRepository(cfg config.OpenWeatherConfig, l *logger.Logger, httpClient HTTPClient) (*OpenWeatherMapRepository, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrEmptyAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = OpenWeatherMapBaseURL
	}
	units := cfg.Units
	if units == "" {
		units = "metric"
	}

	r := &OpenWeatherMapRepository{
		BaseURL:    baseURL,
		APIKey:     cfg.APIKey,
		Units:      units,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		l:          l,
	}

	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        r.Name(),
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.Code < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warning("circuit breaker state changed", map[string]any{
				"repo": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	})

	return r, nil
}

func (o *OpenWeatherMapRepository) Name() string {
	return "openweathermap"
}

// FetchForecast requests the 5 day / 3 hour forecast and returns the decoded
// document untouched.
func (o *OpenWeatherMapRepository) FetchForecast(ctx context.Context, lat, lon float64) (any, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, ErrEmptyAPIKey
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	o.l.Info("making openweathermap API request", map[string]any{
		"lat":   lat,
		"lon":   lon,
		"units": o.Units,
	})

	result, err := o.breaker.Execute(func() (interface{}, error) {
		return o.do(ctx, lat, lon)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T from circuit breaker", result)
	}

	doc, err := forecast.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return doc, nil
}

func (o *OpenWeatherMapRepository) do(ctx context.Context, lat, lon float64) ([]byte, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", o.Units)
	params.Set("appid", o.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	o.l.Info("received openweathermap API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return body, nil
}
