package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"forecaster/internal/models"
	"forecaster/internal/repositories"
	"forecaster/internal/services/forecast"
)

// ForecastResponse represents the daily forecast summary
type ForecastResponse struct {
	LocationName *string      `json:"location_name" example:"Minsk"`
	CountryCode  *string      `json:"country_code" example:"BY"`
	CurrentDay   *DaySummary  `json:"current_day"`
	OtherDays    []DaySummary `json:"other_days"`
}

// DaySummary represents one day of the forecast
type DaySummary struct {
	Day         string  `json:"day" example:"2020-02-19"`
	Temperature float64 `json:"temperature" example:"11.2"`
	FeelsLike   float64 `json:"feels_like" example:"9.8"`
	Condition   string  `json:"condition" example:"light rain"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
}

type forecastQuery struct {
	Lat   float64 `validate:"gte=-90,lte=90"`
	Lon   float64 `validate:"gte=-180,lte=180"`
	Today string  `validate:"omitempty,datetime=2006-01-02"`
}

// GetForecast godoc
// @Summary Get daily forecast summary
// @Description Fetches the forecast for a coordinate and collapses it into one summary per day
// @Tags Forecast
// @Accept json
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(53.9)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(27.56)
// @Param today query string false "Reference day (YYYY-MM-DD), defaults to the server's today" example(2020-02-19)
// @Success 200 {object} ForecastResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Failure 502 {object} ErrorResponse "Forecast provider unavailable"
// @Failure 503 {object} ErrorResponse "Provider request quota exhausted"
// @Failure 504 {object} ErrorResponse "Forecast provider timed out"
// @Router /forecast [get]
func (r *routes) handleForecastCall(c *fiber.Ctx) error {
	lat := c.Query("lat")
	lon := c.Query("lon")

	if lat == "" {
		return badRequest(c, "Missing required parameter: lat")
	}

	if lon == "" {
		return badRequest(c, "Missing required parameter: lon")
	}

	latFloat, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return badRequest(c, "Invalid latitude format")
	}

	lonFloat, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return badRequest(c, "Invalid longitude format")
	}

	q := forecastQuery{
		Lat:   latFloat,
		Lon:   lonFloat,
		Today: c.Query("today"),
	}
	if err := r.validate.Struct(q); err != nil {
		r.l.Warning("invalid forecast query", map[string]any{
			"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
			"err":       err.Error(),
		})
		return badRequest(c, validationMessage(err))
	}

	ctx := c.UserContext()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	result, err := r.service.Forecast(ctx, forecast.Query{
		Lat:   q.Lat,
		Lon:   q.Lon,
		Today: q.Today,
	})
	if err != nil {
		var statusErr *repositories.StatusError
		switch {
		case errors.As(err, &statusErr) || errors.Is(err, repositories.ErrCircuitOpen):
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Error: "Forecast provider unavailable",
			})
		case errors.Is(err, repositories.ErrRateLimited):
			return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
				Error: "Too many forecast requests, try again later",
			})
		case errors.Is(err, context.DeadlineExceeded):
			return c.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse{
				Error: "Forecast provider timed out",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to fetch forecast data",
		})
	}

	return c.JSON(toResponse(result))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid parameters"
	}

	switch verrs[0].Field() {
	case "Lat":
		return "Latitude must be between -90 and 90"
	case "Lon":
		return "Longitude must be between -180 and 180"
	case "Today":
		return "Parameter today must be formatted as YYYY-MM-DD"
	}
	return "Invalid parameters"
}

// Convert the forecast to the documented response format
func toResponse(result models.ForecastResult) ForecastResponse {
	response := ForecastResponse{
		LocationName: result.LocationName,
		CountryCode:  result.CountryCode,
		OtherDays:    make([]DaySummary, len(result.OtherDays)),
	}

	if result.CurrentDay != nil {
		current := toDaySummary(*result.CurrentDay)
		response.CurrentDay = &current
	}

	for i, day := range result.OtherDays {
		response.OtherDays[i] = toDaySummary(day)
	}

	return response
}

func toDaySummary(day models.DailyWeatherSummary) DaySummary {
	return DaySummary{
		Day:         day.DayKey,
		Temperature: day.Temperature,
		FeelsLike:   day.FeelsLikeTemperature,
		Condition:   day.ConditionDescription,
	}
}
