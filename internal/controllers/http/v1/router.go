package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"forecaster/docs"
	"forecaster/internal/services/forecast"
	"forecaster/pkg/logger"
)

type routes struct {
	service  *forecast.Service
	validate *validator.Validate
	l        *logger.Logger
	timeout  time.Duration
}

func NewRouter(
	app *fiber.App,
	forecastService *forecast.Service,
	l *logger.Logger,
	requestTimeout time.Duration,
) {
	r := &routes{
		service:  forecastService,
		validate: validator.New(),
		l:        l,
		timeout:  requestTimeout,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(docs.SwaggerJSON)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// API routes
	app.Get("/forecast", r.handleForecastCall)
}
