package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forecaster/config"
	v1 "forecaster/internal/controllers/http/v1"
	"forecaster/internal/repositories"
	"forecaster/internal/scheduler"
	"forecaster/internal/services/forecast"
	"forecaster/pkg/httpserver"
	"forecaster/pkg/logger"
	"forecaster/pkg/observe"
)

// @title Forecaster API
// @version 1.0.0
// @description Daily forecast summaries for a dropped pin, aggregated from the OpenWeatherMap 5 day / 3 hour forecast.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Forecast
// @tag.description Daily forecast operations
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cnf, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	hook := observe.NewSentryHook(cnf.App.Env, cnf.App.Name, 0, cnf.Sentry.Debug, cnf.Sentry.DSN)

	l := logger.NewZapLogger(cnf.App.Name, cnf.App.Env, os.Stdout, hook)
	if err := l.SetLevel(cnf.Log.Level); err != nil {
		l.Warning("invalid log level, keeping debug", map[string]any{"level": cnf.Log.Level})
	}
	hook.SetLogger(l)

	repo, err := repositories.InitForecastRepository(cnf, l)
	if err != nil {
		l.Fatal("cannot init forecast repository", map[string]any{"err": err.Error()})
	}

	service := forecast.NewForecastService(repo, l,
		forecast.WithCacheTTL(cnf.Cache.TTL),
		forecast.WithLocation(cnf.Location()),
	)

	sched := scheduler.New(cnf.Scheduler.Pins, cnf.Scheduler.RefreshInterval, service, l)
	if err := sched.Start(ctx); err != nil {
		l.Fatal("cannot start scheduler", map[string]any{"err": err.Error()})
	}

	app := httpserver.InitFiberServer(cnf.App.Name, cnf.Server)

	v1.NewRouter(
		app,
		service,
		l,
		cnf.OpenWeather.Timeout,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err.Error()})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":    cnf.Server.Port,
		"version": cnf.App.Version,
		"pins":    len(cnf.Scheduler.Pins),
	})

	<-ctx.Done()
	stop()
	l.Warning("stopping application services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	sched.Stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		l.Error(err)
	}
	hook.Flush()
	_ = l.Stop()
}
