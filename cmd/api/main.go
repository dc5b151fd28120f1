package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/kataras/golog"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/outreach-api/internal/app"
	"github.com/octobees/outreach-api/internal/auth"
	"github.com/octobees/outreach-api/internal/config"
	"github.com/octobees/outreach-api/internal/handler"
	"github.com/octobees/outreach-api/internal/logging"
	middlewarepkg "github.com/octobees/outreach-api/internal/middleware"
	"github.com/octobees/outreach-api/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		golog.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		golog.Fatalf("failed to build logger: %v", err)
	}

	services, err := app.New(context.Background(), cfg, logger, app.Options{WithDatabase: true})
	if err != nil {
		logger.Fatalf("failed to build services: %v", err)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warnf("closing services: %v", err)
		}
	}()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	handlers := router.Handlers{
		Emails:   handler.NewEmailsHandler(services.Resolver, services.Batch, services.PDL, services.DraftPolicy(), logger),
		Contacts: handler.NewContactsHandler(services.Recruiters, services.HiringManagers, services.Contacts, logger),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on :%s", cfg.Port)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("graceful shutdown failed: %v", err)
	}
}
