package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"workload-board/api"
	"workload-board/backend"
	"workload-board/board"
	"workload-board/config"
	"workload-board/logging"
	"workload-board/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(logging.Options{Debug: cfg.Debug, Format: cfg.LogFormat, File: cfg.LogFile})

	be, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	defer func() {
		if cerr := be.Close(); cerr != nil {
			logger.WithError(cerr).Warn("close storage")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := board.Open(ctx, storage.NewSnapshots(be.KV), logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Decompress())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(echoprometheus.NewMiddleware("workload_board"))
	e.GET("/metrics", echoprometheus.NewHandler())

	api.Register(e, store, be.Deduper, logger)

	listenAddr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		if err := e.Start(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}
