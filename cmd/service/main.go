package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/migcruzz/Ipma-Expert/internal/chat"
	"github.com/migcruzz/Ipma-Expert/internal/config"
	httphandler "github.com/migcruzz/Ipma-Expert/internal/http"
	"github.com/migcruzz/Ipma-Expert/internal/ipma"
	"github.com/migcruzz/Ipma-Expert/internal/narrative"
	"github.com/migcruzz/Ipma-Expert/internal/observability"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ipmaClient, err := ipma.NewClient(cfg.IPMABaseURL, cfg.IPMATimeout)
	if err != nil {
		logger.Fatal("ipma client", zap.Error(err))
	}

	narrator, err := narrative.NewGenerator(cfg.NarrativeURL, cfg.NarrativeModel, cfg.NarrativeTimeout)
	if err != nil {
		logger.Fatal("narrative generator", zap.Error(err))
	}

	chatService := chat.NewService(ipmaClient, narrator, logger, cfg.AllLocationsWorkers)
	handler := httphandler.NewHandler(chatService, logger, cfg.MessageMaxLength, ipmaClient.Ping)

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	chatRouter := router.PathPrefix("/chat").Subrouter()
	chatRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	chatRouter.HandleFunc("", handler.PostChat).Methods("POST")

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	handler.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	logger.Info("shutdown complete")
}
