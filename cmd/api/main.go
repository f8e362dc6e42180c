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

	"shopline-api/internal/config"
	"shopline-api/internal/database"
	"shopline-api/internal/infrastructure/payment"
	"shopline-api/internal/logging"
	"shopline-api/internal/repo"
	"shopline-api/internal/server"
	"shopline-api/internal/service"
	"shopline-api/internal/worker"
)

func main() {
	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	orderRepo := repo.NewOrderRepo(db)
	paymentRepo := repo.NewPaymentRepo(db)
	productRepo := repo.NewProductRepo(db)
	warehouseRepo := repo.NewWarehouseRepo(db)
	reviewRepo := repo.NewReviewRepo(db)
	returnRepo := repo.NewReturnRequestRepo(db)

	gateway := payment.NewSimulator(cfg.Gateway.TimeoutRate)
	enricher := service.NewEnricher(reviewRepo, returnRepo)

	orderService := service.NewOrderService(db, log, orderRepo, paymentRepo, productRepo, warehouseRepo, gateway, enricher)
	reviewService := service.NewReviewService(db, log, orderRepo, paymentRepo, reviewRepo)
	returnService := service.NewReturnRequestService(db, log, orderRepo, paymentRepo, returnRepo)
	warehouseService := service.NewWarehouseService(db, log, warehouseRepo)

	reconciler := worker.NewReconciliationWorker(db, log, paymentRepo, gateway, cfg.Worker.Interval, cfg.Worker.PendingAge)
	go reconciler.Run(ctx)

	srv := server.New(log, db, orderService, reviewService, returnService, warehouseService)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: srv.Router(cfg.HTTP.AllowOrigins),
	}

	go func() {
		log.Info("http server listening", "port", cfg.HTTP.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
