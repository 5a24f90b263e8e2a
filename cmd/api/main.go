package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/brandsync/brandsync/internal/bootstrap"
	"github.com/brandsync/brandsync/internal/controller"
	"github.com/brandsync/brandsync/internal/gateway"
	"github.com/brandsync/brandsync/internal/repository/postgres"
	"github.com/brandsync/brandsync/internal/service"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "brandsync-api", "brandsync")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	taskRepo := postgres.NewTaskRepository(app.Pool)
	applicationRepo := postgres.NewApplicationRepository(app.Pool)
	profileRepo := postgres.NewProfileRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	idempotencyRepo := postgres.NewIdempotencyRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- Services ---
	rateCard := app.Config.Pricing.RateCard()
	gatewayCfg := app.Config.Gateway.Gateway()
	gatewayClient := gateway.NewClient(gatewayCfg, app.Logger)

	taskService := service.NewTaskService(taskRepo, rateCard, app.Metrics)
	paymentService := service.NewPaymentService(
		taskRepo, profileRepo, outboxRepo, txManager,
		gatewayCfg, gatewayClient, app.Metrics, app.Logger,
	)
	applicationService := service.NewApplicationService(
		applicationRepo, taskRepo, outboxRepo, txManager, rateCard,
	)
	profileService := service.NewProfileService(profileRepo, txManager)
	payoutService := service.NewPayoutService(
		applicationRepo, profileRepo, txManager, app.Metrics, app.Logger,
	)

	// --- Router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:               app.Pool,
		RedisClient:        app.Redis,
		TaskService:        taskService,
		PaymentService:     paymentService,
		ApplicationService: applicationService,
		ProfileService:     profileService,
		PayoutService:      payoutService,
		IdempotencyRepo:    idempotencyRepo,
		Metrics:            app.Metrics,
		CORSConfig:         app.Config.Server.CORS,
		JWTSecret:          app.Config.Auth.JWTSecret,
		RateLimitPerMin:    app.Config.Server.RateLimitPerMin,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
