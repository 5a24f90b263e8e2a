package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brandsync/brandsync/internal/bootstrap"
	"github.com/brandsync/brandsync/internal/domain/outbox"
	infraRedis "github.com/brandsync/brandsync/internal/infrastructure/redis"
	"github.com/brandsync/brandsync/internal/repository/postgres"
	"github.com/brandsync/brandsync/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "brandsync-worker", "brandsync_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories and services ---
	applicationRepo := postgres.NewApplicationRepository(app.Pool)
	profileRepo := postgres.NewProfileRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)
	streamProducer := infraRedis.NewStreamProducer(app.Redis)

	payoutService := service.NewPayoutService(
		applicationRepo, profileRepo, txManager, app.Metrics, app.Logger,
	)

	// --- Payout stream consumer ---
	workerCfg := app.Config.Worker
	consumer := infraRedis.NewStreamConsumer(
		app.Redis,
		infraRedis.PayoutStream,
		workerCfg.ConsumerGroup,
		app.Config.InstanceID,
		workerCfg.BatchSize,
		workerCfg.BlockDuration,
	)
	if err := consumer.CreateGroup(ctx); err != nil {
		app.Logger.Error().Err(err).Msg("Failed to create consumer group (may already exist)")
	}

	app.Logger.Info().
		Str("stream", infraRedis.PayoutStream).
		Str("group", workerCfg.ConsumerGroup).
		Str("consumer", app.Config.InstanceID).
		Msg("Worker started, listening for messages...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Payout processor (reads from Redis Streams).
	g.Go(func() error {
		return runPayoutProcessor(gCtx, app, consumer, streamProducer, payoutService)
	})

	// 2. Outbox processor (polls the outbox table and publishes to streams).
	g.Go(func() error {
		return runOutboxProcessor(gCtx, app.Logger, txManager, outboxRepo, streamProducer, workerCfg.OutboxPollInterval)
	})

	// 3. Wait for shutdown signal.
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

func runPayoutProcessor(
	ctx context.Context,
	app *bootstrap.App,
	consumer *infraRedis.StreamConsumer,
	producer *infraRedis.StreamProducer,
	payoutService *service.PayoutService,
) error {
	logger := app.Logger
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := consumer.Read(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read from stream")
			time.Sleep(1 * time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				applicationIDStr, _ := msg.Values["aggregate_id"].(string)
				applicationID, err := uuid.Parse(applicationIDStr)
				if err != nil {
					logger.Error().Str("raw", applicationIDStr).Msg("Invalid application ID in stream message")
					consumer.Ack(ctx, msg.ID)
					continue
				}

				// One releaser per application at a time; a second worker
				// instance skips and the message is redelivered later.
				lock := infraRedis.NewDistributedLock(app.Redis, "payout:"+applicationID.String(), app.Config.Worker.PayoutLockTTL)
				acquired, err := lock.Acquire(ctx)
				if err != nil || !acquired {
					logger.Warn().Str("application_id", applicationID.String()).Msg("Could not acquire lock, skipping")
					continue
				}

				logger.Info().Str("application_id", applicationID.String()).Msg("Processing payout")
				start := time.Now()

				if err := payoutService.ProcessPayout(ctx, applicationID); err != nil {
					logger.Error().Err(err).Str("application_id", applicationID.String()).Msg("Failed to process payout")
					app.Metrics.WorkerMessagesProcessed.WithLabelValues(infraRedis.PayoutStream, "error").Inc()
					// ProcessPayout is idempotent, so parking the event for a
					// manual retry is safe.
					if dlqErr := producer.PublishToDLQ(ctx, applicationID.String(), err.Error(), msg.Values); dlqErr != nil {
						logger.Error().Err(dlqErr).Msg("Failed to publish to DLQ")
					}
				} else {
					app.Metrics.WorkerMessagesProcessed.WithLabelValues(infraRedis.PayoutStream, "success").Inc()
				}
				app.Metrics.WorkerProcessingDuration.WithLabelValues(infraRedis.PayoutStream).Observe(time.Since(start).Seconds())

				lock.Release(ctx)
				consumer.Ack(ctx, msg.ID)
			}
		}
	}
}

// streamFor routes outbox events to their stream.
func streamFor(eventType string) string {
	if eventType == outbox.EventPayoutApproved {
		return infraRedis.PayoutStream
	}
	return infraRedis.TaskEventStream
}

func runOutboxProcessor(
	ctx context.Context,
	logger zerolog.Logger,
	txManager *postgres.TxManager,
	outboxRepo *postgres.OutboxRepository,
	streamProducer *infraRedis.StreamProducer,
	pollInterval time.Duration,
) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			entries, err := outboxRepo.GetPending(txCtx, 10)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if err := streamProducer.Publish(
					ctx, streamFor(entry.EventType), entry.AggregateID.String(), entry.EventType, entry.Payload,
				); err != nil {
					logger.Error().Err(err).Str("outbox_id", entry.ID.String()).Msg("Failed to publish outbox event")
					if markErr := outboxRepo.MarkFailed(txCtx, entry.ID); markErr != nil {
						logger.Error().Err(markErr).Str("outbox_id", entry.ID.String()).Msg("Failed to mark outbox event failed")
					}
					continue
				}
				if markErr := outboxRepo.MarkPublished(txCtx, entry.ID); markErr != nil {
					logger.Error().Err(markErr).Str("outbox_id", entry.ID.String()).Msg("Failed to mark outbox event published")
				}
			}
			return nil
		})
		if err != nil {
			logger.Error().Err(err).Msg("Outbox processor error")
		}
	}
}
