package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brokerage_portal_backend/internal/adapters"
	"brokerage_portal_backend/internal/bookings/maintenance"
	"brokerage_portal_backend/internal/bookings/management"
	"brokerage_portal_backend/internal/bookings/repository"
	"brokerage_portal_backend/internal/catalog"
	"brokerage_portal_backend/internal/email"
	"brokerage_portal_backend/internal/events"
	"brokerage_portal_backend/internal/notification"
	"brokerage_portal_backend/internal/notification/inapp"
	"brokerage_portal_backend/internal/scheduler"
	"brokerage_portal_backend/platform/config"
	"brokerage_portal_backend/platform/db"
	"brokerage_portal_backend/platform/lock"
	"brokerage_portal_backend/platform/logger"
	"brokerage_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const lockTTL = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if cfg.BookingsStore != config.StorePostgres {
		panic("scheduler requires BOOKINGS_STORE=postgres; the memory store is private to the api process")
	}
	if cfg.GetRedisURL() == "" {
		panic("scheduler requires REDIS_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	redisClient, err := scheduler.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	eventBus := events.NewInMemoryBus(log)

	// Alerts land in the table the api lists from.
	notificationModule := notification.New(email.NewSender(cfg), cfg, log,
		notification.WithFeed(inapp.NewPostgresRepository(pool)))
	notificationModule.RegisterHandlers(eventBus)

	val := validator.New()
	catalogModule, err := catalog.NewModule(cfg, val)
	if err != nil {
		log.Error("failed to load property catalog", "error", err)
		panic("failed to load property catalog: " + err.Error())
	}

	store := repository.NewPostgresStore(pool)
	bookingService := management.New(
		store,
		lock.NewRedisLocker(redisClient, "bookings:lock:", lockTTL),
		adapters.NewCatalogPropertyReader(catalogModule.Repository()),
		adapters.NewAuthActorProvider(),
		eventBus,
		management.WithLogger(log),
		management.WithValidator(val),
	)
	sweeper := maintenance.NewColdSweeper(store, bookingService, cfg.GetColdAfter(), log)

	worker, err := scheduler.NewWorker(cfg, sweeper, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()
	if err := scheduler.EnqueueStartupSweep(ctx, client); err != nil {
		log.Warn("failed to enqueue startup cold sweep", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		periodic.Run(gctx)
		return nil
	})
	_ = g.Wait()

	eventBus.Wait()
	log.Info("scheduler stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
