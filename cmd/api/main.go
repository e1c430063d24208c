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

	"brokerage_portal_backend/internal/adapters"
	"brokerage_portal_backend/internal/adapters/storage"
	"brokerage_portal_backend/internal/bookings"
	"brokerage_portal_backend/internal/bookings/maintenance"
	"brokerage_portal_backend/internal/bookings/repository"
	"brokerage_portal_backend/internal/catalog"
	"brokerage_portal_backend/internal/email"
	"brokerage_portal_backend/internal/events"
	apphttp "brokerage_portal_backend/internal/http"
	"brokerage_portal_backend/internal/http/router"
	"brokerage_portal_backend/internal/notification"
	"brokerage_portal_backend/internal/notification/inapp"
	"brokerage_portal_backend/internal/registration"
	"brokerage_portal_backend/internal/scheduler"
	"brokerage_portal_backend/platform/config"
	"brokerage_portal_backend/platform/db"
	"brokerage_portal_backend/platform/lock"
	"brokerage_portal_backend/platform/logger"
	"brokerage_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	lockTTL         = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.BookingsStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var (
		store  repository.Store = repository.NewMemoryStore()
		feed   inapp.Store      = inapp.NewMemoryRepository(0)
		health apphttp.HealthChecker
	)
	if cfg.BookingsStore == config.StorePostgres {
		pool := connectDatabase(ctx, cfg, log)
		defer pool.Close()
		store = repository.NewPostgresStore(pool)
		feed = inapp.NewPostgresRepository(pool)
		health = db.NewPoolAdapter(pool)
	}

	// Per-booking locks span replicas when Redis is available.
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.GetRedisURL() != "" {
		redisClient, err := scheduler.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			panic("failed to initialize redis client: " + err.Error())
		}
		defer func() { _ = redisClient.Close() }()
		locker = lock.NewRedisLocker(redisClient, "bookings:lock:", lockTTL)
		log.Info("redis booking locks enabled")
	}
	// The scheduler process owns the sweep only when it can reach the same store.
	inProcessSweep := !cfg.ScheduledColdSweep()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure booking documents bucket", 5, 2*time.Second, func() error {
			return minioSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketBookingDocuments())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		storageSvc = minioSvc
		log.Info("storage service initialized", "bookingDocumentsBucket", cfg.GetMinioBucketBookingDocuments())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; booking document uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events
	notificationModule := notification.New(email.NewSender(cfg), cfg, log, notification.WithFeed(feed))
	notificationModule.RegisterHandlers(eventBus)

	catalogModule, err := catalog.NewModule(cfg, val)
	if err != nil {
		log.Error("failed to load property catalog", "error", err)
		panic("failed to load property catalog: " + err.Error())
	}

	bookingsModule := bookings.NewModule(
		store,
		locker,
		adapters.NewCatalogPropertyReader(catalogModule.Repository()),
		adapters.NewAuthActorProvider(),
		eventBus,
		storageSvc,
		cfg.GetMinioBucketBookingDocuments(),
		val,
		cfg,
		log,
		time.Now,
	)

	registrationModule := registration.NewModule()

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			bookingsModule,
			registrationModule,
			notificationModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if inProcessSweep {
		sweeper := maintenance.NewColdSweeper(store, bookingsModule.Service(), cfg.GetColdAfter(), log)
		g.Go(func() error {
			sweeper.Run(gctx, cfg.GetColdSweepInterval())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	eventBus.Wait()
	log.Info("server stopped")
}

func connectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
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
	log.Info("database connection established")

	if err := db.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")
	return pool
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
