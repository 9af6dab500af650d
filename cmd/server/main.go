package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/sequence"
	"github.com/quotedesk/backend/internal/infrastructure/auth"
	"github.com/quotedesk/backend/internal/infrastructure/cache"
	"github.com/quotedesk/backend/internal/infrastructure/config"
	"github.com/quotedesk/backend/internal/infrastructure/event"
	"github.com/quotedesk/backend/internal/infrastructure/logger"
	"github.com/quotedesk/backend/internal/infrastructure/notification"
	"github.com/quotedesk/backend/internal/infrastructure/persistence"
	"github.com/quotedesk/backend/internal/infrastructure/telemetry"
	"github.com/quotedesk/backend/internal/interfaces/http/handler"
	"github.com/quotedesk/backend/internal/interfaces/http/middleware"
	"github.com/quotedesk/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting quotedesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	noteRepo := persistence.NewGormSalesNoteRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	sequenceStore := persistence.NewGormSequenceStore(db.DB)
	receivableReader := persistence.NewGormReceivableReader(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	defaultTax := decimal.Zero
	if cfg.Quote.DefaultTaxPercent != "" {
		defaultTax, err = decimal.NewFromString(cfg.Quote.DefaultTaxPercent)
		if err != nil {
			log.Fatal("Invalid default tax percent", zap.String("value", cfg.Quote.DefaultTaxPercent), zap.Error(err))
		}
	}
	policy := sequencePolicy(cfg.Sequence)
	opts := sales.Options{
		Policy:                  policy,
		SalesNoteFolioOnConfirm: cfg.Sequence.SalesNoteFolioOnConfirm,
		DefaultValidityDays:     cfg.Quote.DefaultValidityDays,
		DefaultTaxPercent:       defaultTax,
	}

	quoteService := sales.NewQuoteService(scope, quoteRepo, opts, log)
	noteService := sales.NewSalesNoteService(scope, noteRepo, opts, log)

	// Domain events are dispatched after commit: audit trail for every event,
	// delivery requests for the events the notifier cares about.
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewAuditHandler(auditRepo, log))
	var notifier *notification.KafkaNotifier
	if cfg.Notification.Enabled {
		notifier = notification.NewKafkaNotifier(notification.Config{
			Brokers:      cfg.Notification.KafkaBrokers,
			Topic:        cfg.Notification.KafkaTopic,
			WriteTimeout: cfg.Notification.WriteTimeout,
		}, log)
		bus.Subscribe(notifier)
		log.Info("Delivery notifications enabled",
			zap.Strings("brokers", cfg.Notification.KafkaBrokers),
			zap.String("topic", cfg.Notification.KafkaTopic),
		)
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	quoteService.SetEventPublisher(bus)
	noteService.SetEventPublisher(bus)

	metrics, err := telemetry.NewDocumentMetrics(tp.Meter("quotedesk/documents"))
	if err != nil {
		log.Warn("Document metrics disabled", zap.Error(err))
	} else {
		quoteService.SetMetrics(metrics)
		noteService.SetMetrics(metrics)
	}

	receivableCache, redisClient := cache.NewReceivableCache(cfg.Redis, cfg.Receivable.CacheTTL, log)
	receivableService := sales.NewReceivableLinkService(noteRepo, receivableReader, receivableCache, log)

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = redisPinger{redisClient}
	}

	engine := router.New(router.Config{
		Logger:         log,
		TokenValidator: auth.NewJWTService(cfg.JWT),
		CORS: middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
			MaxAge:       12 * time.Hour,
		},
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
	}, router.Handlers{
		Health:     handler.NewHealthHandler(cfg.App.Name, version, checks),
		Quotes:     handler.NewQuoteHandler(quoteService),
		SalesNotes: handler.NewSalesNoteHandler(noteService, receivableService),
		Pricing: handler.NewPricingHandler(
			sales.NewTotalsService(defaultTax),
			sales.NewSequenceService(sequenceStore, policy),
		),
	})
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if notifier != nil {
		if err := notifier.Close(); err != nil {
			log.Error("Error closing notifier", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// sequencePolicy overlays the configured folio formats on the defaults.
// The separator is taken as configured, so "" yields folios like NV000123.
func sequencePolicy(cfg config.SequenceConfig) sequence.Policy {
	policy := sequence.DefaultPolicy()
	apply := func(docType sequence.DocumentType, fc config.FolioFormatConfig) {
		format := policy[docType]
		if fc.Prefix != "" {
			format.Prefix = fc.Prefix
		}
		if fc.Width > 0 {
			format.Width = fc.Width
		}
		format.Separator = cfg.Separator
		policy[docType] = format
	}
	apply(sequence.DocumentTypeQuote, cfg.Quote)
	apply(sequence.DocumentTypeSalesNote, cfg.SalesNote)
	return policy
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
