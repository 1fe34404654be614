package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	automationapp "github.com/commercehub/backend/internal/application/automation"
	"github.com/commercehub/backend/internal/domain/shared"
	"github.com/commercehub/backend/internal/infrastructure/adapters"
	"github.com/commercehub/backend/internal/infrastructure/adapters/faire"
	"github.com/commercehub/backend/internal/infrastructure/cache"
	"github.com/commercehub/backend/internal/infrastructure/config"
	"github.com/commercehub/backend/internal/infrastructure/event"
	"github.com/commercehub/backend/internal/infrastructure/logger"
	"github.com/commercehub/backend/internal/infrastructure/persistence"
	"github.com/commercehub/backend/internal/infrastructure/scheduler"
	"github.com/commercehub/backend/internal/infrastructure/webhook"
	"github.com/commercehub/backend/internal/interfaces/http/handler"
	"github.com/commercehub/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting CommerceHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Idempotency and automation state stores, Redis with in-memory fallback
	storeFactory := cache.NewStoreFactory(
		cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.Redis.RequireForState),
	)
	idempotencyStore, err := storeFactory.CreateIdempotencyStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotencyStore.Close() }()

	stateStore, err := storeFactory.CreateStateStore()
	if err != nil {
		log.Fatal("Failed to create automation state store", zap.Error(err))
	}
	defer func() { _ = stateStore.Close() }()

	// Platform adapters
	var faireDefaults *faire.FaireConfig
	if cfg.Faire.AccessToken != "" {
		faireDefaults = &faire.FaireConfig{
			AccessToken:       cfg.Faire.AccessToken,
			WebhookSecret:     cfg.Faire.WebhookSecret,
			APIBaseURL:        cfg.Faire.APIBaseURL,
			TimeoutSeconds:    cfg.Faire.TimeoutSeconds,
			RequestsPerMinute: cfg.Faire.RequestsPerMinute,
			RateLimitBurst:    cfg.Faire.RateLimitBurst,
		}
	}
	faireAdapter, err := faire.NewAdapter(faireDefaults)
	if err != nil {
		log.Fatal("Failed to create Faire adapter", zap.Error(err))
	}
	adapterRegistry := adapters.NewRegistry()
	adapterRegistry.Register(faireAdapter)

	// Automation definitions and run history
	automationStore := persistence.NewInMemoryAutomationStore()

	// Automation engine
	handlerRegistry := automationapp.NewHandlerRegistry()
	automationapp.RegisterBuiltinHandlers(handlerRegistry, automationapp.NewLogNotifier(log))

	evaluator := automationapp.NewTriggerEvaluator(stateStore, log.Named("evaluator"))
	executor := automationapp.NewActionChainExecutor(handlerRegistry, log.Named("executor"),
		automationapp.WithActionTimeout(cfg.Automation.ActionTimeout),
		automationapp.WithRetryDelay(cfg.Automation.RetryDelay),
	)
	automationService := automationapp.NewService(automationStore, adapterRegistry, evaluator, executor, log.Named("automation"))
	automationService.SetRunRecorder(automationStore)

	// Webhook ingress pipeline: processor -> event bus -> automation service
	bus := event.NewBus(log.Named("bus"))
	bus.Subscribe(automationService)

	processor := webhook.NewProcessor(
		adapterRegistry,
		idempotencyStore,
		shared.IdempotencyConfig{
			TTL:     cfg.Webhook.IdempotencyTTL,
			Enabled: cfg.Webhook.IdempotencyEnabled,
		},
		bus,
		log.Named("webhook"),
	)

	// Schedule trigger loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var tickScheduler *scheduler.TickScheduler
	if cfg.Scheduler.Enabled {
		tickScheduler = scheduler.NewTickScheduler(
			scheduler.TickSchedulerConfig{CheckInterval: cfg.Scheduler.CheckInterval},
			automationService,
			automationStore,
			log.Named("scheduler"),
		)
		if err := tickScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start tick scheduler", zap.Error(err))
		}
	}

	// HTTP surface
	engine := router.New(cfg, log, router.Handlers{
		System:     handler.NewSystemHandler(cfg.App.Name),
		Webhook:    handler.NewWebhookHandler(processor, log.Named("ingress")),
		Automation: handler.NewAutomationHandler(automationStore),
	})

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if tickScheduler != nil {
		if err := tickScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Tick scheduler shutdown failed", zap.Error(err))
		}
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
