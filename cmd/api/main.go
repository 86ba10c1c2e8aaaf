package main

import (
	"context"
	"crypto-price-bot/internal/application/presenter"
	"crypto-price-bot/internal/application/services"
	"crypto-price-bot/internal/infrastructure/backup"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/exchange"
	"crypto-price-bot/internal/infrastructure/exchange/coinmarketcap"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"crypto-price-bot/internal/infrastructure/repositories/cache"
	"crypto-price-bot/internal/infrastructure/scheduler"
	"crypto-price-bot/internal/infrastructure/web/server"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

const version = "1.0.0"

func main() {
	startedAt := time.Now()

	// 1. Configuración
	cfg, err := config.NewLoader().Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Logging estructurado
	loggerConfig := logging.NewConfig("crypto-price-bot", version, config.GetEnvironment()).
		WithLevel(logging.LogLevelFromString(cfg.Logging.Level)).
		WithFormat(logging.LogFormatFromString(cfg.Logging.Format))
	if err := logging.InitializeGlobalLoggers(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	ctx := logging.WithRequestID(context.Background(), logging.GenerateJobID("startup"))
	logging.Info(ctx, "Starting crypto price bot", logging.Fields{
		"version":     version,
		"environment": config.GetEnvironment(),
	})
	metrics.SetApplicationInfo(version, runtime.Version())

	// 3. Cache durable de símbolos
	blobStore, err := cache.NewBlobStore(cfg.Cache)
	if err != nil {
		fatal(ctx, "Failed to create symbol cache store", err)
	}
	defer closeIfCloser(ctx, blobStore)
	symbolCache := cache.NewSymbolCache(blobStore, cfg.Cache)

	// 4. Gateway de mercado con cuota y failover de keys
	factory := coinmarketcap.NewFactory(cfg.MarketData)
	if cfg.MarketData.Mock {
		logging.Warn(ctx, "Using offline mock market data provider", nil)
		factory = exchange.NewMockFactory()
		if len(cfg.MarketData.APIKeys) == 0 {
			cfg.MarketData.APIKeys = []string{"mock"}
		}
	}
	gateway, err := exchange.NewQuotaGateway(cfg.MarketData, factory)
	if err != nil {
		fatal(ctx, "Failed to create market data gateway", err)
	}

	catalog := services.NewCatalog()
	renderer := presenter.NewRenderer(presenter.Options{
		BotUsername:      cfg.Bot.Username,
		QuoteDigits:      cfg.Bot.QuoteDigits,
		MessageCharLimit: cfg.Bot.MessageCharLimit,
	})

	// 5. Respaldo remoto de metadata
	var mirror *backup.Mirror
	if cfg.Backup.Enabled {
		objectStore, err := backup.NewObjectStore(ctx, cfg.Backup)
		if err != nil {
			fatal(ctx, "Failed to create backup store", err)
		}
		defer closeIfCloser(ctx, objectStore)

		mirror = backup.NewMirror(objectStore, symbolCache, catalog, cfg.Backup.ObjectKey, cfg.Backup.ReuploadDifference)
		if cfg.Backup.RestoreOnStartup {
			if _, err := mirror.Restore(ctx); err != nil {
				logging.WarnWithError(ctx, "Metadata restore failed, starting from local cache", err, nil)
			}
		}
	}

	// 6. Loop de mantenimiento
	var backupJob scheduler.Job
	if mirror != nil {
		backupJob = func(ctx context.Context) { mirror.Check(ctx) }
	}
	sched, err := scheduler.New(cfg.Scheduler, func(ctx context.Context) { gateway.CheckKeys(ctx) }, backupJob)
	if err != nil {
		fatal(ctx, "Failed to create scheduler", err)
	}
	sched.StartupCheck()

	// 7. Casos de uso del bot
	opts := []services.Option{services.WithQuotaReporter(gateway)}
	if mirror != nil {
		opts = append(opts, services.WithBackupBaseline(mirror.Baseline))
	}
	botService := services.NewBotService(gateway, symbolCache, catalog, renderer, cfg.Bot.DefaultCurrency, opts...)
	botService.Bootstrap(ctx)

	if mirror != nil {
		mirror.ResetBaseline(catalog.MetadataCount())
	}

	gateway.SetOnQuotaFailure(func() { sched.TriggerHealthCheck() })
	sched.Start()

	// 8. Servidor HTTP
	srv := server.NewServer(server.NewRouter(botService, cfg), cfg.Server.Port)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(ctx, "HTTP server failed", err)
		}
	}()

	go reportUptime(startedAt)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info(ctx, "Shutting down crypto price bot", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(ctx, "Server forced to shutdown", err, nil)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		logging.WarnWithError(ctx, "Scheduler jobs still running at shutdown", err, nil)
	}

	logging.Info(ctx, "Shutdown completed", nil)
}

func fatal(ctx context.Context, message string, err error) {
	logging.ErrorWithError(ctx, message, err, nil)
	os.Exit(1)
}

func closeIfCloser(ctx context.Context, v interface{}) {
	closer, ok := v.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logging.WarnWithError(ctx, "Failed to close store", err, nil)
	}
}

// reportUptime actualiza el gauge de uptime cada 15 segundos
func reportUptime(startedAt time.Time) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		metrics.UpdateUptime(time.Since(startedAt).Seconds())
	}
}
