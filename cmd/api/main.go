package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-sale-service/config"
	"github.com/fekuna/omnipos-sale-service/internal/auth"
	catRepoPkg "github.com/fekuna/omnipos-sale-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-sale-service/internal/catalog/usecase"
	saleH "github.com/fekuna/omnipos-sale-service/internal/sale/handler"
	saleRepoPkg "github.com/fekuna/omnipos-sale-service/internal/sale/repository"
	saleUCPkg "github.com/fekuna/omnipos-sale-service/internal/sale/usecase"
	stockRepoPkg "github.com/fekuna/omnipos-sale-service/internal/stock/repository"
	"github.com/fekuna/omnipos-sale-service/pkg/broker"
	"github.com/fekuna/omnipos-sale-service/pkg/cache"
	"github.com/fekuna/omnipos-sale-service/pkg/logger"
	"github.com/fekuna/omnipos-sale-service/pkg/metrics"
	"github.com/fekuna/omnipos-sale-service/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis (catalog cache only; service runs without it)
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis (catalog cache disabled)", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Kafka Producer
	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer producer.Close()
	appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	saleMetrics := metrics.NewSaleMetrics(registry)

	// 7. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	ledger := stockRepoPkg.NewPGLedger(db)
	txTimeout := time.Duration(cfg.Postgres.TxTimeout) * time.Second
	saleRepo := saleRepoPkg.NewPGRepository(db, ledger, txTimeout)

	// 8. Initialize UseCases
	catalogTTL := time.Duration(cfg.Redis.CatalogTTL) * time.Second
	catUC := catUCPkg.NewCatalogUseCase(catRepo, redisClient, appLogger, catalogTTL)
	saleUC := saleUCPkg.NewSaleUseCase(catUC, ledger, saleRepo, producer, saleMetrics, appLogger)

	// 9. Initialize Handlers + Router
	saleHandler := saleH.NewSaleHandler(saleUC, appLogger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))
	r.Route("/api/v1", func(r chi.Router) {
		saleHandler.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:         cfg.Server.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort))

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("shutdown error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
