package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Emmanuel-365/chezflora-api/config"
	"github.com/Emmanuel-365/chezflora-api/internal/app"
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	paymentListenerPkg "github.com/Emmanuel-365/chezflora-api/internal/payment/listener"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/broker"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/cache"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/database/postgres"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/search"
	"github.com/Emmanuel-365/chezflora-api/internal/server"
	"github.com/Emmanuel-365/chezflora-api/internal/storage/memory"
	"github.com/Emmanuel-365/chezflora-api/migrations"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()
	development := cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development"

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     development,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Storage
	var repos app.Repositories
	switch cfg.Server.StorageDriver {
	case "memory":
		repos = app.MemoryRepositories(memory.NewStore())
		appLogger.Warn("Using in-memory storage, data is lost on restart")
	default:
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

		if cfg.Server.AutoMigrate {
			if err := migrations.Up(ctx, db); err != nil {
				appLogger.Fatal("Could not apply migrations", zap.Error(err))
			}
		}
		repos = app.PostgresRepositories(db)
	}

	var infra app.Infra

	// 4. Redis
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		infra.Redis = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Kafka producer for notifications
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.NotificationsTopic,
		})
		defer producer.Close()
		infra.Notifier = notification.NewKafkaNotifier(producer)
		appLogger.Info("Publishing notifications to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.NotificationsTopic))
	}

	// 6. Elasticsearch
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, product search falls back to the database", zap.Error(err))
		} else {
			infra.Search = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Use cases, jobs and listeners
	application := app.New(cfg, repos, infra, appLogger)

	var background sync.WaitGroup
	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.PaymentEventsTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		listener := paymentListenerPkg.NewPaymentListener(consumer, application.Payments, appLogger)
		background.Add(1)
		go func() {
			defer background.Done()
			listener.Start(ctx)
		}()
	}
	if cfg.Scheduler.Enabled {
		background.Add(1)
		go func() {
			defer background.Done()
			application.Scheduler.Start(ctx)
		}()
	}

	// 8. HTTP server
	verifier := auth.NewVerifier(cfg.JWT.SecretKey)
	router := server.NewRouter(server.HTTPConfig{
		Addr:            cfg.Server.HTTPPort,
		Development:     development,
		RateLimitPerSec: cfg.Business.RateLimitPerSec,
		RateLimitBurst:  cfg.Business.RateLimitBurst,
	}, verifier, appLogger, application.Routes()...)
	httpServer := server.NewHTTPServer(listenAddr(cfg.Server.HTTPPort), router)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 9. gRPC server
	grpcServer, healthServer := server.NewGRPCServer(verifier, appLogger, application.JobHandler())
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()

	cancel()
	background.Wait()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
