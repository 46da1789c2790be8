package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-sales-service/config"
	"github.com/fekuna/omnipos-sales-service/internal/app"
	"github.com/fekuna/omnipos-sales-service/internal/broker"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	invListenerPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/listener"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	prodUCPkg "github.com/fekuna/omnipos-sales-service/internal/product/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/search"
	"github.com/fekuna/omnipos-sales-service/internal/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(app.LoggerConfig(cfg))
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Database
	repos, closeDB, err := app.Open(ctx, app.DatabaseConfig(cfg), cfg.Database.AutoMigrate)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer closeDB()
	appLogger.Info("Database ready", zap.String("driver", cfg.Database.Driver), zap.String("db_name", cfg.Database.DBName))

	infra := app.Infra{LockTTL: cfg.Redis.LockTTL, CacheTTL: cfg.Redis.CacheTTL, Index: cfg.Elastic.Index}

	// 4. Initialize Redis
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
		infra.Locker = redisClient
		infra.Cache = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		infra.Locker = cache.NewLocalLocker()
	}

	// 5. Initialize Kafka Producer
	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		defer producer.Close()
		infra.Publisher = producer

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.StockTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("events_topic", cfg.Kafka.EventsTopic), zap.String("stock_topic", cfg.Kafka.StockTopic))
	}

	// 6. Initialize Elasticsearch
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (search falls back to the database)", zap.Error(err))
		} else if err := prodUCPkg.EnsureIndex(ctx, esClient, cfg.Elastic.Index); err != nil {
			appLogger.Warn("Could not prepare Elasticsearch index", zap.String("index", cfg.Elastic.Index), zap.Error(err))
		} else {
			infra.Search = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize UseCases and Handlers
	useCases := app.NewUseCases(repos, infra, clock.NewSystem(), appLogger)
	router := server.NewRouter(useCases.Handlers(appLogger), repos.DB, appLogger)

	// 8. Start Listener
	if kafkaConsumer != nil {
		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, useCases.Inventory, appLogger)
		go invListener.Start(ctx)
	}

	// 9. Start HTTP and gRPC Servers
	httpServer := &http.Server{
		Addr:              withColon(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	grpcPort := withColon(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}
	grpcServer, healthServer := server.NewGRPCServer(appLogger)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
