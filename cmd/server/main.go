package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cart-service/config"
	"cart-service/internal/api"
	"cart-service/internal/broker"
	"cart-service/internal/redisclient"
	"cart-service/internal/service"
	"cart-service/internal/store"
	"cart-service/internal/util"
	"cart-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting cart service")

	tp, err := util.InitTracer(cfg.Observ.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	cacheTTL := time.Duration(cfg.Business.StockCacheTTLSecs) * time.Second
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicStock)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalogService := service.NewCatalogService(db, redisClient, eventPublisher)
	cartService := service.NewCartService(db)
	coordinator := service.NewCoordinator(db, redisClient, eventPublisher, cartService, cfg.Business.TxMaxRetries)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	stockConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicStock, cfg.Kafka.ConsumerGroup)
	cacheWorker := worker.NewStockCacheWorker(stockConsumer, redisClient)
	go func() {
		if err := cacheWorker.Start(workerCtx); err != nil {
			log.Printf("Stock cache worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(catalogService, cartService, coordinator, cfg.Business.DefaultOwnerID)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	cacheWorker.Stop()

	log.Println("Server exited")
}
