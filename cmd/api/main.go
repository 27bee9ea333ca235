package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/srgjo27/hotel_inventory/internal/adapter/handler"
	"github.com/srgjo27/hotel_inventory/internal/adapter/repository/postgres"
	"github.com/srgjo27/hotel_inventory/internal/core/services"
	"github.com/srgjo27/hotel_inventory/internal/platform/clock"
	"github.com/srgjo27/hotel_inventory/internal/platform/database"
	"github.com/srgjo27/hotel_inventory/migrations"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		zlog.Warn().Str("key", key).Str("value", raw).Msg("invalid integer env value, using default")
		return fallback
	}

	return value
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "hotel-inventory").Logger()
	zlog.Logger = logger

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("File .env tidak ditemukan, menggunakan variabel OS bawaan.")
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "hotel_inventory"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to db after retries")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	if err := migrations.Apply(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnv("REDIS_PORT", "6379")

	logger.Info().Str("addr", redisHost+":"+redisPort).Msg("Connecting to Redis...")

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort),
		DB:   0,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	logger.Info().Msg("Redis connected successfully!")

	inventoryRepo := postgres.NewInventoryRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	ratePlanRepo := postgres.NewRatePlanRepository(db)

	engine := services.NewReservationService(inventoryRepo, redisClient, logger)
	inventoryService := services.NewInventoryService(inventoryRepo, redisClient, logger)

	holdMinutes := getEnvInt("HOLD_MINUTES", 5)
	sweepSeconds := getEnvInt("SWEEP_INTERVAL_SECONDS", 60)
	sweepBatch := getEnvInt("SWEEP_BATCH_SIZE", 50)

	bookingService := services.NewBookingService(
		bookingRepo,
		ratePlanRepo,
		engine,
		clock.NewSystem(),
		logger,
		services.WithHoldTTL(time.Duration(holdMinutes)*time.Minute),
		services.WithSweepInterval(time.Duration(sweepSeconds)*time.Second),
		services.WithSweepBatchSize(sweepBatch),
	)

	bookingHandler := handler.NewBookingHandler(bookingService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	go func() {
		bookingService.RunExpirySweeper(sweeperCtx)
	}()

	mux := http.NewServeMux()

	mux.HandleFunc("/bookings", bookingHandler.Bookings)
	mux.HandleFunc("/bookings/hold", bookingHandler.PlaceHold)
	mux.HandleFunc("/bookings/cancel", bookingHandler.CancelHold)
	mux.HandleFunc("/bookings/payment-method", bookingHandler.SetPaymentMethod)
	mux.HandleFunc("/payments/callback", bookingHandler.PaymentCallback)

	mux.HandleFunc("/availability", inventoryHandler.Availability)
	mux.HandleFunc("/inventory/provision", inventoryHandler.Provision)
	mux.HandleFunc("/inventory/adjust", inventoryHandler.Adjust)
	mux.HandleFunc("/inventory/stop-sell", inventoryHandler.StopSell)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	port := getEnv("PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info().Msg("Shutting down server...")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exiting")
}
