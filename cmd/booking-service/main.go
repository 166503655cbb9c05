package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	bookingapi "ms-booking/internal/booking/api"
	bookingredis "ms-booking/internal/booking/redis"
	"ms-booking/internal/config"
	"ms-booking/internal/event"
	eventapi "ms-booking/internal/event/api"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/stats"
	statsapi "ms-booking/internal/stats/api"
	"ms-booking/internal/store"
	"ms-booking/internal/store/bunstore"
	"ms-booking/internal/store/jsonfile"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	ctx := context.Background()

	// --- Store Driver ---
	var (
		eventStore   store.EventStore
		bookingStore store.BookingStore
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err := bunstore.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal("STORE", fmt.Sprintf("failed to open sqlite store: %v", err))
		}
		defer st.Close()
		eventStore, bookingStore = st, st
		log.Info("STORE", fmt.Sprintf("using sqlite store at %s", cfg.Store.SQLitePath))
	default:
		st, err := jsonfile.New(cfg.Store.DataDir)
		if err != nil {
			log.Fatal("STORE", fmt.Sprintf("failed to open file store: %v", err))
		}
		eventStore, bookingStore = st, st
		log.Info("STORE", fmt.Sprintf("using file store under %s", cfg.Store.DataDir))
	}

	// --- Event Lock Driver ---
	var locks booking.EventLocker = booking.NewKeyedLock()
	if cfg.Redis.LockDriver == "redis" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("REDIS", fmt.Sprintf("failed to connect to Redis: %v", err))
		}
		locks = bookingredis.NewEventLock(redisClient, cfg.Redis.LockTTL)
		log.Info("REDIS", fmt.Sprintf("using redis event locks via %s", cfg.Redis.Addr))
	}

	// --- Kafka Publisher ---
	var publisher booking.BookingPublisher
	if cfg.Kafka.Enabled {
		if !cfg.Kafka.MockMode {
			if err := kafka.EnsureTopicExists(cfg.Kafka.Brokers, cfg.Kafka.Topic); err != nil {
				log.Error("KAFKA", fmt.Sprintf("could not ensure topic %s: %v", cfg.Kafka.Topic, err))
			}
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.MockMode)
		defer producer.Close()
		publisher = producer
		log.Info("KAFKA", fmt.Sprintf("publishing booking events to %s (mock=%t)", cfg.Kafka.Topic, cfg.Kafka.MockMode))
	}

	// --- Services ---
	guards := &store.Guards{}
	bookingSvc := booking.NewService(eventStore, bookingStore, guards, locks, publisher, log)
	eventSvc := event.NewService(eventStore, guards, log)
	statsSvc := stats.NewService(eventStore, bookingStore)

	bookingHandler := &bookingapi.Handler{Bookings: bookingSvc}
	eventHandler := &eventapi.Handler{Events: eventSvc}
	statsHandler := &statsapi.Handler{Stats: statsSvc}

	// --- Router ---
	r := chi.NewRouter()
	authed := auth.Middleware(cfg.Auth.JWTSecret)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/api/v1/events", eventHandler.ListEvents)
	r.Get("/api/v1/events/{eventId}", eventHandler.GetEvent)

	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Post("/api/v1/bookings", bookingHandler.CreateBooking)
		r.Get("/api/v1/bookings/{bookingId}", bookingHandler.GetBooking)
		r.Get("/api/v1/bookings/{bookingId}/qr", bookingHandler.GetBookingQR)
		r.Get("/api/v1/users/me/bookings", bookingHandler.ListMyBookings)
	})

	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Use(auth.RequireAdmin)
		r.Post("/api/v1/admin/events", eventHandler.CreateEvent)
		r.Patch("/api/v1/admin/events/{eventId}/publish", eventHandler.SetPublished)
		r.Get("/api/v1/admin/stats", statsHandler.GetOverview)
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("Booking Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("SERVER", "Shutdown signal received. Cleaning up...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("SERVER", fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	log.Info("SERVER", "Server exited gracefully")
}
