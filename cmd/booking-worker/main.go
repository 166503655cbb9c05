package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"ms-booking/internal/config"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// booking-worker tails the booking topic and keeps a running per-event tally.
// It stands in for downstream consumers (notifications, reporting) during
// development.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	appLogger := logger.NewLogger()

	if !cfg.Kafka.Enabled || cfg.Kafka.MockMode {
		log.Fatal("booking-worker requires KAFKA_ENABLED=true and KAFKA_MOCK_MODE=false")
	}

	if err := kafka.EnsureTopicExists(cfg.Kafka.Brokers, cfg.Kafka.Topic); err != nil {
		log.Printf("⚠️ Could not ensure topic %s: %v", cfg.Kafka.Topic, err)
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, "booking-worker")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	tally := make(map[string]int)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Println("🔄 Booking worker started...")
		err := consumer.Start(ctx, func(booking models.Booking) {
			mu.Lock()
			tally[booking.EventID] += len(booking.Seats)
			total := tally[booking.EventID]
			mu.Unlock()

			appLogger.LogBooking("CONSUMED", booking.ID,
				fmt.Sprintf("%d seat(s) for event %s (%d total seen)",
					len(booking.Seats), booking.EventID, total))
		})
		if err != nil {
			log.Printf("❌ Consumer stopped: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()
	<-done
	log.Println("✅ Booking worker shutdown complete")
}
