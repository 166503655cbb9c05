package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/models"
)

type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a consumer for the booking topic with the given group.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Start consumes booking events until the context is cancelled. Messages that
// fail to decode are logged and skipped rather than blocking the partition.
func (c *Consumer) Start(ctx context.Context, handler func(booking models.Booking)) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			log.Printf("❌ Error reading message: %v", err)
			continue
		}

		var evt bookingEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			log.Printf("⚠️ Failed to unmarshal message: %v", err)
			continue
		}
		if evt.Type != TypeBookingCreated {
			continue
		}

		log.Printf("📩 Received booking event: ID=%s", evt.Booking.ID)
		handler(evt.Booking)
	}
}

// Close gracefully shuts down the Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
