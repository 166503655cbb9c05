package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/models"
)

// Event types carried on the booking topic.
const (
	TypeBookingCreated = "booking_created"
)

type bookingEvent struct {
	Type    string         `json:"type"`
	Booking models.Booking `json:"booking"`
}

// Producer streams booking lifecycle events. In mock mode nothing is written;
// downstream consumers (notifications, analytics) simply see no traffic.
type Producer struct {
	Writer   *kafka.Writer
	MockMode bool
}

func NewProducer(brokers []string, topic string, mockMode bool) *Producer {
	if mockMode {
		return &Producer{MockMode: true}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// PublishBookingCreated streams the booking creation event to Kafka.
func (p *Producer) PublishBookingCreated(booking models.Booking) error {
	if p.MockMode {
		return nil
	}

	msgBytes, err := json.Marshal(bookingEvent{Type: TypeBookingCreated, Booking: booking})
	if err != nil {
		return fmt.Errorf("marshal booking %s: %w", booking.ID, err)
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(booking.ID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	if p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
