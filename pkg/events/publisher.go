// Package events publishes booking lifecycle events to Kafka for
// downstream consumers (notifications, analytics). Publication is
// best-effort: a broker outage never fails the booking operation that
// produced the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

type Publisher interface {
	PublishBookingEvent(ctx context.Context, booking *model.Booking, event *model.BookingEvent) error
	Close() error
}

// envelope is the wire format of a published event.
type envelope struct {
	RefID        string       `json:"ref_id"`
	Origin       string       `json:"origin"`
	Destination  string       `json:"destination"`
	EventType    model.Status `json:"event_type"`
	Location     string       `json:"location,omitempty"`
	FlightID     string       `json:"flight_id,omitempty"`
	FlightNumber string       `json:"flight_number,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by ref so one booking's events stay ordered
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka writer error", "detail", msg, "args", args)
		}),
	}
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) PublishBookingEvent(ctx context.Context, booking *model.Booking, event *model.BookingEvent) error {
	payload, err := json.Marshal(envelope{
		RefID:        booking.RefID,
		Origin:       booking.Origin,
		Destination:  booking.Destination,
		EventType:    event.EventType,
		Location:     event.Location,
		FlightID:     event.FlightID,
		FlightNumber: event.FlightNumber,
		Notes:        event.Notes,
		OccurredAt:   event.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(booking.RefID),
		Value: payload,
		Time:  event.CreatedAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishBookingEvent(context.Context, *model.Booking, *model.BookingEvent) error {
	return nil
}

func (Nop) Close() error { return nil }
