package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

const eventCollection = "booking_events"

type EventRepository interface {
	Create(ctx context.Context, event *model.BookingEvent) error
	FindByBookingID(ctx context.Context, bookingID string) ([]*model.BookingEvent, error)
	EnsureIndexes(ctx context.Context) error
}

type eventRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewEventRepository(db *mongo.Database, timeout time.Duration) EventRepository {
	return &eventRepository{
		collection: db.Collection(eventCollection),
		timeout:    timeout,
	}
}

func (r *eventRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *eventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

func (r *eventRepository) Create(ctx context.Context, event *model.BookingEvent) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if event.ID == "" {
		event.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindByBookingID returns the booking's timeline oldest first, so the
// last element always matches the booking's current status.
func (r *eventRepository) FindByBookingID(ctx context.Context, bookingID string) ([]*model.BookingEvent, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*model.BookingEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
