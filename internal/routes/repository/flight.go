package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

const flightCollection = "flights"

type FlightRepository interface {
	// FindDirect returns flights from origin to destination departing on
	// the given calendar day, soonest departure first.
	FindDirect(ctx context.Context, origin, destination string, day time.Time) ([]*model.Flight, error)
	// FindFromOrigin returns all flights leaving origin on the given day.
	FindFromOrigin(ctx context.Context, origin string, day time.Time) ([]*model.Flight, error)
	// FindToDestination returns flights into destination departing within
	// [from, to), soonest departure first.
	FindToDestination(ctx context.Context, destination string, from, to time.Time) ([]*model.Flight, error)
	EnsureIndexes(ctx context.Context) error
}

type flightRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewFlightRepository(db *mongo.Database, timeout time.Duration) FlightRepository {
	return &flightRepository{
		collection: db.Collection(flightCollection),
		timeout:    timeout,
	}
}

func (r *flightRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "origin", Value: 1},
				{Key: "destination", Value: 1},
				{Key: "departure_datetime", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "destination", Value: 1},
				{Key: "departure_datetime", Value: 1},
			},
		},
	})
	return err
}

func (r *flightRepository) FindDirect(ctx context.Context, origin, destination string, day time.Time) ([]*model.Flight, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	filter := bson.M{
		"origin":      origin,
		"destination": destination,
		"departure_datetime": bson.M{
			"$gte": dayStart,
			"$lt":  dayStart.Add(24 * time.Hour),
		},
	}
	return r.find(ctx, filter)
}

func (r *flightRepository) FindFromOrigin(ctx context.Context, origin string, day time.Time) ([]*model.Flight, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	filter := bson.M{
		"origin": origin,
		"departure_datetime": bson.M{
			"$gte": dayStart,
			"$lt":  dayStart.Add(24 * time.Hour),
		},
	}
	return r.find(ctx, filter)
}

func (r *flightRepository) FindToDestination(ctx context.Context, destination string, from, to time.Time) ([]*model.Flight, error) {
	filter := bson.M{
		"destination": destination,
		"departure_datetime": bson.M{
			"$gte": from,
			"$lt":  to,
		},
	}
	return r.find(ctx, filter)
}

func (r *flightRepository) find(ctx context.Context, filter bson.M) ([]*model.Flight, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "departure_datetime", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	flights := make([]*model.Flight, 0)
	if err := cursor.All(ctx, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}
