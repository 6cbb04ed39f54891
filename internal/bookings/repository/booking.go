package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingerrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/errors"
	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

const bookingCollection = "bookings"

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByRef(ctx context.Context, ref string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) error
	RefExists(ctx context.Context, ref string) (bool, error)
	FindAll(ctx context.Context, limit, offset int) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type bookingRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewBookingRepository(db *mongo.Database, timeout time.Duration) BookingRepository {
	return &bookingRepository{
		collection: db.Collection(bookingCollection),
		timeout:    timeout,
	}
}

// withTimeout bounds standalone queries. Calls already running inside a
// transaction keep the session context untouched.
func (r *bookingRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *bookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ref_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "origin", Value: 1}, {Key: "destination", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	})
	return err
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.collection.InsertOne(ctx, booking)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.InvalidInput("booking reference already exists")
	}
	return err
}

func (r *bookingRepository) FindByRef(ctx context.Context, ref string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"ref_id": ref}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, bookingerrors.BookingNotFound(ref)
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": updatedAt}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("booking")
	}
	return nil
}

func (r *bookingRepository) RefExists(ctx context.Context, ref string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"ref_id": ref}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0, limit)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{})
}
