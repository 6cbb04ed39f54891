package service

import (
	"context"
	"time"

	bookingerrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/errors"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/repository"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/validator"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/cache"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/locks"
	mongodb "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/db/mongo"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/events"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/metrics"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/refid"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingCreate) (*model.Booking, error)
	Get(ctx context.Context, ref string) (*model.Booking, error)
	List(ctx context.Context, limit, offset int) ([]*model.Booking, int64, error)
	Depart(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error)
	Arrive(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error)
	Deliver(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error)
	Cancel(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error)
}

// BookingDeps bundles everything the booking service needs; every field
// is required except Publisher and Observer, which default to no-ops.
type BookingDeps struct {
	Bookings  repository.BookingRepository
	Events    repository.EventRepository
	Txn       mongodb.TransactionManager
	Locks     *locks.Coordinator
	Cache     *cache.Store
	Validator *validator.BookingValidator
	Publisher events.Publisher
	Observer  metrics.Observer
	CacheTTL  time.Duration
	Log       *logger.Logger
}

type bookingService struct {
	deps BookingDeps
}

func NewBookingService(deps BookingDeps) BookingService {
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	if deps.Observer == nil {
		deps.Observer = metrics.Nop{}
	}
	return &bookingService{deps: deps}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
	req.Origin = sanitizer.NormalizeAirportCode(req.Origin)
	req.Destination = sanitizer.NormalizeAirportCode(req.Destination)

	if err := s.deps.Validator.ValidateCreate(req); err != nil {
		return nil, err
	}
	if req.Origin == req.Destination {
		return nil, bookingerrors.SameOriginDestination()
	}

	ref, err := refid.GenerateUnique(ctx, s.deps.Bookings.RefExists)
	if err != nil {
		return nil, bookingerrors.RefGenerationFailed(err)
	}

	now := time.Now().UTC()
	booking := &model.Booking{
		RefID:       ref,
		Origin:      req.Origin,
		Destination: req.Destination,
		Pieces:      req.Pieces,
		WeightKg:    req.WeightKg,
		Status:      model.StatusBooked,
		FlightIDs:   req.FlightIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	event := &model.BookingEvent{
		EventType: model.StatusBooked,
		Location:  req.Origin,
		Notes:     "Booking created",
		CreatedAt: now,
	}

	err = s.deps.Txn.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.deps.Bookings.Create(txCtx, booking); err != nil {
			return err
		}
		event.BookingID = booking.ID
		return s.deps.Events.Create(txCtx, event)
	})
	if err != nil {
		return nil, err
	}

	s.deps.Log.Info("Booking created",
		"ref_id", booking.RefID,
		"origin", booking.Origin,
		"destination", booking.Destination,
	)
	s.deps.Observer.OnBookingCreated()
	s.publish(ctx, booking, event)

	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, ref string) (*model.Booking, error) {
	ref = sanitizer.NormalizeRef(ref)

	var cached model.Booking
	if s.deps.Cache.Get(ctx, cache.BookingKey(ref), &cached) {
		s.deps.Observer.OnCacheHit("booking")
		return &cached, nil
	}
	s.deps.Observer.OnCacheMiss("booking")

	booking, err := s.deps.Bookings.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	s.deps.Cache.Set(ctx, cache.BookingKey(ref), booking, s.deps.CacheTTL)
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, limit, offset int) ([]*model.Booking, int64, error) {
	bookings, err := s.deps.Bookings.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.deps.Bookings.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (s *bookingService) Depart(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error) {
	return s.transition(ctx, ref, model.StatusDeparted, req)
}

func (s *bookingService) Arrive(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error) {
	return s.transition(ctx, ref, model.StatusArrived, req)
}

func (s *bookingService) Deliver(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error) {
	return s.transition(ctx, ref, model.StatusDelivered, req)
}

// Cancel takes no required payload; when req is nil only the status
// change and event are recorded.
func (s *bookingService) Cancel(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error) {
	return s.transition(ctx, ref, model.StatusCancelled, req)
}

// transition applies one lifecycle step under the booking's distributed
// lock: load, guard, persist status + event atomically, then invalidate
// the cache before the lock is released so no stale entry can be
// re-read between commit and invalidation.
func (s *bookingService) transition(ctx context.Context, ref string, target model.Status, req *model.TransitionRequest) (*model.Booking, error) {
	ref = sanitizer.NormalizeRef(ref)

	if req != nil {
		req.Location = sanitizer.NormalizeAirportCode(req.Location)
		req.FlightNumber = sanitizer.NormalizeText(req.FlightNumber)
		req.Notes = sanitizer.NormalizeText(req.Notes)
		if err := s.deps.Validator.ValidateTransition(req); err != nil {
			return nil, err
		}
	}

	lock := s.deps.Locks.Lock("booking:" + ref)
	if !lock.Acquire(ctx) {
		s.deps.Observer.OnLockConflict()
		s.deps.Log.Warn("Booking lock busy", "ref_id", ref, "target", target)
		return nil, bookingerrors.BookingLocked(ref)
	}
	defer func() {
		if !lock.Release(ctx) {
			s.deps.Log.Warn("Booking lock release failed", "ref_id", ref)
		}
	}()

	booking, err := s.deps.Bookings.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := model.CanTransition(booking.Status, target); err != nil {
		return nil, bookingerrors.TransitionNotAllowed(err.Error())
	}

	now := time.Now().UTC()
	event := &model.BookingEvent{
		BookingID: booking.ID,
		EventType: target,
		CreatedAt: now,
	}
	if req != nil {
		event.Location = req.Location
		event.FlightID = req.FlightID
		event.FlightNumber = req.FlightNumber
		event.Notes = req.Notes
	}

	err = s.deps.Txn.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.deps.Bookings.UpdateStatus(txCtx, booking.ID, target, now); err != nil {
			return err
		}
		return s.deps.Events.Create(txCtx, event)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = target
	booking.UpdatedAt = now

	if !s.deps.Cache.Delete(ctx, cache.BookingKey(ref), cache.HistoryKey(ref)) {
		s.deps.Log.Error("Booking cache invalidation failed; stale reads possible until TTL",
			"ref_id", ref,
		)
	}

	s.deps.Log.Info("Booking transitioned",
		"ref_id", ref,
		"status", target,
	)
	s.deps.Observer.OnTransition(target)
	s.publish(ctx, booking, event)

	return booking, nil
}

func (s *bookingService) publish(ctx context.Context, booking *model.Booking, event *model.BookingEvent) {
	if err := s.deps.Publisher.PublishBookingEvent(ctx, booking, event); err != nil {
		s.deps.Log.Warn("Booking event publish failed",
			"ref_id", booking.RefID,
			"event_type", event.EventType,
			"error", err,
		)
	}
}
