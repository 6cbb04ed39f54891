package service

import (
	"context"
	"time"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/repository"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/cache"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/metrics"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/sanitizer"
)

type TrackingService interface {
	GetHistory(ctx context.Context, ref string) (*model.BookingHistory, error)
}

type trackingService struct {
	bookings repository.BookingRepository
	events   repository.EventRepository
	cache    *cache.Store
	obs      metrics.Observer
	cacheTTL time.Duration
	log      *logger.Logger
}

func NewTrackingService(
	bookings repository.BookingRepository,
	events repository.EventRepository,
	cacheStore *cache.Store,
	obs metrics.Observer,
	cacheTTL time.Duration,
	log *logger.Logger,
) TrackingService {
	if obs == nil {
		obs = metrics.Nop{}
	}
	return &trackingService{
		bookings: bookings,
		events:   events,
		cache:    cacheStore,
		obs:      obs,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// GetHistory returns the booking with its full timeline, oldest event
// first. The composite is cached under its own key and invalidated
// together with the booking on every transition.
func (s *trackingService) GetHistory(ctx context.Context, ref string) (*model.BookingHistory, error) {
	ref = sanitizer.NormalizeRef(ref)

	var cached model.BookingHistory
	if s.cache.Get(ctx, cache.HistoryKey(ref), &cached) {
		s.obs.OnCacheHit("history")
		return &cached, nil
	}
	s.obs.OnCacheMiss("history")

	booking, err := s.bookings.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	timeline, err := s.events.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	history := &model.BookingHistory{Booking: booking, Timeline: timeline}
	s.cache.Set(ctx, cache.HistoryKey(ref), history, s.cacheTTL)
	return history, nil
}
