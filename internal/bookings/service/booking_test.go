package service

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/validator"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/cache"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/locks"
	mongodb "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/db/mongo"
	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/metrics"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

// memStore is a mutex-guarded in-memory stand-in for the MongoDB
// repositories, shared between the booking and event fakes so the
// transaction fake can mutate both.
type memStore struct {
	mu       sync.Mutex
	nextID   int
	bookings map[string]*model.Booking
	events   []*model.BookingEvent
}

func newMemStore() *memStore {
	return &memStore{bookings: make(map[string]*model.Booking)}
}

func (s *memStore) id() string {
	s.nextID++
	return "id-" + strconv.Itoa(s.nextID)
}

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == "" {
		b.ID = r.s.id()
	}
	clone := *b
	r.s.bookings[b.ID] = &clone
	return nil
}

func (r *memBookingRepo) FindByRef(_ context.Context, ref string) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.RefID == ref {
			clone := *b
			return &clone, nil
		}
	}
	return nil, apperrors.NotFoundWithRef("booking", ref)
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, status model.Status, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return apperrors.NotFound("booking")
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	return nil
}

func (r *memBookingRepo) RefExists(_ context.Context, ref string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.RefID == ref {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) FindAll(_ context.Context, limit, offset int) ([]*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Booking, 0, len(r.s.bookings))
	for _, b := range r.s.bookings {
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memBookingRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.bookings)), nil
}

func (r *memBookingRepo) EnsureIndexes(context.Context) error { return nil }

type memEventRepo struct{ s *memStore }

func (r *memEventRepo) Create(_ context.Context, e *model.BookingEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = r.s.id()
	}
	clone := *e
	r.s.events = append(r.s.events, &clone)
	return nil
}

func (r *memEventRepo) FindByBookingID(_ context.Context, bookingID string) ([]*model.BookingEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.BookingEvent, 0)
	for _, e := range r.s.events {
		if e.BookingID == bookingID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memEventRepo) EnsureIndexes(context.Context) error { return nil }

// fakeTxn runs the function directly; atomicity is the real
// TransactionManager's concern, not the service's.
type fakeTxn struct{}

func (fakeTxn) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return fn(ctx)
}

type fixture struct {
	svc      BookingService
	tracking TrackingService
	store    *memStore
	counters *metrics.Counters
	coord    *locks.Coordinator
	redis    *miniredis.Miniredis
	cache    *cache.Store
}

func newFixture(t *testing.T, retryTimes int, retryDelay time.Duration) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
	store := newMemStore()
	bookings := &memBookingRepo{s: store}
	events := &memEventRepo{s: store}
	coord := locks.NewCoordinator(rc, 10*time.Second, retryTimes, retryDelay, log)
	counters := metrics.NewCounters()
	cacheStore := cache.NewStore(rc, log)

	svc := NewBookingService(BookingDeps{
		Bookings:  bookings,
		Events:    events,
		Txn:       fakeTxn{},
		Locks:     coord,
		Cache:     cacheStore,
		Validator: validator.NewBookingValidator(),
		Observer:  counters,
		CacheTTL:  5 * time.Minute,
		Log:       log,
	})
	tracking := NewTrackingService(bookings, events, cacheStore, counters, 5*time.Minute, log)

	return &fixture{
		svc:      svc,
		tracking: tracking,
		store:    store,
		counters: counters,
		coord:    coord,
		redis:    mr,
		cache:    cacheStore,
	}
}

var refPattern = regexp.MustCompile(`^ACB[A-Z0-9]{5}$`)

func mustCreate(t *testing.T, f *fixture, origin, destination string) *model.Booking {
	t.Helper()
	booking, err := f.svc.Create(context.Background(), &model.BookingCreate{
		Origin:      origin,
		Destination: destination,
		Pieces:      10,
		WeightKg:    500,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return booking
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)

	booking := mustCreate(t, f, "DEL", "BLR")

	if booking.Status != model.StatusBooked {
		t.Errorf("status = %s, want BOOKED", booking.Status)
	}
	if !refPattern.MatchString(booking.RefID) {
		t.Errorf("ref_id = %q, want match for %s", booking.RefID, refPattern)
	}
	if booking.Origin != "DEL" || booking.Destination != "BLR" {
		t.Errorf("route = %s->%s, want DEL->BLR", booking.Origin, booking.Destination)
	}

	history, err := f.tracking.GetHistory(context.Background(), booking.RefID)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history.Timeline) != 1 || history.Timeline[0].EventType != model.StatusBooked {
		t.Fatalf("timeline = %+v, want single BOOKED event", history.Timeline)
	}
	if history.Timeline[0].Location != "DEL" {
		t.Errorf("first event location = %q, want DEL", history.Timeline[0].Location)
	}

	if f.counters.Snapshot().Created != 1 {
		t.Error("expected bookings-created counter to fire")
	}
}

func TestCreateNormalizesAirportCodes(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)

	booking := mustCreate(t, f, " del ", " blr ")
	if booking.Origin != "DEL" || booking.Destination != "BLR" {
		t.Errorf("route = %s->%s, want DEL->BLR", booking.Origin, booking.Destination)
	}
}

func TestCreateRejectsSameOriginDestination(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)

	_, err := f.svc.Create(context.Background(), &model.BookingCreate{
		Origin:      "DEL",
		Destination: " del ",
		Pieces:      1,
		WeightKg:    1,
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("code = %s, want INVALID_INPUT", appErr.Code)
	}
}

func TestCreateValidatesPayload(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)

	_, err := f.svc.Create(context.Background(), &model.BookingCreate{
		Origin:      "DEL",
		Destination: "BLR",
		Pieces:      0,
		WeightKg:    -5,
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("code = %s, want VALIDATION_ERROR", appErr.Code)
	}
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)
	ctx := context.Background()

	booking := mustCreate(t, f, "DEL", "BLR")
	ref := booking.RefID

	if _, err := f.svc.Depart(ctx, ref, &model.TransitionRequest{Location: "DEL", FlightNumber: "AI101"}); err != nil {
		t.Fatalf("Depart: %v", err)
	}
	if _, err := f.svc.Arrive(ctx, ref, &model.TransitionRequest{Location: "BLR"}); err != nil {
		t.Fatalf("Arrive: %v", err)
	}
	delivered, err := f.svc.Deliver(ctx, ref, &model.TransitionRequest{Location: "BLR"})
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if delivered.Status != model.StatusDelivered {
		t.Errorf("status = %s, want DELIVERED", delivered.Status)
	}

	history, err := f.tracking.GetHistory(ctx, ref)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	want := []model.Status{model.StatusBooked, model.StatusDeparted, model.StatusArrived, model.StatusDelivered}
	if len(history.Timeline) != len(want) {
		t.Fatalf("timeline has %d events, want %d", len(history.Timeline), len(want))
	}
	for i, event := range history.Timeline {
		if event.EventType != want[i] {
			t.Errorf("timeline[%d] = %s, want %s", i, event.EventType, want[i])
		}
	}
	// Stored status always equals the type of the latest event.
	if history.Booking.Status != history.Timeline[len(history.Timeline)-1].EventType {
		t.Errorf("status %s diverges from last event %s",
			history.Booking.Status, history.Timeline[len(history.Timeline)-1].EventType)
	}
}

func TestDeliverRequiresArrived(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)
	ctx := context.Background()

	booking := mustCreate(t, f, "DEL", "BLR")

	_, err := f.svc.Deliver(ctx, booking.RefID, &model.TransitionRequest{Location: "BLR"})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidTransition {
		t.Fatalf("code = %s, want INVALID_TRANSITION", appErr.Code)
	}
	if appErr.Message != "booking must be ARRIVED before it can be delivered" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestCancelAfterArrivalRejected(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)
	ctx := context.Background()

	booking := mustCreate(t, f, "DEL", "BLR")
	ref := booking.RefID

	if _, err := f.svc.Depart(ctx, ref, &model.TransitionRequest{Location: "DEL"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Arrive(ctx, ref, &model.TransitionRequest{Location: "BLR"}); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Cancel(ctx, ref, nil)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidTransition {
		t.Fatalf("code = %s, want INVALID_TRANSITION", appErr.Code)
	}
	if appErr.Message != "cannot cancel a booking that has already arrived" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestCancelTwiceRejected(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)
	ctx := context.Background()

	booking := mustCreate(t, f, "DEL", "BLR")

	if _, err := f.svc.Cancel(ctx, booking.RefID, nil); err != nil {
		t.Fatalf("first Cancel: %v", err)
	}

	_, err := f.svc.Cancel(ctx, booking.RefID, nil)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidTransition {
		t.Fatalf("code = %s, want INVALID_TRANSITION", appErr.Code)
	}
	if appErr.Message != "booking is cancelled; no further changes are allowed" {
		t.Errorf("message = %q", appErr.Message)
	}
}

// Two racing Departs: exactly one wins; the other serializes behind the
// lock, re-reads the departed state and fails the transition guard.
func TestConcurrentDeparts(t *testing.T) {
	f := newFixture(t, 100, 5*time.Millisecond)
	ctx := context.Background()

	booking := mustCreate(t, f, "DEL", "BLR")
	ref := booking.RefID

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Depart(ctx, ref, &model.TransitionRequest{Location: "DEL"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeInvalidTransition {
			t.Fatalf("unexpected error: %v", err)
		}
		if appErr.Message != "booking is already departed" {
			t.Errorf("message = %q, want 'booking is already departed'", appErr.Message)
		}
		rejected++
	}
	if succeeded != 1 || rejected != 1 {
		t.Errorf("succeeded=%d rejected=%d, want exactly one of each", succeeded, rejected)
	}

	history, err := f.tracking.GetHistory(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Timeline) != 2 {
		t.Errorf("timeline has %d events, want 2 (no duplicate DEPARTED)", len(history.Timeline))
	}
}

func TestTransitionWhileLockHeld(t *testing.T) {
	f := newFixture(t, 2, 5*time.Millisecond)
	ctx := context.Background()

	booking := mustCreate(t, f, "DEL", "BLR")

	holder := f.coord.Lock("booking:" + booking.RefID)
	if !holder.Acquire(ctx) {
		t.Fatal("setup: could not take lock")
	}
	defer holder.Release(ctx)

	_, err := f.svc.Depart(ctx, booking.RefID, &model.TransitionRequest{Location: "DEL"})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeLockConflict {
		t.Fatalf("code = %s, want LOCK_CONFLICT", appErr.Code)
	}
	if f.counters.Snapshot().LockConflicts != 1 {
		t.Error("expected lock-conflict counter to fire")
	}
}

func TestGetReadThroughCache(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)
	ctx := context.Background()

	booking := mustCreate(t, f, "DEL", "BLR")

	first, err := f.svc.Get(ctx, booking.RefID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.Get(ctx, " "+booking.RefID+" ")
	if err != nil {
		t.Fatal(err)
	}
	if first.RefID != second.RefID {
		t.Errorf("refs differ: %s vs %s", first.RefID, second.RefID)
	}

	snap := f.counters.Snapshot()
	if snap.CacheMisses["booking"] != 1 || snap.CacheHits["booking"] != 1 {
		t.Errorf("cache misses=%d hits=%d, want 1 and 1",
			snap.CacheMisses["booking"], snap.CacheHits["booking"])
	}
}

// A transition must remove cached reads before the lock is released so
// the next Get observes the new state immediately.
func TestTransitionInvalidatesCache(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)
	ctx := context.Background()

	booking := mustCreate(t, f, "DEL", "BLR")
	ref := booking.RefID

	if _, err := f.svc.Get(ctx, ref); err != nil {
		t.Fatal(err)
	}
	if _, err := f.tracking.GetHistory(ctx, ref); err != nil {
		t.Fatal(err)
	}
	if !f.redis.Exists(cache.BookingKey(ref)) || !f.redis.Exists(cache.HistoryKey(ref)) {
		t.Fatal("setup: expected cache entries after reads")
	}

	if _, err := f.svc.Depart(ctx, ref, &model.TransitionRequest{Location: "DEL"}); err != nil {
		t.Fatal(err)
	}

	if f.redis.Exists(cache.BookingKey(ref)) || f.redis.Exists(cache.HistoryKey(ref)) {
		t.Error("cache entries should be invalidated by the transition")
	}

	got, err := f.svc.Get(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.StatusDeparted {
		t.Errorf("status after transition = %s, want DEPARTED", got.Status)
	}
}

func TestTransitionUnknownBooking(t *testing.T) {
	f := newFixture(t, 3, 10*time.Millisecond)

	_, err := f.svc.Depart(context.Background(), "ACBZZZZZ", &model.TransitionRequest{Location: "DEL"})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("code = %s, want NOT_FOUND", appErr.Code)
	}
}
