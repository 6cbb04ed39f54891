package service

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/cache"
	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/metrics"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

type memFlightRepo struct {
	flights []*model.Flight
}

func (r *memFlightRepo) FindDirect(_ context.Context, origin, destination string, day time.Time) ([]*model.Flight, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	return r.filter(func(f *model.Flight) bool {
		return f.Origin == origin && f.Destination == destination &&
			!f.DepartureTime.Before(dayStart) && f.DepartureTime.Before(dayStart.Add(24*time.Hour))
	}), nil
}

func (r *memFlightRepo) FindFromOrigin(_ context.Context, origin string, day time.Time) ([]*model.Flight, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	return r.filter(func(f *model.Flight) bool {
		return f.Origin == origin &&
			!f.DepartureTime.Before(dayStart) && f.DepartureTime.Before(dayStart.Add(24*time.Hour))
	}), nil
}

func (r *memFlightRepo) FindToDestination(_ context.Context, destination string, from, to time.Time) ([]*model.Flight, error) {
	return r.filter(func(f *model.Flight) bool {
		return f.Destination == destination &&
			!f.DepartureTime.Before(from) && f.DepartureTime.Before(to)
	}), nil
}

func (r *memFlightRepo) EnsureIndexes(context.Context) error { return nil }

func (r *memFlightRepo) filter(keep func(*model.Flight) bool) []*model.Flight {
	out := make([]*model.Flight, 0)
	for _, f := range r.flights {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DepartureTime.Before(out[j].DepartureTime)
	})
	return out
}

func flight(id, origin, destination string, dep, arr time.Time) *model.Flight {
	return &model.Flight{
		ID:            id,
		FlightNumber:  "AI" + id,
		AirlineName:   "Air India",
		Origin:        origin,
		Destination:   destination,
		DepartureTime: dep,
		ArrivalTime:   arr,
	}
}

func at(day time.Time, hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newRouteFixture(t *testing.T, flights []*model.Flight) (RouteService, *metrics.Counters, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
	counters := metrics.NewCounters()
	svc := NewRouteService(&memFlightRepo{flights: flights}, cache.NewStore(rc, log), counters, time.Hour, log)
	return svc, counters, mr
}

var day = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestSearchTransitRoute(t *testing.T) {
	svc, _, _ := newRouteFixture(t, []*model.Flight{
		flight("1", "DEL", "HYD", at(day, 6, 0), at(day, 9, 0)),
		flight("2", "HYD", "BLR", at(day, 11, 0), at(day, 12, 30)),
	})

	resp, err := svc.Search(context.Background(), "DEL", "BLR", day)
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.DirectFlights) != 0 {
		t.Errorf("direct flights = %d, want 0", len(resp.DirectFlights))
	}
	if len(resp.TransitRoutes) != 1 {
		t.Fatalf("transit routes = %d, want 1", len(resp.TransitRoutes))
	}
	route := resp.TransitRoutes[0]
	if route.TransitAirport != "HYD" {
		t.Errorf("transit airport = %s, want HYD", route.TransitAirport)
	}
	if route.TotalDurationHours != 6.5 {
		t.Errorf("total duration = %v, want 6.5", route.TotalDurationHours)
	}
	if len(route.Flights) != 2 || route.Flights[0].ID != "1" || route.Flights[1].ID != "2" {
		t.Errorf("route legs = %+v, want flights 1 then 2", route.Flights)
	}
}

// A 30 minute layover is below the minimum connection time.
func TestSearchShortConnectionExcluded(t *testing.T) {
	svc, _, _ := newRouteFixture(t, []*model.Flight{
		flight("1", "DEL", "HYD", at(day, 6, 0), at(day, 9, 0)),
		flight("2", "HYD", "BLR", at(day, 9, 30), at(day, 11, 0)),
	})

	resp, err := svc.Search(context.Background(), "DEL", "BLR", day)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.TransitRoutes) != 0 {
		t.Errorf("transit routes = %d, want 0", len(resp.TransitRoutes))
	}
}

// An exactly two hour layover is the boundary and is accepted.
func TestSearchMinimumConnectionAccepted(t *testing.T) {
	svc, _, _ := newRouteFixture(t, []*model.Flight{
		flight("1", "DEL", "HYD", at(day, 6, 0), at(day, 9, 0)),
		flight("2", "HYD", "BLR", at(day, 11, 0), at(day, 13, 0)),
	})

	resp, err := svc.Search(context.Background(), "DEL", "BLR", day)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.TransitRoutes) != 1 {
		t.Errorf("transit routes = %d, want 1", len(resp.TransitRoutes))
	}
}

// Second legs departing after the end of the following day are out of
// the connection window.
func TestSearchBeyondNextDayExcluded(t *testing.T) {
	svc, _, _ := newRouteFixture(t, []*model.Flight{
		flight("1", "DEL", "HYD", at(day, 6, 0), at(day, 9, 0)),
		flight("2", "HYD", "BLR", at(day, 48, 30), at(day, 50, 0)),
	})

	resp, err := svc.Search(context.Background(), "DEL", "BLR", day)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.TransitRoutes) != 0 {
		t.Errorf("transit routes = %d, want 0", len(resp.TransitRoutes))
	}
}

func TestSearchNextDayConnectionAccepted(t *testing.T) {
	svc, _, _ := newRouteFixture(t, []*model.Flight{
		flight("1", "DEL", "HYD", at(day, 20, 0), at(day, 23, 0)),
		flight("2", "HYD", "BLR", at(day, 30, 0), at(day, 31, 30)),
	})

	resp, err := svc.Search(context.Background(), "DEL", "BLR", day)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.TransitRoutes) != 1 {
		t.Fatalf("transit routes = %d, want 1", len(resp.TransitRoutes))
	}
	if got := resp.TransitRoutes[0].TotalDurationHours; got != 11.5 {
		t.Errorf("total duration = %v, want 11.5", got)
	}
}

func TestSearchDirectFlightsSorted(t *testing.T) {
	svc, _, _ := newRouteFixture(t, []*model.Flight{
		flight("2", "DEL", "BLR", at(day, 14, 0), at(day, 17, 0)),
		flight("1", "DEL", "BLR", at(day, 6, 0), at(day, 9, 0)),
	})

	resp, err := svc.Search(context.Background(), "DEL", "BLR", day)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.DirectFlights) != 2 {
		t.Fatalf("direct flights = %d, want 2", len(resp.DirectFlights))
	}
	if resp.DirectFlights[0].ID != "1" || resp.DirectFlights[1].ID != "2" {
		t.Error("direct flights should be ordered by departure time")
	}
}

// A first leg that already lands at the destination is a direct flight,
// not a transit candidate.
func TestSearchTransitViaDestinationSkipped(t *testing.T) {
	svc, _, _ := newRouteFixture(t, []*model.Flight{
		flight("1", "DEL", "BLR", at(day, 6, 0), at(day, 9, 0)),
		flight("2", "BLR", "MAA", at(day, 12, 0), at(day, 13, 0)),
	})

	resp, err := svc.Search(context.Background(), "DEL", "BLR", day)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.TransitRoutes) != 0 {
		t.Errorf("transit routes = %d, want 0", len(resp.TransitRoutes))
	}
}

func TestSearchNormalizesAirportCodes(t *testing.T) {
	svc, _, _ := newRouteFixture(t, []*model.Flight{
		flight("1", "DEL", "BLR", at(day, 6, 0), at(day, 9, 0)),
	})

	resp, err := svc.Search(context.Background(), " del ", " blr ", day)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Origin != "DEL" || resp.Destination != "BLR" {
		t.Errorf("route = %s->%s, want DEL->BLR", resp.Origin, resp.Destination)
	}
	if len(resp.DirectFlights) != 1 {
		t.Errorf("direct flights = %d, want 1", len(resp.DirectFlights))
	}
}

func TestSearchRejectsSameOriginDestination(t *testing.T) {
	svc, _, _ := newRouteFixture(t, nil)

	_, err := svc.Search(context.Background(), "DEL", " del ", day)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("code = %s, want INVALID_INPUT", appErr.Code)
	}
}

func TestSearchCachesResponse(t *testing.T) {
	svc, counters, mr := newRouteFixture(t, []*model.Flight{
		flight("1", "DEL", "BLR", at(day, 6, 0), at(day, 9, 0)),
	})
	ctx := context.Background()

	if _, err := svc.Search(ctx, "DEL", "BLR", day); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(cache.RouteKey("DEL", "BLR", "2026-09-01")) {
		t.Error("expected route response to be cached")
	}

	second, err := svc.Search(ctx, "DEL", "BLR", day)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.DirectFlights) != 1 {
		t.Errorf("cached response has %d direct flights, want 1", len(second.DirectFlights))
	}

	snap := counters.Snapshot()
	if snap.RouteSearches != 2 {
		t.Errorf("route searches = %d, want 2", snap.RouteSearches)
	}
	if snap.CacheMisses["route"] != 1 || snap.CacheHits["route"] != 1 {
		t.Errorf("cache misses=%d hits=%d, want 1 and 1",
			snap.CacheMisses["route"], snap.CacheHits["route"])
	}
}
