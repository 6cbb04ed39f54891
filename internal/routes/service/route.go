package service

import (
	"context"
	"math"
	"time"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/cache"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/routes/repository"
	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/metrics"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/sanitizer"
)

// minConnectionTime is the shortest layover accepted between the first
// leg's arrival and the second leg's departure.
const minConnectionTime = 2 * time.Hour

const dateLayout = "2006-01-02"

type RouteService interface {
	Search(ctx context.Context, origin, destination string, date time.Time) (*model.RouteResponse, error)
}

type routeService struct {
	flights  repository.FlightRepository
	cache    *cache.Store
	obs      metrics.Observer
	cacheTTL time.Duration
	log      *logger.Logger
}

func NewRouteService(
	flights repository.FlightRepository,
	cacheStore *cache.Store,
	obs metrics.Observer,
	cacheTTL time.Duration,
	log *logger.Logger,
) RouteService {
	if obs == nil {
		obs = metrics.Nop{}
	}
	return &routeService{
		flights:  flights,
		cache:    cacheStore,
		obs:      obs,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Search finds direct flights on the requested day plus one-hop transit
// itineraries whose second leg departs at least minConnectionTime after
// the first leg lands and no later than the end of the following day.
func (s *routeService) Search(ctx context.Context, origin, destination string, date time.Time) (*model.RouteResponse, error) {
	origin = sanitizer.NormalizeAirportCode(origin)
	destination = sanitizer.NormalizeAirportCode(destination)

	if origin == "" || destination == "" {
		return nil, apperrors.InvalidInput("origin and destination are required")
	}
	if origin == destination {
		return nil, apperrors.InvalidInput("origin and destination must be different")
	}

	s.obs.OnRouteSearch()

	dayStart := date.UTC().Truncate(24 * time.Hour)
	key := cache.RouteKey(origin, destination, dayStart.Format(dateLayout))

	var cached model.RouteResponse
	if s.cache.Get(ctx, key, &cached) {
		s.obs.OnCacheHit("route")
		return &cached, nil
	}
	s.obs.OnCacheMiss("route")

	direct, err := s.flights.FindDirect(ctx, origin, destination, dayStart)
	if err != nil {
		return nil, err
	}

	transit, err := s.findTransitRoutes(ctx, origin, destination, dayStart)
	if err != nil {
		return nil, err
	}

	response := &model.RouteResponse{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: dayStart.Format(dateLayout),
		DirectFlights: direct,
		TransitRoutes: transit,
	}
	s.cache.Set(ctx, key, response, s.cacheTTL)
	return response, nil
}

func (s *routeService) findTransitRoutes(ctx context.Context, origin, destination string, dayStart time.Time) ([]model.RouteOption, error) {
	firstLegs, err := s.flights.FindFromOrigin(ctx, origin, dayStart)
	if err != nil {
		return nil, err
	}

	// The connection must complete by the end of the next day; one query
	// fetches every candidate second leg in that window.
	windowEnd := dayStart.Add(48 * time.Hour)
	secondLegs, err := s.flights.FindToDestination(ctx, destination, dayStart, windowEnd)
	if err != nil {
		return nil, err
	}

	byOrigin := make(map[string][]*model.Flight)
	for _, f := range secondLegs {
		byOrigin[f.Origin] = append(byOrigin[f.Origin], f)
	}

	routes := make([]model.RouteOption, 0)
	for _, first := range firstLegs {
		transit := first.Destination
		if transit == destination || transit == origin {
			continue
		}

		earliest := first.ArrivalTime.Add(minConnectionTime)
		for _, second := range byOrigin[transit] {
			if second.DepartureTime.Before(earliest) {
				continue
			}
			if !second.DepartureTime.Before(windowEnd) {
				continue
			}

			routes = append(routes, model.RouteOption{
				RouteType:          "transit",
				Flights:            []*model.Flight{first, second},
				TotalDurationHours: roundHours(second.ArrivalTime.Sub(first.DepartureTime)),
				TransitAirport:     transit,
			})
		}
	}
	return routes, nil
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
