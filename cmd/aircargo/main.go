package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookinghandler "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/handler"
	bookingrepo "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/repository"
	bookingservice "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/service"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/validator"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/cache"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/health"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/locks"
	routehandler "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/routes/handler"
	routerepo "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/routes/repository"
	routeservice "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/routes/service"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/app"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/config"
	mongodb "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/db/mongo"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/events"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/metrics"
)

const serviceName = "aircargo"

func main() {
	cfg := config.Load(serviceName)
	cfg.SetMongo()
	cfg.SetRedis()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	bookings := bookingrepo.NewBookingRepository(db, cfg.RequestTimeout)
	bookingEvents := bookingrepo.NewEventRepository(db, cfg.RequestTimeout)
	flights := routerepo.NewFlightRepository(db, cfg.RequestTimeout)

	ctx := context.Background()
	for name, ensure := range map[string]func(context.Context) error{
		"bookings":       bookings.EnsureIndexes,
		"booking_events": bookingEvents.EnsureIndexes,
		"flights":        flights.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			cfg.Log.Fatal("Failed to create indexes", "collection", name, "error", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := metrics.NewProm(registry)

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaEventsTopic != "" {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic, cfg.Log)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka publisher", "error", err)
			}
		}()
		publisher = kafkaPublisher
	}

	coordinator := locks.NewCoordinator(cfg.Client.Redis, cfg.LockTTL, cfg.LockRetryTimes, cfg.LockRetryDelay, cfg.Log)
	cacheStore := cache.NewStore(cfg.Client.Redis, cfg.Log)

	bookingSvc := bookingservice.NewBookingService(bookingservice.BookingDeps{
		Bookings:  bookings,
		Events:    bookingEvents,
		Txn:       mongodb.NewTransactionManager(cfg.Client.Mongo),
		Locks:     coordinator,
		Cache:     cacheStore,
		Validator: validator.NewBookingValidator(),
		Publisher: publisher,
		Observer:  observer,
		CacheTTL:  cfg.CacheTTL,
		Log:       cfg.Log,
	})
	trackingSvc := bookingservice.NewTrackingService(bookings, bookingEvents, cacheStore, observer, cfg.CacheTTL, cfg.Log)
	routeSvc := routeservice.NewRouteService(flights, cacheStore, observer, cfg.RouteCacheTTL, cfg.Log)

	application := app.NewApplication(cfg)
	application.SetApp(
		health.NewHandler(cfg.Client, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, trackingSvc, cfg.Log),
		routehandler.NewRouteHandler(routeSvc, cfg.Log),
	)
	application.Mount(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	application.Run()
}
