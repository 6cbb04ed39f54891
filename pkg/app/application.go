// Package app assembles the HTTP server: router, middleware chain,
// lifecycle signals and graceful shutdown.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/config"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/contracts"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/middleware"
)

type Application struct {
	cfg         *config.Config
	router      *httprouter.Router
	server      *http.Server
	rateLimiter *middleware.IPRateLimiter
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{
		cfg:         cfg,
		router:      httprouter.New(),
		rateLimiter: middleware.NewIPRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.Log),
	}
}

// SetApp registers every handler's routes and builds the middleware
// chain around the router. Recovery is outermost so panics anywhere in
// the chain still produce a clean 500.
func (a *Application) SetApp(handlers ...contracts.Handler) {
	for _, h := range handlers {
		h.RegisterRoutes(a.router)
	}

	var chain http.Handler = a.router
	chain = middleware.RequestTimeout(a.cfg.RequestTimeout)(chain)
	chain = middleware.RateLimit(a.rateLimiter)(chain)
	chain = middleware.RequestLogging(a.cfg.Log)(chain)
	chain = middleware.Recovery(a.cfg.Log)(chain)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      chain,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}
}

// Mount attaches a raw http.Handler (such as the metrics exporter)
// outside the contracts.Handler registration path.
func (a *Application) Mount(method, path string, h http.Handler) {
	a.router.Handler(method, path, h)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests
// and closes backing connections.
func (a *Application) Run() {
	log := a.cfg.Log

	go func() {
		log.Info("Server starting", "port", a.cfg.Port)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	a.gracefulShutdown()
}

func (a *Application) gracefulShutdown() {
	log := a.cfg.Log

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	} else {
		log.Info("Server stopped accepting connections")
	}

	a.rateLimiter.Stop()
	a.cfg.GracefulShutdown()
	log.Info("Shutdown complete")
}
