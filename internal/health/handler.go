// Package health exposes liveness and readiness probes. Liveness only
// proves the process is serving; readiness additionally pings MongoDB
// and Redis so a dead backing store takes the instance out of rotation.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/client"
	httpx "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/http"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
)

const probeTimeout = 2 * time.Second

type Handler struct {
	client *client.Client
	log    *logger.Logger
}

func NewHandler(c *client.Client, log *logger.Logger) *Handler {
	return &Handler{client: c, log: log}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Live)
	router.GET("/ready", h.Ready)
}

func (h *Handler) Live(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := map[string]string{
		"mongo": "ok",
		"redis": "ok",
	}
	healthy := true

	if err := h.client.Mongo.Ping(ctx, nil); err != nil {
		h.log.Warn("Readiness check failed for MongoDB", "error", err)
		checks["mongo"] = "unavailable"
		healthy = false
	}
	if err := h.client.Redis.Ping(ctx).Err(); err != nil {
		h.log.Warn("Readiness check failed for Redis", "error", err)
		checks["redis"] = "unavailable"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	_ = httpx.WriteJSON(w, status, checks)
}
