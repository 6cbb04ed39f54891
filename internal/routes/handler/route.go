package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/routes/service"
	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
	httpx "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/http"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
)

const dateLayout = "2006-01-02"

type RouteHandler struct {
	routes service.RouteService
	log    *logger.Logger
}

func NewRouteHandler(routes service.RouteService, log *logger.Logger) *RouteHandler {
	return &RouteHandler{routes: routes, log: log}
}

func (h *RouteHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/routes", h.Search)
}

func (h *RouteHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	origin := query.Get("origin")
	destination := query.Get("destination")
	rawDate := query.Get("departure_date")

	if rawDate == "" {
		h.writeError(w, r, apperrors.InvalidInput("departure_date is required"))
		return
	}
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		h.writeError(w, r, apperrors.InvalidInput("departure_date must be formatted as YYYY-MM-DD"))
		return
	}

	response, err := h.routes.Search(r.Context(), origin, destination, date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpx.WriteSuccess(w, response)
}

func (h *RouteHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	_ = httpx.WriteError(w, appErr)
}
