package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/internal/bookings/service"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/config"
	apperrors "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/errors"
	httpx "github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/http"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/logger"
	"github.com/HarshMishra-Git/Air-Cargo-Booking-Tracking/pkg/model"
)

type BookingHandler struct {
	bookings service.BookingService
	tracking service.TrackingService
	log      *logger.Logger
}

func NewBookingHandler(bookings service.BookingService, tracking service.TrackingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		tracking: tracking,
		log:      log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/:ref_id", h.Get)
	router.GET("/api/v1/bookings/:ref_id/history", h.History)
	router.POST("/api/v1/bookings/:ref_id/depart", h.Depart)
	router.POST("/api/v1/bookings/:ref_id/arrive", h.Arrive)
	router.POST("/api/v1/bookings/:ref_id/deliver", h.Deliver)
	router.POST("/api/v1/bookings/:ref_id/cancel", h.Cancel)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid JSON payload"))
		return
	}

	booking, err := h.bookings.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpx.WriteCreated(w, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.bookings.Get(r.Context(), ps.ByName("ref_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpx.WriteSuccess(w, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit = config.NormalizePaginationLimit(limit)
	offset = int(config.NormalizeOffset(int64(offset)))

	bookings, total, err := h.bookings.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpx.WritePaginated(w, bookings, total, limit, offset)
}

func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	history, err := h.tracking.GetHistory(r.Context(), ps.ByName("ref_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpx.WriteSuccess(w, history)
}

func (h *BookingHandler) Depart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, ps, h.bookings.Depart, true)
}

func (h *BookingHandler) Arrive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, ps, h.bookings.Arrive, true)
}

func (h *BookingHandler) Deliver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, ps, h.bookings.Deliver, true)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, ps, h.bookings.Cancel, false)
}

type transitionFunc func(ctx context.Context, ref string, req *model.TransitionRequest) (*model.Booking, error)

// transition decodes the shared depart/arrive/deliver payload and
// applies the given lifecycle step. Cancel carries no required payload:
// an empty body maps to a nil request.
func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, ps httprouter.Params, apply transitionFunc, payloadRequired bool) {
	var req *model.TransitionRequest

	if payloadRequired || (r.Body != nil && r.ContentLength != 0) {
		req = &model.TransitionRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			h.writeError(w, r, apperrors.InvalidInput("invalid JSON payload"))
			return
		}
	}

	booking, err := apply(r.Context(), ps.ByName("ref_id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpx.WriteSuccess(w, booking)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
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
