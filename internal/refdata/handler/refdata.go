package handler

import (
	"net/http"
	"time"

	"skyseat/internal/refdata/service"
	apperrors "skyseat/pkg/errors"
	httputil "skyseat/pkg/http"
	"skyseat/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type RefDataHandler struct {
	service service.RefDataService
	log     *logger.Logger
}

func NewRefDataHandler(service service.RefDataService, log *logger.Logger) *RefDataHandler {
	return &RefDataHandler{
		service: service,
		log:     log,
	}
}

func (h *RefDataHandler) ListSeatClasses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	classes, err := h.service.ListSeatClasses(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSeatClasses", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, classes); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSeatClasses", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RefDataHandler) SearchSchedules(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	var date time.Time
	if dateStr := query.Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("date must be formatted YYYY-MM-DD")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "SearchSchedules", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		date = parsed
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SearchSchedules", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	listings, err := h.service.SearchSchedules(r.Context(), query.Get("from"), query.Get("to"), date, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SearchSchedules", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, listings); err != nil {
		h.log.Error("failed to write success response", "handler", "SearchSchedules", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RefDataHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	methods, err := h.service.ListPaymentMethods(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListPaymentMethods", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, methods); err != nil {
		h.log.Error("failed to write success response", "handler", "ListPaymentMethods", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RefDataHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/seat-classes", h.ListSeatClasses)
	router.GET("/api/v1/flight-schedules", h.SearchSchedules)
	router.GET("/api/v1/payment-methods", h.ListPaymentMethods)
}
