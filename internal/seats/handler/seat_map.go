package handler

import (
	"net/http"

	"skyseat/internal/seats/service"
	httputil "skyseat/pkg/http"
	"skyseat/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type SeatMapHandler struct {
	service service.SeatMapService
	log     *logger.Logger
}

func NewSeatMapHandler(service service.SeatMapService, log *logger.Logger) *SeatMapHandler {
	return &SeatMapHandler{
		service: service,
		log:     log,
	}
}

func (h *SeatMapHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	scheduleID := query.Get("flightScheduleId")
	seatClass := query.Get("seatClass")

	seatMap, err := h.service.BuildSeatMap(r.Context(), scheduleID, seatClass)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, seatMap); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

// OpenInventory seeds seat inventory for a schedule. Idempotent; seats that
// already exist are skipped.
func (h *SeatMapHandler) OpenInventory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	scheduleID := ps.ByName("scheduleId")

	seeded, err := h.service.OpenInventory(r.Context(), scheduleID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "OpenInventory", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"seeded": seeded}); err != nil {
		h.log.Error("failed to write success response", "handler", "OpenInventory", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeatMapHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/seat-maps", h.Get)
	router.POST("/api/v1/flight-schedules/:scheduleId/seats", h.OpenInventory)
}
