package get_schedule

import (
	"net/http"

	"github.com/wavehouse/MSC-BookingService/internal/api/handlers"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.WeeklySchedule(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/schedule - Failed to get schedule: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/schedule - Schedule retrieved: days=%d", len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
