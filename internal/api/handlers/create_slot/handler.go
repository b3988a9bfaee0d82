package create_slot

import (
	"errors"
	"net/http"

	"github.com/wavehouse/MSC-BookingService/internal/api/handlers"
	"github.com/wavehouse/MSC-BookingService/internal/service/schedule"
	"github.com/wavehouse/MSC-BookingService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры слота"
	msgSlotOverlap        = "окно слота пересекается с существующим"
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

// Handle POST /api/v1/admin/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateSlot(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /admin/slots - Invalid input: %v", err)
			handlers.RespondUnprocessable(w, msgInvalidInput)

		case errors.Is(err, schedule.ErrSlotOverlap):
			h.logger.Warn("POST /admin/slots - Slot overlap: day=%d, start=%s", req.DayOfWeek, req.StartTime)
			handlers.RespondConflict(w, msgSlotOverlap)

		default:
			h.logger.Error("POST /admin/slots - Failed to create slot: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots - Slot created: slot_id=%d, day=%d", result.ID, result.DayOfWeek)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
