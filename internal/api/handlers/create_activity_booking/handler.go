package create_activity_booking

import (
	"errors"
	"net/http"

	"github.com/wavehouse/MSC-BookingService/internal/api/handlers"
	createActivityBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_activity_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput          = "некорректные данные бронирования"
	msgInvalidBookingDate    = "дата сессии уже прошла"
	msgDateTooFar            = "дата сессии за пределами окна бронирования"
	msgSlotNotFound          = "слот не найден"
	msgSlotDayMismatch       = "слот не работает в выбранную дату"
	msgActivityNotConfigured = "активность недоступна в выбранном слоте"
	msgInsufficientCapacity  = "недостаточно мест в выбранном слоте"
	msgSlotBusy              = "слот занят другим бронированием, попробуйте еще раз"
)

type Handler struct {
	useCase CreateActivityBookingUseCase
	metrics BookingMetrics
	logger  Logger
}

func NewHandler(useCase CreateActivityBookingUseCase, metrics BookingMetrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/activity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/activity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/activity - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createActivityBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/activity - Invalid input: %v", err)
			handlers.RespondUnprocessable(w, msgInvalidInput)

		case errors.Is(err, createActivityBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings/activity - Invalid date: slot_id=%d, date=%s", req.SlotID, req.Date)
			handlers.RespondUnprocessable(w, msgInvalidBookingDate)

		case errors.Is(err, createActivityBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings/activity - Date too far: slot_id=%d, date=%s", req.SlotID, req.Date)
			handlers.RespondUnprocessable(w, msgDateTooFar)

		case errors.Is(err, createActivityBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings/activity - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createActivityBooking.ErrSlotDayMismatch):
			h.logger.Warn("POST /bookings/activity - Slot day mismatch: slot_id=%d, date=%s", req.SlotID, req.Date)
			handlers.RespondUnprocessable(w, msgSlotDayMismatch)

		case errors.Is(err, createActivityBooking.ErrActivityNotConfigured):
			h.logger.Warn("POST /bookings/activity - Activity not configured: slot_id=%d, activity=%s", req.SlotID, req.Activity)
			handlers.RespondUnprocessable(w, msgActivityNotConfigured)

		case errors.Is(err, createActivityBooking.ErrInsufficientCapacity):
			h.logger.Warn("POST /bookings/activity - Insufficient capacity: slot_id=%d, people=%d", req.SlotID, len(req.People))
			h.metrics.IncCapacityRejected(string(useCaseReq.Activity))
			handlers.RespondConflict(w, msgInsufficientCapacity)

		case errors.Is(err, createActivityBooking.ErrSlotBusy):
			h.logger.Warn("POST /bookings/activity - Slot busy: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotBusy)

		default:
			h.logger.Error("POST /bookings/activity - Failed to create booking: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncBookingCreated("activity")

	h.logger.Info("POST /bookings/activity - Booking created: booking_id=%d, reference=%s, people=%d",
		result.ID, result.Reference, result.TotalPeople)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
