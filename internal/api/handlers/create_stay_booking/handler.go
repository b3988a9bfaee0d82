package create_stay_booking

import (
	"errors"
	"net/http"

	"github.com/wavehouse/MSC-BookingService/internal/api/handlers"
	createStayBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_stay_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput          = "некорректные данные бронирования"
	msgInvalidCheckIn        = "дата заезда уже прошла"
	msgDateTooFar            = "дата заезда за пределами окна бронирования"
	msgAccommodationCapacity = "группа не помещается в выбранное размещение"
)

type Handler struct {
	useCase CreateStayBookingUseCase
	metrics BookingMetrics
	logger  Logger
}

func NewHandler(useCase CreateStayBookingUseCase, metrics BookingMetrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/stay
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateStayBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/stay - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/stay - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createStayBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/stay - Invalid input: %v", err)
			handlers.RespondUnprocessable(w, msgInvalidInput)

		case errors.Is(err, createStayBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings/stay - Invalid check-in date: %s", req.CheckInDate)
			handlers.RespondUnprocessable(w, msgInvalidCheckIn)

		case errors.Is(err, createStayBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings/stay - Date too far: %s", req.CheckInDate)
			handlers.RespondUnprocessable(w, msgDateTooFar)

		case errors.Is(err, createStayBooking.ErrAccommodationCapacity):
			h.logger.Warn("POST /bookings/stay - Accommodation capacity exceeded: accommodation=%s, people=%d",
				req.Accommodation, len(req.People))
			handlers.RespondConflict(w, msgAccommodationCapacity)

		default:
			h.logger.Error("POST /bookings/stay - Failed to create booking: accommodation=%s, error=%v",
				req.Accommodation, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncBookingCreated("stay_only")

	h.logger.Info("POST /bookings/stay - Booking created: booking_id=%d, nights=%d, people=%d",
		result.ID, result.Nights, result.TotalPeople)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
