package create_package_booking

import (
	"errors"
	"net/http"

	"github.com/wavehouse/MSC-BookingService/internal/api/handlers"
	createPackageBooking "github.com/wavehouse/MSC-BookingService/internal/usecase/create_package_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput          = "некорректные данные бронирования"
	msgInvalidCheckIn        = "дата заезда уже прошла"
	msgDateTooFar            = "дата заезда за пределами окна бронирования"
	msgScheduleMismatch      = "даты сессий не соответствуют графику пакета"
	msgAccommodationCapacity = "группа не помещается в выбранное размещение"
	msgActivityNotConfigured = "активность недоступна в слоте сессии"
	msgInsufficientCapacity  = "недостаточно мест для одной из сессий"
	msgNoSlotAvailable       = "нет доступного слота на дату сессии"
	msgSlotBusy              = "слот занят другим бронированием, попробуйте еще раз"
)

type Handler struct {
	useCase CreatePackageBookingUseCase
	metrics BookingMetrics
	logger  Logger
}

func NewHandler(useCase CreatePackageBookingUseCase, metrics BookingMetrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/package
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreatePackageBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/package - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/package - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createPackageBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/package - Invalid input: %v", err)
			handlers.RespondUnprocessable(w, msgInvalidInput)

		case errors.Is(err, createPackageBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings/package - Invalid check-in date: %s", req.CheckInDate)
			handlers.RespondUnprocessable(w, msgInvalidCheckIn)

		case errors.Is(err, createPackageBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings/package - Date too far: %s", req.CheckInDate)
			handlers.RespondUnprocessable(w, msgDateTooFar)

		case errors.Is(err, createPackageBooking.ErrScheduleMismatch):
			h.logger.Warn("POST /bookings/package - Schedule mismatch: package=%s, check_in=%s", req.PackageType, req.CheckInDate)
			handlers.RespondUnprocessable(w, msgScheduleMismatch)

		case errors.Is(err, createPackageBooking.ErrAccommodationCapacity):
			h.logger.Warn("POST /bookings/package - Accommodation capacity exceeded: accommodation=%s, people=%d",
				req.Accommodation, len(req.People))
			handlers.RespondConflict(w, msgAccommodationCapacity)

		case errors.Is(err, createPackageBooking.ErrActivityNotConfigured):
			h.logger.Warn("POST /bookings/package - Activity not configured: %v", err)
			handlers.RespondUnprocessable(w, msgActivityNotConfigured)

		case errors.Is(err, createPackageBooking.ErrInsufficientCapacity):
			h.logger.Warn("POST /bookings/package - Insufficient capacity: package=%s, people=%d", req.PackageType, len(req.People))
			h.metrics.IncCapacityRejected("package")
			handlers.RespondConflict(w, msgInsufficientCapacity)

		case errors.Is(err, createPackageBooking.ErrNoSlotAvailable):
			h.logger.Warn("POST /bookings/package - No slot available: package=%s, check_in=%s", req.PackageType, req.CheckInDate)
			handlers.RespondConflict(w, msgNoSlotAvailable)

		case errors.Is(err, createPackageBooking.ErrSlotBusy):
			h.logger.Warn("POST /bookings/package - Slot busy: package=%s", req.PackageType)
			handlers.RespondConflict(w, msgSlotBusy)

		default:
			h.logger.Error("POST /bookings/package - Failed to create booking: package=%s, error=%v", req.PackageType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncBookingCreated("package")

	h.logger.Info("POST /bookings/package - Booking created: booking_id=%d, reference=%s, sessions=%d",
		result.ID, result.Reference, len(result.Sessions))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
