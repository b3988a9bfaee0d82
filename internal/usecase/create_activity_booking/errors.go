package create_activity_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_activity_booking: invalid input data")

	// ErrInvalidDate возвращается при дате сессии в прошлом
	ErrInvalidDate = errors.New("create_activity_booking: invalid session date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает окно бронирования
	ErrDateTooFarInFuture = errors.New("create_activity_booking: date is too far in the future")

	// ErrSlotNotFound возвращается, когда слот не найден или неактивен
	ErrSlotNotFound = errors.New("create_activity_booking: slot not found")

	// ErrSlotDayMismatch возвращается, когда день недели слота не совпадает с датой
	ErrSlotDayMismatch = errors.New("create_activity_booking: slot is not scheduled on this date")

	// ErrActivityNotConfigured возвращается, когда активность не настроена в слоте
	ErrActivityNotConfigured = errors.New("create_activity_booking: activity not configured for slot")

	// ErrInsufficientCapacity возвращается, когда в слоте не хватает мест на всю группу
	ErrInsufficientCapacity = errors.New("create_activity_booking: insufficient capacity")

	// ErrSlotBusy возвращается, когда кортеж вместимости заблокирован параллельным бронированием
	ErrSlotBusy = errors.New("create_activity_booking: slot is busy, try again")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_activity_booking: internal error")
)
