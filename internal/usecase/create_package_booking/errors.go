package create_package_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_package_booking: invalid input data")

	// ErrInvalidDate возвращается при дате заезда в прошлом
	ErrInvalidDate = errors.New("create_package_booking: invalid check-in date")

	// ErrDateTooFarInFuture возвращается, когда дата заезда превышает окно бронирования
	ErrDateTooFarInFuture = errors.New("create_package_booking: date is too far in the future")

	// ErrScheduleMismatch возвращается, когда даты сессий не соответствуют графику пакета
	ErrScheduleMismatch = errors.New("create_package_booking: session schedule mismatch")

	// ErrAccommodationCapacity возвращается, когда группа не помещается в жилой фонд
	ErrAccommodationCapacity = errors.New("create_package_booking: accommodation capacity exceeded")

	// ErrActivityNotConfigured возвращается, когда активность не настроена в слоте сессии
	ErrActivityNotConfigured = errors.New("create_package_booking: activity not configured for slot")

	// ErrInsufficientCapacity возвращается, когда какой-то сессии не хватает мест
	ErrInsufficientCapacity = errors.New("create_package_booking: insufficient capacity")

	// ErrNoSlotAvailable возвращается, когда на дату сессии нет подходящего слота
	ErrNoSlotAvailable = errors.New("create_package_booking: no slot available for session")

	// ErrSlotBusy возвращается, когда кортеж вместимости заблокирован параллельным бронированием
	ErrSlotBusy = errors.New("create_package_booking: slot is busy, try again")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_package_booking: internal error")
)
