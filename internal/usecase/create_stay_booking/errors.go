package create_stay_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_stay_booking: invalid input data")

	// ErrInvalidDate возвращается при дате заезда в прошлом
	ErrInvalidDate = errors.New("create_stay_booking: invalid check-in date")

	// ErrDateTooFarInFuture возвращается, когда дата заезда превышает окно бронирования
	ErrDateTooFarInFuture = errors.New("create_stay_booking: date is too far in the future")

	// ErrAccommodationCapacity возвращается, когда группа не помещается в жилой фонд
	ErrAccommodationCapacity = errors.New("create_stay_booking: accommodation capacity exceeded")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_stay_booking: internal error")
)
