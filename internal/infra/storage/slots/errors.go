package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slots.repository: slot not found")

	// ErrActivityNotConfigured возвращается, когда активность не настроена для слота
	ErrActivityNotConfigured = errors.New("slots.repository: activity not configured for slot")

	// ErrInsufficientCapacity возвращается, когда в слоте не хватает мест
	ErrInsufficientCapacity = errors.New("slots.repository: insufficient capacity")

	// ErrNoSlotAvailable возвращается, когда на дату нет слота с достаточной вместимостью
	ErrNoSlotAvailable = errors.New("slots.repository: no slot available for date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slots.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slots.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slots.repository: failed to scan row")
)
