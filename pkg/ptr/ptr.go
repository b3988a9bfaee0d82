package ptr

// Ptr возвращает указатель на значение.
// Удобно для опциональных полей в запросах и фильтрах.
func Ptr[T any](v T) *T {
	return &v
}
