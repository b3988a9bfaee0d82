package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/wavehouse/MSC-BookingService/internal/api/handlers"
)

const (
	// StaffTokenHeader заголовок с токеном сотрудника для админских маршрутов
	StaffTokenHeader = "X-Staff-Token"

	msgMissingToken = "отсутствует токен сотрудника"
	msgInvalidToken = "неверный токен сотрудника"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// StaffAuth проверяет токен сотрудника на админских маршрутах
func StaffAuth(token string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(StaffTokenHeader)
			if provided == "" {
				logger.Warn("StaffAuth - Missing token: path=%s", r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				logger.Warn("StaffAuth - Invalid token: path=%s", r.URL.Path)
				handlers.RespondForbidden(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
