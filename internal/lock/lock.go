package lock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotAcquired возвращается, когда блокировка уже занята
	ErrNotAcquired = errors.New("lock: not acquired")

	// ErrNotHeld возвращается при попытке снять чужую или истекшую блокировку
	ErrNotHeld = errors.New("lock: not held")
)

// Locker распределенная блокировка по строковому ключу.
// Используется поверх транзакционных гарантий БД, когда сервис
// работает в несколько инстансов.
type Locker interface {
	// Acquire берет блокировку на ключ с TTL. Возвращает ErrNotAcquired,
	// если ключ уже занят другим держателем.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Release снимает ранее взятую блокировку
type Release func(ctx context.Context) error

// Nop блокировка-заглушка для одноинстансного развертывания
type Nop struct{}

func NewNop() *Nop {
	return &Nop{}
}

func (n *Nop) Acquire(_ context.Context, _ string, _ time.Duration) (Release, error) {
	return func(context.Context) error { return nil }, nil
}
