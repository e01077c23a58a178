// Package storage holds the error contract shared by every storage backend.
// Backends wrap these sentinels so callers can match them with errors.Is
// regardless of whether postgres, redis or the in-memory store is configured.
package storage

import "errors"

var (
	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("storage: booking not found")

	// ErrSlotTaken на (дату, время) уже есть бронирование
	ErrSlotTaken = errors.New("storage: slot already taken")

	// ErrWorkerNotFound работник не найден
	ErrWorkerNotFound = errors.New("storage: worker not found")

	// ErrAvailabilityNotFound правило доступности не найдено
	ErrAvailabilityNotFound = errors.New("storage: availability not found")

	// ErrTimeOffNotFound отгул не найден
	ErrTimeOffNotFound = errors.New("storage: time off not found")

	// ErrUnavailable хранилище недоступно или не смогло выполнить операцию
	ErrUnavailable = errors.New("storage: unavailable")
)
