package schedule

import "errors"

var (
	// ErrWorkerNotFound возвращается, когда работник не найден
	ErrWorkerNotFound = errors.New("schedule: worker not found")

	// ErrAvailabilityNotFound возвращается, когда правило доступности не найдено
	ErrAvailabilityNotFound = errors.New("schedule: availability not found")

	// ErrTimeOffNotFound возвращается, когда отгул не найден
	ErrTimeOffNotFound = errors.New("schedule: time off not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище не ответило
	ErrStoreUnavailable = errors.New("schedule: store unavailable")
)
