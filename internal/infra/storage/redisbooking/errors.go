package redisbooking

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("booking.redis: %w", storage.ErrBookingNotFound)

	// ErrSlotTaken возвращается, если ключ слота уже занят
	ErrSlotTaken = fmt.Errorf("booking.redis: %w", storage.ErrSlotTaken)

	// ErrLockTimeout возвращается, если блокировку даты не удалось получить за отведенное время
	ErrLockTimeout = fmt.Errorf("booking.redis: date lock timeout: %w", storage.ErrUnavailable)

	// ErrCommand возвращается при ошибке выполнения команды redis
	ErrCommand = fmt.Errorf("booking.redis: command failed: %w", storage.ErrUnavailable)

	// ErrDecode возвращается, если запись бронирования не удалось разобрать
	ErrDecode = fmt.Errorf("booking.redis: failed to decode booking: %w", storage.ErrUnavailable)
)
