package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrTooSoon возвращается, когда новая дата раньше минимально допустимой
	ErrTooSoon = errors.New("bookings: date is too soon")

	// ErrSlotTaken возвращается, когда целевой слот занят другим бронированием
	ErrSlotTaken = errors.New("bookings: slot already taken")

	// ErrSlotBlocked возвращается, когда целевой слот попадает в окно другого бронирования
	ErrSlotBlocked = errors.New("bookings: slot blocked by another booking")

	// ErrStoreUnavailable возвращается, когда хранилище не ответило
	ErrStoreUnavailable = errors.New("bookings: store unavailable")
)
