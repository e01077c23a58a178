package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrTooSoon возвращается, когда дата раньше минимально допустимой
	ErrTooSoon = errors.New("create_booking: date is too soon")

	// ErrSlotTaken возвращается, когда на (дату, время) уже есть бронирование
	ErrSlotTaken = errors.New("create_booking: slot already taken")

	// ErrSlotBlocked возвращается, когда время попадает в окно после другого бронирования
	ErrSlotBlocked = errors.New("create_booking: slot blocked by another booking")

	// ErrStoreUnavailable возвращается, когда хранилище не ответило
	ErrStoreUnavailable = errors.New("create_booking: store unavailable")
)
