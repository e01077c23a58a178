package availability

import "errors"

var (
	// ErrSlotTaken возвращается, когда на (дату, время) уже есть бронирование
	ErrSlotTaken = errors.New("availability: slot already taken")

	// ErrSlotBlocked возвращается, когда время попадает в окно после другого бронирования
	ErrSlotBlocked = errors.New("availability: slot blocked by another booking")
)
