package availability

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CheckAdmission проверяет, можно ли принять бронирование на t среди bookings одной даты
// Бронирование с ID ignoreID не учитывается (используется при переносе существующего бронирования).
// Точное совпадение времени даёт ErrSlotTaken, попадание в окно [b.Time, b.Time+blackout) даёт ErrSlotBlocked.
func CheckAdmission(bookings []*domain.Booking, t types.TimeString, rules domain.BookingRules, ignoreID uuid.UUID) error {
	for _, b := range bookings {
		if b.ID == ignoreID && ignoreID != uuid.Nil {
			continue
		}
		if b.Time == t {
			return fmt.Errorf("%w: %s %s", ErrSlotTaken, b.Date, b.Time)
		}
	}

	for _, b := range bookings {
		if b.ID == ignoreID && ignoreID != uuid.Nil {
			continue
		}
		if inBlackout(b.Time, t, rules) {
			return fmt.Errorf("%w: %s is within %d minutes after %s", ErrSlotBlocked, t, rules.BlackoutMinutes(), b.Time)
		}
	}

	return nil
}

// SubtractBooked убирает из slots занятые слоты и окна после бронирований
func SubtractBooked(slots []domain.AvailableSlot, bookings []*domain.Booking, rules domain.BookingRules) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(slots))
	for _, s := range slots {
		if !isOccupied(s.StartTime, bookings, rules) {
			result = append(result, s)
		}
	}
	return result
}

func isOccupied(t types.TimeString, bookings []*domain.Booking, rules domain.BookingRules) bool {
	for _, b := range bookings {
		if inBlackout(b.Time, t, rules) {
			return true
		}
	}
	return false
}

// inBlackout reports booked <= t < booked + blackout.
func inBlackout(booked, t types.TimeString, rules domain.BookingRules) bool {
	start := booked.Minutes()
	m := t.Minutes()
	return start >= 0 && m >= start && m < start+rules.BlackoutMinutes()
}
