package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// AvailableSlot represents a time slot available for booking
type AvailableSlot struct {
	StartTime types.TimeString
	Capacity  int // number of active workers covering the slot
}

// IsFull returns true if no worker covers the slot
func (s *AvailableSlot) IsFull() bool {
	return s.Capacity <= 0
}

// SlotTimes extracts start times preserving order
func SlotTimes(slots []AvailableSlot) []types.TimeString {
	times := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.StartTime)
	}
	return times
}
