package availability

import (
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// GenerateSlots генерирует канонический список начал слотов на день
// Слоты идут с шагом stepMinutes начиная с windowStart. Слот должен целиком помещаться в окно,
// поэтому неполный хвостовой период слотом не считается.
func GenerateSlots(windowStart, windowEnd types.TimeString, stepMinutes int) []types.TimeString {
	start, end := windowStart.Minutes(), windowEnd.Minutes()
	if stepMinutes <= 0 || start < 0 || end < 0 || start >= end {
		return []types.TimeString{}
	}

	slots := make([]types.TimeString, 0, (end-start)/stepMinutes)
	for m := start; m+stepMinutes <= end; m += stepMinutes {
		slot, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}
