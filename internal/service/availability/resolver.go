package availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ResolveAvailableSlots оставляет слоты, покрытые хотя бы одним правилом доступности на день недели date
// и не исключённые ни одним отгулом. Отгул любого работника исключает слот целиком.
// Порядок входных слотов сохраняется. Пустой набор правил даёт пустой результат.
func ResolveAvailableSlots(
	date types.DateString,
	slots []types.TimeString,
	availabilities []domain.WeeklyAvailability,
	timeOffs []domain.TimeOff,
) []types.TimeString {
	result := make([]types.TimeString, 0, len(slots))
	if len(availabilities) == 0 {
		return result
	}

	dow := date.Weekday()
	for _, t := range slots {
		if isCovered(dow, t, availabilities) && !isExcluded(date, t, timeOffs) {
			result = append(result, t)
		}
	}

	return result
}

// ResolveSlotCapacity resolves slots for the active workers of schedules and reports,
// for every resolved slot, how many of them cover it.
func ResolveSlotCapacity(
	date types.DateString,
	slots []types.TimeString,
	schedules []domain.WorkerSchedule,
) []domain.AvailableSlot {
	availabilities, timeOffs := Flatten(schedules)
	resolved := ResolveAvailableSlots(date, slots, availabilities, timeOffs)

	dow := date.Weekday()
	result := make([]domain.AvailableSlot, 0, len(resolved))
	for _, t := range resolved {
		capacity := 0
		for i := range schedules {
			if schedules[i].Worker.IsActive && isCovered(dow, t, schedules[i].Availability) {
				capacity++
			}
		}
		result = append(result, domain.AvailableSlot{StartTime: t, Capacity: capacity})
	}

	return result
}

// Flatten collects availability and time-off of active workers only.
func Flatten(schedules []domain.WorkerSchedule) ([]domain.WeeklyAvailability, []domain.TimeOff) {
	availabilities := make([]domain.WeeklyAvailability, 0)
	timeOffs := make([]domain.TimeOff, 0)

	for _, s := range schedules {
		if !s.Worker.IsActive {
			continue
		}
		availabilities = append(availabilities, s.Availability...)
		timeOffs = append(timeOffs, s.TimeOff...)
	}

	return availabilities, timeOffs
}

func isCovered(dow time.Weekday, t types.TimeString, availabilities []domain.WeeklyAvailability) bool {
	for i := range availabilities {
		if availabilities[i].Covers(dow, t) {
			return true
		}
	}
	return false
}

func isExcluded(date types.DateString, t types.TimeString, timeOffs []domain.TimeOff) bool {
	for i := range timeOffs {
		if timeOffs[i].Excludes(date, t) {
			return true
		}
	}
	return false
}
