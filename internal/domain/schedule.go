package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Worker a person who can serve appointments
type Worker struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeeklyAvailability recurring rule: the worker is bookable on DayOfWeek in [StartTime, EndTime)
type WeeklyAvailability struct {
	ID          uuid.UUID
	WorkerID    uuid.UUID
	DayOfWeek   time.Weekday // 0 = Sunday
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
}

// Covers returns true if the rule offers slot t on weekday dow
func (a *WeeklyAvailability) Covers(dow time.Weekday, t types.TimeString) bool {
	return a.IsAvailable && a.DayOfWeek == dow && t.InRange(a.StartTime, a.EndTime)
}

// TimeOff exception removing availability for an inclusive date range.
// Partial entries block [StartTime, EndTime) on every date of the range.
type TimeOff struct {
	ID        uuid.UUID
	WorkerID  uuid.UUID
	StartDate types.DateString
	EndDate   types.DateString
	StartTime *types.TimeString
	EndTime   *types.TimeString
	IsFullDay bool
	Reason    *string
}

// ContainsDate returns true if date lies within [StartDate, EndDate]
func (o *TimeOff) ContainsDate(date types.DateString) bool {
	return date.Between(o.StartDate, o.EndDate)
}

// Excludes returns true if the time-off removes slot t on date
func (o *TimeOff) Excludes(date types.DateString, t types.TimeString) bool {
	if !o.ContainsDate(date) {
		return false
	}
	if o.IsFullDay {
		return true
	}
	if o.StartTime == nil || o.EndTime == nil {
		return false
	}
	return t.InRange(*o.StartTime, *o.EndTime)
}

// WorkerSchedule a worker together with its availability rules and time-off
type WorkerSchedule struct {
	Worker       Worker
	Availability []WeeklyAvailability
	TimeOff      []TimeOff
}
