package memory

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Seed начальное расписание для режима без postgres
//
//	[[workers]]
//	name = "Alex"
//	active = true
//
//	  [[workers.availability]]
//	  day = 1
//	  start = "09:00"
//	  end = "17:00"
//
//	  [[workers.time_off]]
//	  start_date = "2025-06-03"
//	  end_date = "2025-06-03"
//	  full_day = true
//
// Отгул без времени считается отгулом на весь день.
type Seed struct {
	Workers []SeedWorker `toml:"workers"`
}

type SeedWorker struct {
	ID           string             `toml:"id"`
	Name         string             `toml:"name"`
	Email        string             `toml:"email"`
	Phone        string             `toml:"phone"`
	Active       bool               `toml:"active"`
	Availability []SeedAvailability `toml:"availability"`
	TimeOff      []SeedTimeOff      `toml:"time_off"`
}

type SeedAvailability struct {
	Day   int    `toml:"day"` // 0 = воскресенье
	Start string `toml:"start"`
	End   string `toml:"end"`
}

type SeedTimeOff struct {
	StartDate string `toml:"start_date"`
	EndDate   string `toml:"end_date"`
	Start     string `toml:"start"`
	End       string `toml:"end"`
	FullDay   bool   `toml:"full_day"`
	Reason    string `toml:"reason"`
}

// LoadSeedFile читает файл начальных данных и загружает его в хранилище
func (s *ScheduleStore) LoadSeedFile(path string) error {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidSeed, path, err)
	}
	return s.Load(seed)
}

// Load заменяет содержимое хранилища расписанием из seed
func (s *ScheduleStore) Load(seed Seed) error {
	workers := make(map[uuid.UUID]domain.Worker)
	availability := make(map[uuid.UUID]domain.WeeklyAvailability)
	timeOff := make(map[uuid.UUID]domain.TimeOff)
	now := time.Now().UTC()

	for i, sw := range seed.Workers {
		id := uuid.New()
		if sw.ID != "" {
			parsed, err := uuid.Parse(sw.ID)
			if err != nil {
				return fmt.Errorf("%w: worker #%d id: %v", ErrInvalidSeed, i, err)
			}
			id = parsed
		}

		workers[id] = domain.Worker{
			ID:        id,
			Name:      sw.Name,
			Email:     optional(sw.Email),
			Phone:     optional(sw.Phone),
			IsActive:  sw.Active,
			CreatedAt: now,
			UpdatedAt: now,
		}

		for _, sa := range sw.Availability {
			a := domain.WeeklyAvailability{
				ID:          uuid.New(),
				WorkerID:    id,
				DayOfWeek:   time.Weekday(sa.Day),
				StartTime:   types.TimeString(sa.Start),
				EndTime:     types.TimeString(sa.End),
				IsAvailable: true,
			}
			if sa.Day < 0 || sa.Day > 6 {
				return fmt.Errorf("%w: worker %q: day %d out of range", ErrInvalidSeed, sw.Name, sa.Day)
			}
			if err := validateInterval(a.StartTime, a.EndTime); err != nil {
				return fmt.Errorf("%w: worker %q availability: %v", ErrInvalidSeed, sw.Name, err)
			}
			availability[a.ID] = a
		}

		for _, so := range sw.TimeOff {
			o := domain.TimeOff{
				ID:        uuid.New(),
				WorkerID:  id,
				StartDate: types.DateString(so.StartDate),
				EndDate:   types.DateString(so.EndDate),
				IsFullDay: so.FullDay || (so.Start == "" && so.End == ""),
				Reason:    optional(so.Reason),
			}
			if o.EndDate.IsZero() {
				o.EndDate = o.StartDate
			}
			if err := o.StartDate.Validate(); err != nil {
				return fmt.Errorf("%w: worker %q time off: %v", ErrInvalidSeed, sw.Name, err)
			}
			if err := o.EndDate.Validate(); err != nil {
				return fmt.Errorf("%w: worker %q time off: %v", ErrInvalidSeed, sw.Name, err)
			}
			if o.EndDate.Before(o.StartDate) {
				return fmt.Errorf("%w: worker %q time off ends before it starts", ErrInvalidSeed, sw.Name)
			}
			if !o.IsFullDay {
				start, end := types.TimeString(so.Start), types.TimeString(so.End)
				if err := validateInterval(start, end); err != nil {
					return fmt.Errorf("%w: worker %q time off: %v", ErrInvalidSeed, sw.Name, err)
				}
				o.StartTime, o.EndTime = &start, &end
			}
			timeOff[o.ID] = o
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = workers
	s.availability = availability
	s.timeOff = timeOff

	return nil
}

func validateInterval(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return err
	}
	if err := end.Validate(); err != nil {
		return err
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("start %s must be before end %s", start, end)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
