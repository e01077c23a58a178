package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleStore хранит работников, их доступность и отгулы в памяти процесса
type ScheduleStore struct {
	mu           sync.RWMutex
	workers      map[uuid.UUID]domain.Worker
	availability map[uuid.UUID]domain.WeeklyAvailability
	timeOff      map[uuid.UUID]domain.TimeOff
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{
		workers:      make(map[uuid.UUID]domain.Worker),
		availability: make(map[uuid.UUID]domain.WeeklyAvailability),
		timeOff:      make(map[uuid.UUID]domain.TimeOff),
	}
}

func (s *ScheduleStore) ListActiveWorkerSchedules(_ context.Context) ([]domain.WorkerSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := make([]domain.WorkerSchedule, 0)
	index := make(map[uuid.UUID]int)
	for _, w := range s.workers {
		if !w.IsActive {
			continue
		}
		schedules = append(schedules, domain.WorkerSchedule{
			Worker:       w,
			Availability: []domain.WeeklyAvailability{},
			TimeOff:      []domain.TimeOff{},
		})
	}

	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].Worker.Name < schedules[j].Worker.Name
	})
	for i, sch := range schedules {
		index[sch.Worker.ID] = i
	}

	for _, a := range s.availability {
		if i, ok := index[a.WorkerID]; ok {
			schedules[i].Availability = append(schedules[i].Availability, a)
		}
	}
	for _, o := range s.timeOff {
		if i, ok := index[o.WorkerID]; ok {
			schedules[i].TimeOff = append(schedules[i].TimeOff, o)
		}
	}

	for i := range schedules {
		availability := schedules[i].Availability
		sort.Slice(availability, func(a, b int) bool {
			if availability[a].DayOfWeek != availability[b].DayOfWeek {
				return availability[a].DayOfWeek < availability[b].DayOfWeek
			}
			return availability[a].StartTime.IsBefore(availability[b].StartTime)
		})
		timeOff := schedules[i].TimeOff
		sort.Slice(timeOff, func(a, b int) bool {
			return timeOff[a].StartDate.Before(timeOff[b].StartDate)
		})
	}

	return schedules, nil
}

func (s *ScheduleStore) GetWorker(_ context.Context, id uuid.UUID) (*domain.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workers[id]
	if !ok {
		return nil, ErrWorkerNotFound
	}
	return &w, nil
}

func (s *ScheduleStore) CreateWorker(_ context.Context, worker *domain.Worker) (*domain.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	worker.CreatedAt = now
	worker.UpdatedAt = now
	s.workers[worker.ID] = *worker

	stored := *worker
	return &stored, nil
}

func (s *ScheduleStore) UpdateWorker(_ context.Context, worker *domain.Worker) (*domain.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.workers[worker.ID]
	if !ok {
		return nil, ErrWorkerNotFound
	}

	worker.CreatedAt = current.CreatedAt
	worker.UpdatedAt = time.Now().UTC()
	s.workers[worker.ID] = *worker

	stored := *worker
	return &stored, nil
}

// SetAvailability добавляет правило или обновляет is_available у правила с теми же днем и интервалом
func (s *ScheduleStore) SetAvailability(_ context.Context, a *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workers[a.WorkerID]; !ok {
		return nil, ErrWorkerNotFound
	}

	for id, existing := range s.availability {
		if existing.WorkerID == a.WorkerID &&
			existing.DayOfWeek == a.DayOfWeek &&
			existing.StartTime == a.StartTime &&
			existing.EndTime == a.EndTime {
			a.ID = id
			break
		}
	}
	s.availability[a.ID] = *a

	stored := *a
	return &stored, nil
}

func (s *ScheduleStore) DeleteAvailability(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.availability[id]; !ok {
		return ErrAvailabilityNotFound
	}
	delete(s.availability, id)
	return nil
}

func (s *ScheduleStore) AddTimeOff(_ context.Context, o *domain.TimeOff) (*domain.TimeOff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workers[o.WorkerID]; !ok {
		return nil, ErrWorkerNotFound
	}
	s.timeOff[o.ID] = *o

	stored := *o
	return &stored, nil
}

func (s *ScheduleStore) DeleteTimeOff(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timeOff[id]; !ok {
		return ErrTimeOffNotFound
	}
	delete(s.timeOff, id)
	return nil
}
