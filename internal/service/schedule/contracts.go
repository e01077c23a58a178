package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс хранилища работников и их расписаний
type ScheduleRepository interface {
	ListActiveWorkerSchedules(ctx context.Context) ([]domain.WorkerSchedule, error)
	GetWorker(ctx context.Context, id uuid.UUID) (*domain.Worker, error)
	CreateWorker(ctx context.Context, worker *domain.Worker) (*domain.Worker, error)
	UpdateWorker(ctx context.Context, worker *domain.Worker) (*domain.Worker, error)
	SetAvailability(ctx context.Context, a *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error)
	DeleteAvailability(ctx context.Context, id uuid.UUID) error
	AddTimeOff(ctx context.Context, o *domain.TimeOff) (*domain.TimeOff, error)
	DeleteTimeOff(ctx context.Context, id uuid.UUID) error
}

// SlotsCache кэш рассчитанных слотов, сбрасывается при любом изменении расписания
type SlotsCache interface {
	Purge(ctx context.Context)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
