package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListByDate получает все бронирования на дату
	ListByDate(ctx context.Context, date types.DateString) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	// ListActiveWorkerSchedules получает активных работников с доступностью и отгулами
	ListActiveWorkerSchedules(ctx context.Context) ([]domain.WorkerSchedule, error)
}

// SlotsCache кэш слотов, разрешенных по расписанию
type SlotsCache interface {
	Get(ctx context.Context, date types.DateString) ([]domain.AvailableSlot, bool)
	// Generation берется до чтения расписания и передается в Set
	Generation(ctx context.Context) uint64
	// Set не сохраняет слоты, если кэш сбросили после Generation
	Set(ctx context.Context, date types.DateString, slots []domain.AvailableSlot, generation uint64) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
