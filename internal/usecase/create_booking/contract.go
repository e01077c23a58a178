package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookingRepository интерфейс хранилища бронирований
type BookingRepository interface {
	// LockDate сериализует запись бронирований на дату, возвращает функцию снятия блокировки
	LockDate(ctx context.Context, date types.DateString) (func(), error)
	ListByDate(ctx context.Context, date types.DateString) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикует события о бронированиях
type Notifier interface {
	BookingCreated(ctx context.Context, booking *domain.Booking) error
}

// Metrics счетчик исходов приема бронирований
type Metrics interface {
	ObserveAdmission(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
