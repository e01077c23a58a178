package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	cache        SlotsCache
	rules        domain.BookingRules
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	cache SlotsCache,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		cache:        cache,
		rules:        rules,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Слоты по расписанию берутся из кэша, бронирования всегда читаются из хранилища.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s", req.Date)

	// 1. Валидация даты
	date, err := types.NewDateStringFromString(req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		var errs validation.Errors
		errs.Add("date", "must be YYYY-MM-DD")
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errs)
	}

	// 2. Слоты, разрешенные расписанием работников
	resolved, err := uc.resolve(ctx, date)
	if err != nil {
		return nil, err
	}

	// 3. Вычитаем занятые слоты и окна после бронирований
	bookings, err := uc.bookingRepo.ListByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for %s: %v", date, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrStoreUnavailable, err)
	}

	free := availability.SubtractBooked(resolved, bookings, uc.rules)

	uc.logger.Info("GetAvailableSlots: %d of %d slots free on %s (%d bookings)",
		len(free), len(resolved), date, len(bookings))

	return &Response{
		Date:     date,
		Slots:    domain.SlotTimes(free),
		Capacity: free,
	}, nil
}

func (uc *UseCase) resolve(ctx context.Context, date types.DateString) ([]domain.AvailableSlot, error) {
	if cached, ok := uc.cache.Get(ctx, date); ok {
		return cached, nil
	}

	generation := uc.cache.Generation(ctx)
	schedules, err := uc.scheduleRepo.ListActiveWorkerSchedules(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get worker schedules: %v", err)
		return nil, fmt.Errorf("%w: failed to get worker schedules: %v", ErrStoreUnavailable, err)
	}

	canonical := availability.GenerateSlots(uc.rules.WindowStart, uc.rules.WindowEnd, uc.rules.StepMinutes)
	resolved := availability.ResolveSlotCapacity(date, canonical, schedules)

	if len(schedules) == 0 {
		uc.logger.Warn("GetAvailableSlots: no active workers, nothing is bookable on %s", date)
	}

	if !uc.cache.Set(ctx, date, resolved, generation) {
		uc.logger.Info("GetAvailableSlots: schedule changed while resolving %s, result not cached", date)
	}
	return resolved, nil
}
