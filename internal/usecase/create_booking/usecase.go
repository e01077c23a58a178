package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	rules        domain.BookingRules
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// location - часовой пояс, в котором определяется "сегодня" для проверки минимальной даты.
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	rules domain.BookingRules,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.Local
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		rules:        rules,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Чтение бронирований даты, проверка и вставка выполняются под блокировкой даты,
// уникальность (дата, время) в хранилище - вторая линия защиты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: date=%s, time=%s", req.Date, req.Time)

	// 1. Валидация входных данных, до любого обращения к хранилищу
	booking, verrs := req.BookingInput.Validate(uc.rules)
	if err := verrs.Err(); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.ObserveAdmission(outcomeInvalid)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 2. Минимальная дата в часовом поясе сервиса
	today := types.NewDateString(uc.timeProvider.Now().In(uc.location))
	earliest := uc.rules.EarliestBookableDate(today)
	if booking.Date.Before(earliest) {
		uc.logger.Warn("CreateBooking: date %s is before earliest bookable date %s", booking.Date, earliest)
		uc.metrics.ObserveAdmission(outcomeTooSoon)
		return nil, fmt.Errorf("%w: earliest bookable date is %s", ErrTooSoon, earliest)
	}

	booking.ID = uuid.New()
	booking.Number = domain.NewBookingNumber()

	var result *domain.Booking

	// 3. Критическая секция по дате
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		unlock, err := uc.bookingRepo.LockDate(txCtx, booking.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to lock date %s: %v", booking.Date, err)
			return fmt.Errorf("%w: lock date: %v", ErrStoreUnavailable, err)
		}
		defer unlock()

		// 3.1. Бронирования даты всегда читаются из хранилища
		bookings, err := uc.bookingRepo.ListByDate(txCtx, booking.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings for %s: %v", booking.Date, err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrStoreUnavailable, err)
		}

		// 3.2. Занятый слот или окно после другого бронирования
		if err := availability.CheckAdmission(bookings, booking.Time, uc.rules, uuid.Nil); err != nil {
			uc.logger.Warn("CreateBooking: %s %s rejected: %v", booking.Date, booking.Time, err)
			return mapAdmissionError(err)
		}

		// 3.3. Вставка
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, storage.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: %s %s taken concurrently", booking.Date, booking.Time)
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrStoreUnavailable, err)
		}

		result = created
		return nil
	})

	if err != nil {
		err = classify(err)
		uc.metrics.ObserveAdmission(outcome(err))
		return nil, err
	}

	uc.metrics.ObserveAdmission(outcomeCreated)
	uc.logger.Info("CreateBooking: successfully created booking id=%s number=%s at %s %s",
		result.ID, result.Number, result.Date, result.Time)

	// 4. Уведомление не влияет на результат
	if err := uc.notifier.BookingCreated(ctx, result); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish booking.created for id=%s: %v", result.ID, err)
	}

	return &Response{Booking: result}, nil
}

func mapAdmissionError(err error) error {
	switch {
	case errors.Is(err, availability.ErrSlotTaken):
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	case errors.Is(err, availability.ErrSlotBlocked):
		return fmt.Errorf("%w: %v", ErrSlotBlocked, err)
	default:
		return err
	}
}

// classify оборачивает ошибки менеджера транзакций (begin/commit) в ErrStoreUnavailable
func classify(err error) error {
	switch {
	case errors.Is(err, ErrSlotTaken),
		errors.Is(err, ErrSlotBlocked),
		errors.Is(err, ErrStoreUnavailable):
		return err
	case errors.Is(err, storage.ErrSlotTaken):
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return outcomeTaken
	case errors.Is(err, ErrSlotBlocked):
		return outcomeBlocked
	default:
		return outcomeUnavailable
	}
}
