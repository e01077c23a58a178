package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

// Service административный сервис бронирований
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	notifier     Notifier
	rules        domain.BookingRules
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	rules domain.BookingRules,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		notifier:     notifier,
		rules:        rules,
		location:     location,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repositoryError("GetByID", id, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования (все или на одну дату) вместе с сеткой слотов дня
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	var filter domain.BookingsFilter
	if req.Date != nil {
		date, err := types.NewDateStringFromString(*req.Date)
		if err != nil {
			s.logger.Warn("List: invalid date %q", *req.Date)
			var errs validation.Errors
			errs.Add("date", "must be YYYY-MM-DD")
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errs)
		}
		filter.StartDate = &date
		filter.EndDate = &date
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrStoreUnavailable, err)
	}

	timeSlots := availability.GenerateSlots(s.rules.WindowStart, s.rules.WindowEnd, s.rules.StepMinutes)

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(timeSlots, bookings), nil
}

// Update полностью заменяет поля бронирования.
// Целевой слот проверяется под блокировкой новой даты, само бронирование при проверке не учитывается.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%s to %s %s", id, req.Date, req.Time)

	// 1. Валидация
	booking, verrs := req.BookingInput.Validate(s.rules)
	if err := verrs.Err(); err != nil {
		s.logger.Warn("Update: validation failed for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 2. Минимальная дата
	today := types.NewDateString(s.timeProvider.Now().In(s.location))
	earliest := s.rules.EarliestBookableDate(today)
	if booking.Date.Before(earliest) {
		s.logger.Warn("Update: date %s is before earliest bookable date %s", booking.Date, earliest)
		return nil, fmt.Errorf("%w: earliest bookable date is %s", ErrTooSoon, earliest)
	}

	booking.ID = id
	var result *domain.Booking

	// 3. Критическая секция по новой дате
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		unlock, err := s.bookingRepo.LockDate(txCtx, booking.Date)
		if err != nil {
			s.logger.Error("Update: failed to lock date %s: %v", booking.Date, err)
			return fmt.Errorf("%w: lock date: %v", ErrStoreUnavailable, err)
		}
		defer unlock()

		bookings, err := s.bookingRepo.ListByDate(txCtx, booking.Date)
		if err != nil {
			s.logger.Error("Update: failed to get bookings for %s: %v", booking.Date, err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrStoreUnavailable, err)
		}

		if err := availability.CheckAdmission(bookings, booking.Time, s.rules, id); err != nil {
			s.logger.Warn("Update: %s %s rejected for id=%s: %v", booking.Date, booking.Time, id, err)
			switch {
			case errors.Is(err, availability.ErrSlotTaken):
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			default:
				return fmt.Errorf("%w: %v", ErrSlotBlocked, err)
			}
		}

		updated, err := s.bookingRepo.Update(txCtx, booking)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrSlotTaken):
				s.logger.Warn("Update: %s %s taken concurrently", booking.Date, booking.Time)
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			case errors.Is(err, storage.ErrBookingNotFound):
				return fmt.Errorf("%w: %v", ErrBookingNotFound, err)
			default:
				s.logger.Error("Update: repository error for id=%s: %v", id, err)
				return fmt.Errorf("%w: Update - repository error: %v", ErrStoreUnavailable, err)
			}
		}

		result = updated
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			s.logger.Warn("Update: booking id=%s not found", id)
			return nil, err
		case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrSlotBlocked), errors.Is(err, ErrStoreUnavailable):
			return nil, err
		default:
			s.logger.Error("Update: transaction failed for id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	s.logger.Info("Update: successfully updated booking id=%s", id)
	if err := s.notifier.BookingUpdated(ctx, result); err != nil {
		s.logger.Warn("Update: failed to publish booking.updated for id=%s: %v", id, err)
	}

	return models.FromDomainBooking(result), nil
}

// Delete отменяет бронирование, слот и окно после него снова доступны
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Delete: deleting booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return s.repositoryError("Delete", id, err)
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return s.repositoryError("Delete", id, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%s (%s %s)", id, booking.Date, booking.Time)
	if err := s.notifier.BookingCancelled(ctx, booking); err != nil {
		s.logger.Warn("Delete: failed to publish booking.cancelled for id=%s: %v", id, err)
	}

	return nil
}

// Clear удаляет все бронирования
func (s *Service) Clear(ctx context.Context) (*models.ClearResponse, error) {
	deleted, err := s.bookingRepo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error("Clear: repository error: %v", err)
		return nil, fmt.Errorf("%w: Clear - repository error: %v", ErrStoreUnavailable, err)
	}

	s.logger.Warn("Clear: deleted %d bookings", deleted)
	return &models.ClearResponse{Deleted: deleted}, nil
}

func (s *Service) repositoryError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, storage.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrStoreUnavailable, op, err)
}
