package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис администрирования работников, их доступности и отгулов
type Service struct {
	scheduleRepo ScheduleRepository
	cache        SlotsCache
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, cache SlotsCache, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		cache:        cache,
		logger:       logger,
	}
}

// ListWorkers возвращает активных работников с правилами доступности и отгулами
func (s *Service) ListWorkers(ctx context.Context) (*models.WorkerListResponse, error) {
	schedules, err := s.scheduleRepo.ListActiveWorkerSchedules(ctx)
	if err != nil {
		s.logger.Error("ListWorkers: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListWorkers - repository error: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("ListWorkers: fetched %d active workers", len(schedules))
	return models.FromDomainSchedules(schedules), nil
}

// CreateWorker создает работника
func (s *Service) CreateWorker(ctx context.Context, req *models.CreateWorkerRequest) (*models.WorkerResponse, error) {
	worker, verrs := req.ToDomainWorker()
	if err := verrs.Err(); err != nil {
		s.logger.Warn("CreateWorker: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	created, err := s.scheduleRepo.CreateWorker(ctx, worker)
	if err != nil {
		return nil, s.repositoryError("CreateWorker", err)
	}

	s.cache.Purge(ctx)
	s.logger.Info("CreateWorker: successfully created worker id=%s", created.ID)
	return models.FromDomainWorker(created), nil
}

// UpdateWorker частично обновляет работника
func (s *Service) UpdateWorker(ctx context.Context, id uuid.UUID, req *models.UpdateWorkerRequest) (*models.WorkerResponse, error) {
	s.logger.Info("UpdateWorker: updating worker id=%s", id)

	if err := req.Validate().Err(); err != nil {
		s.logger.Warn("UpdateWorker: validation failed for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	worker, err := s.scheduleRepo.GetWorker(ctx, id)
	if err != nil {
		return nil, s.repositoryError("UpdateWorker", err)
	}

	req.ApplyToWorker(worker)

	updated, err := s.scheduleRepo.UpdateWorker(ctx, worker)
	if err != nil {
		return nil, s.repositoryError("UpdateWorker", err)
	}

	s.cache.Purge(ctx)
	s.logger.Info("UpdateWorker: successfully updated worker id=%s", id)
	return models.FromDomainWorker(updated), nil
}

// SetAvailability добавляет правило доступности или обновляет существующее с тем же днем и интервалом
func (s *Service) SetAvailability(ctx context.Context, workerID uuid.UUID, req *models.SetAvailabilityRequest) (*models.AvailabilityResponse, error) {
	a, verrs := req.ToDomainAvailability(workerID)
	if err := verrs.Err(); err != nil {
		s.logger.Warn("SetAvailability: validation failed for worker id=%s: %v", workerID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	stored, err := s.scheduleRepo.SetAvailability(ctx, a)
	if err != nil {
		return nil, s.repositoryError("SetAvailability", err)
	}

	s.cache.Purge(ctx)
	s.logger.Info("SetAvailability: worker id=%s %s %s-%s available=%t",
		workerID, stored.DayOfWeek, stored.StartTime, stored.EndTime, stored.IsAvailable)
	return models.FromDomainAvailability(stored), nil
}

// DeleteAvailability удаляет правило доступности
func (s *Service) DeleteAvailability(ctx context.Context, id uuid.UUID) error {
	if err := s.scheduleRepo.DeleteAvailability(ctx, id); err != nil {
		return s.repositoryError("DeleteAvailability", err)
	}

	s.cache.Purge(ctx)
	s.logger.Info("DeleteAvailability: deleted availability id=%s", id)
	return nil
}

// AddTimeOff добавляет отгул работнику
func (s *Service) AddTimeOff(ctx context.Context, workerID uuid.UUID, req *models.AddTimeOffRequest) (*models.TimeOffResponse, error) {
	o, verrs := req.ToDomainTimeOff(workerID)
	if err := verrs.Err(); err != nil {
		s.logger.Warn("AddTimeOff: validation failed for worker id=%s: %v", workerID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	stored, err := s.scheduleRepo.AddTimeOff(ctx, o)
	if err != nil {
		return nil, s.repositoryError("AddTimeOff", err)
	}

	s.cache.Purge(ctx)
	s.logger.Info("AddTimeOff: worker id=%s off %s..%s (full day: %t)",
		workerID, stored.StartDate, stored.EndDate, stored.IsFullDay)
	return models.FromDomainTimeOff(stored), nil
}

// DeleteTimeOff удаляет отгул
func (s *Service) DeleteTimeOff(ctx context.Context, id uuid.UUID) error {
	if err := s.scheduleRepo.DeleteTimeOff(ctx, id); err != nil {
		return s.repositoryError("DeleteTimeOff", err)
	}

	s.cache.Purge(ctx)
	s.logger.Info("DeleteTimeOff: deleted time off id=%s", id)
	return nil
}

func (s *Service) repositoryError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrWorkerNotFound):
		s.logger.Warn("%s: %v", op, err)
		return ErrWorkerNotFound
	case errors.Is(err, storage.ErrAvailabilityNotFound):
		s.logger.Warn("%s: %v", op, err)
		return ErrAvailabilityNotFound
	case errors.Is(err, storage.ErrTimeOffNotFound):
		s.logger.Warn("%s: %v", op, err)
		return ErrTimeOffNotFound
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrStoreUnavailable, op, err)
	}
}
