package manage_schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	ListWorkers(ctx context.Context) (*models.WorkerListResponse, error)
	CreateWorker(ctx context.Context, req *models.CreateWorkerRequest) (*models.WorkerResponse, error)
	UpdateWorker(ctx context.Context, id uuid.UUID, req *models.UpdateWorkerRequest) (*models.WorkerResponse, error)
	SetAvailability(ctx context.Context, workerID uuid.UUID, req *models.SetAvailabilityRequest) (*models.AvailabilityResponse, error)
	DeleteAvailability(ctx context.Context, id uuid.UUID) error
	AddTimeOff(ctx context.Context, workerID uuid.UUID, req *models.AddTimeOffRequest) (*models.TimeOffResponse, error)
	DeleteTimeOff(ctx context.Context, id uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
