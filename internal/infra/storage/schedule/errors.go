package schedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
)

var (
	// ErrWorkerNotFound возвращается, когда работник не найден
	ErrWorkerNotFound = fmt.Errorf("schedule.repository: %w", storage.ErrWorkerNotFound)

	// ErrAvailabilityNotFound возвращается, когда правило доступности не найдено
	ErrAvailabilityNotFound = fmt.Errorf("schedule.repository: %w", storage.ErrAvailabilityNotFound)

	// ErrTimeOffNotFound возвращается, когда отгул не найден
	ErrTimeOffNotFound = fmt.Errorf("schedule.repository: %w", storage.ErrTimeOffNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("schedule.repository: failed to execute query: %w", storage.ErrUnavailable)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("schedule.repository: failed to scan row: %w", storage.ErrUnavailable)
)
