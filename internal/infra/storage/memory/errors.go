package memory

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
)

var (
	ErrBookingNotFound      = fmt.Errorf("memory: %w", storage.ErrBookingNotFound)
	ErrSlotTaken            = fmt.Errorf("memory: %w", storage.ErrSlotTaken)
	ErrWorkerNotFound       = fmt.Errorf("memory: %w", storage.ErrWorkerNotFound)
	ErrAvailabilityNotFound = fmt.Errorf("memory: %w", storage.ErrAvailabilityNotFound)
	ErrTimeOffNotFound      = fmt.Errorf("memory: %w", storage.ErrTimeOffNotFound)

	// ErrLockCanceled возвращается, если контекст завершился в ожидании блокировки даты
	ErrLockCanceled = fmt.Errorf("memory: date lock canceled: %w", storage.ErrUnavailable)

	// ErrInvalidSeed возвращается, если файл начальных данных не удалось разобрать
	ErrInvalidSeed = errors.New("memory: invalid seed file")
)
