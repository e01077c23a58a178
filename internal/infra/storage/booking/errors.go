package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("booking.repository: %w", storage.ErrBookingNotFound)

	// ErrSlotTaken возвращается при нарушении уникальности (booking_date, start_time)
	ErrSlotTaken = fmt.Errorf("booking.repository: %w", storage.ErrSlotTaken)

	// ErrNoTransaction возвращается, если блокировка даты запрошена вне транзакции
	ErrNoTransaction = errors.New("booking.repository: date lock requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("booking.repository: failed to execute query: %w", storage.ErrUnavailable)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("booking.repository: failed to scan row: %w", storage.ErrUnavailable)
)
