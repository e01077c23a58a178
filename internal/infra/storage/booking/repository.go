package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	uniqueViolation = "23505"

	// имя ограничения UNIQUE (booking_date, start_time) из миграции
	slotConstraint = "bookings_date_time_unique"

	maxNumberAttempts = 3

	// префикс ключа advisory-блокировки даты
	lockKeyPrefix = "bookings:"
)

var bookingColumns = []string{
	"id",
	"booking_number",
	"name",
	"email",
	"phone",
	"booking_date",
	"start_time",
	"notes",
	"appointment_type",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями в postgres
type Repository struct {
	db          DBExecutor
	lockTimeout time.Duration
}

// NewRepository создает новый экземпляр репозитория бронирований
// lockTimeout ограничивает ожидание блокировки даты, 0 - без ограничения (только контекст)
func NewRepository(db DBExecutor, lockTimeout time.Duration) *Repository {
	return &Repository{db: db, lockTimeout: lockTimeout}
}

// LockDate берёт транзакционную advisory-блокировку на дату
// Блокировка снимается при коммите или откате транзакции, поэтому возвращаемая функция ничего не делает.
// Требует активной транзакции в контексте.
func (r *Repository) LockDate(ctx context.Context, date types.DateString) (func(), error) {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return nil, ErrNoTransaction
	}

	if r.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, "SELECT set_config('lock_timeout', $1, true)", timeout); err != nil {
			return nil, fmt.Errorf("%w: LockDate - set lock_timeout: %v", ErrExecQuery, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lockKeyPrefix+date.String()); err != nil {
		return nil, fmt.Errorf("%w: LockDate - acquire lock for %s: %v", ErrExecQuery, date, err)
	}

	return func() {}, nil
}

// Create создает новое бронирование
// Уникальный индекс (booking_date, start_time) - последняя линия защиты от двойного бронирования.
// Совпадение номера бронирования не ошибка: ON CONFLICT не прерывает транзакцию, номер генерируется заново.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		if attempt > 0 {
			booking.Number = domain.NewBookingNumber()
		}

		query, args, err := psqlbuilder.Insert("bookings").
			Columns(
				"id",
				"booking_number",
				"name",
				"email",
				"phone",
				"booking_date",
				"start_time",
				"notes",
				"appointment_type",
			).
			Values(
				booking.ID,
				booking.Number,
				booking.Name,
				booking.Email,
				booking.Phone,
				booking.Date,
				booking.Time,
				booking.Notes,
				booking.AppointmentType,
			).
			Suffix("ON CONFLICT (booking_number) DO NOTHING RETURNING created_at, updated_at").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
		}

		var createdAt, updatedAt sql.NullTime
		err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			// номер уже занят
			continue
		}
		if err != nil {
			if isSlotViolation(err) {
				return nil, fmt.Errorf("%w: Create - %s %s", ErrSlotTaken, booking.Date, booking.Time)
			}
			return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		return booking, nil
	}

	return nil, fmt.Errorf("%w: Create - booking number collided %d times", ErrExecQuery, maxNumberAttempts)
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByDate получает все бронирования на дату, отсортированные по времени
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) ListByDate(ctx context.Context, date types.DateString) ([]*domain.Booking, error) {
	return r.List(ctx, domain.BookingsFilter{StartDate: &date, EndDate: &date})
}

// List получает бронирования с фильтрацией по периоду
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("booking_date ASC, start_time ASC")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Для конкретной даты внутри транзакции блокируем строки
	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDate() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update перезаписывает изменяемые поля бронирования
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("name", booking.Name).
		Set("email", booking.Email).
		Set("phone", booking.Phone).
		Set("booking_date", booking.Date).
		Set("start_time", booking.Time).
		Set("notes", booking.Notes).
		Set("appointment_type", booking.AppointmentType).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID.String()}).
		Suffix("RETURNING booking_number, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.Number, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		if isSlotViolation(err) {
			return nil, fmt.Errorf("%w: Update - %s %s", ErrSlotTaken, booking.Date, booking.Time)
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// Delete удаляет бронирование, освобождая слот и окно после него
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// DeleteAll удаляет все бронирования и возвращает их количество
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAll - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAll - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAll - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.Number,
		&booking.Name,
		&booking.Email,
		&booking.Phone,
		&booking.Date,
		&booking.Time,
		&booking.Notes,
		&booking.AppointmentType,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// isSlotViolation отличает занятый слот от нарушения других уникальных индексов
func isSlotViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == slotConstraint
}
