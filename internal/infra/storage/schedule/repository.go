package schedule

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
)

const foreignKeyViolation = "23503"

// Repository репозиторий расписаний работников: работники, недельная доступность, отгулы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActiveWorkerSchedules получает активных работников вместе с их доступностью и отгулами
func (r *Repository) ListActiveWorkerSchedules(ctx context.Context) ([]domain.WorkerSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"email",
		"phone",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("workers").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveWorkerSchedules - build workers query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveWorkerSchedules - query workers: %v", ErrExecQuery, err)
	}

	schedules := make([]domain.WorkerSchedule, 0)
	index := make(map[uuid.UUID]int)
	ids := make([]string, 0)

	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: ListActiveWorkerSchedules - scan worker: %v", ErrScanRow, err)
		}
		index[worker.ID] = len(schedules)
		ids = append(ids, worker.ID.String())
		schedules = append(schedules, domain.WorkerSchedule{
			Worker:       *worker,
			Availability: []domain.WeeklyAvailability{},
			TimeOff:      []domain.TimeOff{},
		})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: ListActiveWorkerSchedules - workers rows: %v", ErrScanRow, err)
	}
	rows.Close()

	if len(ids) == 0 {
		return schedules, nil
	}

	availability, err := r.listAvailability(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range availability {
		if i, ok := index[a.WorkerID]; ok {
			schedules[i].Availability = append(schedules[i].Availability, a)
		}
	}

	timeOff, err := r.listTimeOff(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range timeOff {
		if i, ok := index[o.WorkerID]; ok {
			schedules[i].TimeOff = append(schedules[i].TimeOff, o)
		}
	}

	return schedules, nil
}

func (r *Repository) listAvailability(ctx context.Context, executor DBExecutor, workerIDs []string) ([]domain.WeeklyAvailability, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"worker_id",
		"day_of_week",
		"start_time",
		"end_time",
		"is_available",
	).
		From("weekly_availability").
		Where(squirrel.Eq{"worker_id": workerIDs}).
		OrderBy("day_of_week ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listAvailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listAvailability - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.WeeklyAvailability, 0)
	for rows.Next() {
		var a domain.WeeklyAvailability
		var dow int
		if err := rows.Scan(&a.ID, &a.WorkerID, &dow, &a.StartTime, &a.EndTime, &a.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: listAvailability - scan row: %v", ErrScanRow, err)
		}
		a.DayOfWeek = time.Weekday(dow)
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listAvailability - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) listTimeOff(ctx context.Context, executor DBExecutor, workerIDs []string) ([]domain.TimeOff, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"worker_id",
		"start_date",
		"end_date",
		"start_time",
		"end_time",
		"is_full_day",
		"reason",
	).
		From("time_off").
		Where(squirrel.Eq{"worker_id": workerIDs}).
		OrderBy("start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listTimeOff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listTimeOff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.TimeOff, 0)
	for rows.Next() {
		var o domain.TimeOff
		err := rows.Scan(
			&o.ID,
			&o.WorkerID,
			&o.StartDate,
			&o.EndDate,
			&o.StartTime,
			&o.EndTime,
			&o.IsFullDay,
			&o.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: listTimeOff - scan row: %v", ErrScanRow, err)
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listTimeOff - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// GetWorker получает работника по ID
func (r *Repository) GetWorker(ctx context.Context, id uuid.UUID) (*domain.Worker, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"email",
		"phone",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("workers").
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorker - build select query: %v", ErrBuildQuery, err)
	}

	worker, err := scanWorker(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorker - scan worker: %v", ErrScanRow, err)
	}

	return worker, nil
}

// CreateWorker создает работника
func (r *Repository) CreateWorker(ctx context.Context, worker *domain.Worker) (*domain.Worker, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("workers").
		Columns("id", "name", "email", "phone", "is_active").
		Values(worker.ID, worker.Name, worker.Email, worker.Phone, worker.IsActive).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateWorker - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateWorker - execute insert: %v", ErrExecQuery, err)
	}

	worker.CreatedAt = createdAt.Time
	worker.UpdatedAt = updatedAt.Time

	return worker, nil
}

// UpdateWorker перезаписывает данные работника
func (r *Repository) UpdateWorker(ctx context.Context, worker *domain.Worker) (*domain.Worker, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("workers").
		Set("name", worker.Name).
		Set("email", worker.Email).
		Set("phone", worker.Phone).
		Set("is_active", worker.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": worker.ID.String()}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateWorker - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateWorker - execute update: %v", ErrExecQuery, err)
	}

	worker.CreatedAt = createdAt.Time
	worker.UpdatedAt = updatedAt.Time

	return worker, nil
}

// SetAvailability добавляет правило доступности или обновляет флаг is_available у существующего
// Правило идентифицируется (worker_id, day_of_week, start_time, end_time).
func (r *Repository) SetAvailability(ctx context.Context, a *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("weekly_availability").
		Columns("id", "worker_id", "day_of_week", "start_time", "end_time", "is_available").
		Values(a.ID, a.WorkerID, int(a.DayOfWeek), a.StartTime, a.EndTime, a.IsAvailable).
		Suffix("ON CONFLICT (worker_id, day_of_week, start_time, end_time) DO UPDATE SET is_available = EXCLUDED.is_available RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SetAvailability - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("%w: SetAvailability - execute upsert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// DeleteAvailability удаляет правило доступности
func (r *Repository) DeleteAvailability(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "weekly_availability", id, ErrAvailabilityNotFound)
}

// AddTimeOff добавляет отгул работнику
func (r *Repository) AddTimeOff(ctx context.Context, o *domain.TimeOff) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_off").
		Columns("id", "worker_id", "start_date", "end_date", "start_time", "end_time", "is_full_day", "reason").
		Values(o.ID, o.WorkerID, o.StartDate, o.EndDate, o.StartTime, o.EndTime, o.IsFullDay, o.Reason).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddTimeOff - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("%w: AddTimeOff - execute insert: %v", ErrExecQuery, err)
	}

	return o, nil
}

// DeleteTimeOff удаляет отгул
func (r *Repository) DeleteTimeOff(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "time_off", id, ErrTimeOffNotFound)
}

func (r *Repository) deleteByID(ctx context.Context, table string, id uuid.UUID, notFound error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: delete from %s - build query: %v", ErrBuildQuery, table, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: delete from %s - execute: %v", ErrExecQuery, table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete from %s - rows affected: %v", ErrExecQuery, table, err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorker(row rowScanner) (*domain.Worker, error) {
	var w domain.Worker
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&w.ID, &w.Name, &w.Email, &w.Phone, &w.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	return &w, nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
