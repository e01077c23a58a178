package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_ListActiveWorkerSchedules(t *testing.T) {
	repo, mock := newRepo(t)
	alice, bob := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM workers WHERE is_active = \$1 ORDER BY name ASC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "is_active", "created_at", "updated_at"}).
			AddRow(alice.String(), "Alice", "alice@example.com", nil, true, now, now).
			AddRow(bob.String(), "Bob", nil, nil, true, now, now))

	mock.ExpectQuery(`SELECT .* FROM weekly_availability WHERE worker_id IN \(\$1,\$2\)`).
		WithArgs(alice.String(), bob.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_id", "day_of_week", "start_time", "end_time", "is_available"}).
			AddRow(uuid.NewString(), alice.String(), int64(1), "09:00:00", "17:00:00", true).
			AddRow(uuid.NewString(), bob.String(), int64(2), "10:00:00", "12:00:00", true))

	mock.ExpectQuery(`SELECT .* FROM time_off WHERE worker_id IN \(\$1,\$2\)`).
		WithArgs(alice.String(), bob.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_id", "start_date", "end_date", "start_time", "end_time", "is_full_day", "reason"}).
			AddRow(uuid.NewString(), bob.String(),
				time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
				"13:00:00", "15:00:00", false, "dentist"))

	schedules, err := repo.ListActiveWorkerSchedules(context.Background())

	require.NoError(t, err)
	require.Len(t, schedules, 2)

	assert.Equal(t, "Alice", schedules[0].Worker.Name)
	require.Len(t, schedules[0].Availability, 1)
	assert.Equal(t, time.Monday, schedules[0].Availability[0].DayOfWeek)
	assert.Equal(t, types.TimeString("17:00"), schedules[0].Availability[0].EndTime)
	assert.Empty(t, schedules[0].TimeOff)

	require.Len(t, schedules[1].TimeOff, 1)
	off := schedules[1].TimeOff[0]
	assert.Equal(t, types.DateString("2025-06-03"), off.StartDate)
	require.NotNil(t, off.StartTime)
	assert.Equal(t, types.TimeString("13:00"), *off.StartTime)
	assert.False(t, off.IsFullDay)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActiveWorkerSchedules_NoWorkers(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM workers`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "is_active", "created_at", "updated_at"}))

	schedules, err := repo.ListActiveWorkerSchedules(context.Background())

	require.NoError(t, err)
	assert.Empty(t, schedules)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetAvailability(t *testing.T) {
	repo, mock := newRepo(t)
	a := &domain.WeeklyAvailability{
		ID:          uuid.New(),
		WorkerID:    uuid.New(),
		DayOfWeek:   time.Monday,
		StartTime:   "09:00",
		EndTime:     "17:00",
		IsAvailable: true,
	}
	existing := uuid.New()

	mock.ExpectQuery(`INSERT INTO weekly_availability .* ON CONFLICT \(worker_id, day_of_week, start_time, end_time\) DO UPDATE SET is_available = EXCLUDED.is_available RETURNING id`).
		WithArgs(a.ID, a.WorkerID, 1, a.StartTime, a.EndTime, true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existing.String()))

	saved, err := repo.SetAvailability(context.Background(), a)

	require.NoError(t, err)
	assert.Equal(t, existing, saved.ID)
}

func TestRepository_SetAvailability_UnknownWorker(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO weekly_availability`).WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.SetAvailability(context.Background(), &domain.WeeklyAvailability{ID: uuid.New(), WorkerID: uuid.New()})

	assert.ErrorIs(t, err, storage.ErrWorkerNotFound)
}

func TestRepository_DeleteTimeOff_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM time_off WHERE id = \$1`).WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteTimeOff(context.Background(), id), storage.ErrTimeOffNotFound)
}

func TestRepository_UpdateWorker_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`UPDATE workers SET`).WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	_, err := repo.UpdateWorker(context.Background(), &domain.Worker{ID: uuid.New(), Name: "Ghost"})

	assert.ErrorIs(t, err, storage.ErrWorkerNotFound)
}
