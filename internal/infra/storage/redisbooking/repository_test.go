package redisbooking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type recordedLog struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []recordedLog
}

func (l *recordingLogger) Warn(format string, v ...interface{}) { l.add("warn", format, v...) }

func (l *recordingLogger) Error(format string, v ...interface{}) { l.add("error", format, v...) }

func (l *recordingLogger) add(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, recordedLog{level: level, msg: fmt.Sprintf(format, v...)})
}

func (l *recordingLogger) levels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	levels := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		levels = append(levels, e.level)
	}
	return levels
}

func newRepo(t *testing.T, opts Options) (*Repository, *miniredis.Miniredis) {
	repo, mr, _ := newRepoWithLogger(t, opts)
	return repo, mr
}

func newRepoWithLogger(t *testing.T, opts Options) (*Repository, *miniredis.Miniredis, *recordingLogger) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	log := &recordingLogger{}
	return NewRepository(client, opts, log), mr, log
}

func newBooking(date types.DateString, at types.TimeString) *domain.Booking {
	return &domain.Booking{
		ID:              uuid.New(),
		Number:          "CC-ABC123",
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "+15550100",
		Date:            date,
		Time:            at,
		AppointmentType: domain.AppointmentOnsite,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := newRepo(t, Options{})
	ctx := context.Background()
	b := newBooking("2025-06-02", "10:00")

	created, err := repo.Create(ctx, b)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Number, got.Number)
	assert.Equal(t, types.TimeString("10:00"), got.Time)
	assert.Equal(t, domain.AppointmentOnsite, got.AppointmentType)
}

func TestRepository_Create_SlotTaken(t *testing.T) {
	repo, _ := newRepo(t, Options{})
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking("2025-06-02", "10:00"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newBooking("2025-06-02", "10:00"))
	assert.ErrorIs(t, err, storage.ErrSlotTaken)

	_, err = repo.Create(ctx, newBooking("2025-06-03", "10:00"))
	assert.NoError(t, err)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := newRepo(t, Options{})

	_, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, storage.ErrBookingNotFound)
}

func TestRepository_ListByDate_Sorted(t *testing.T) {
	repo, _ := newRepo(t, Options{})
	ctx := context.Background()

	for _, at := range []types.TimeString{"14:00", "09:00", "11:30"} {
		_, err := repo.Create(ctx, newBooking("2025-06-02", at))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newBooking("2025-06-03", "09:00"))
	require.NoError(t, err)

	bookings, err := repo.ListByDate(ctx, "2025-06-02")

	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, types.TimeString("09:00"), bookings[0].Time)
	assert.Equal(t, types.TimeString("11:30"), bookings[1].Time)
	assert.Equal(t, types.TimeString("14:00"), bookings[2].Time)
}

func TestRepository_List_Filter(t *testing.T) {
	repo, _ := newRepo(t, Options{})
	ctx := context.Background()

	for _, date := range []types.DateString{"2025-06-01", "2025-06-02", "2025-06-05"} {
		_, err := repo.Create(ctx, newBooking(date, "10:00"))
		require.NoError(t, err)
	}

	start, end := types.DateString("2025-06-02"), types.DateString("2025-06-10")
	bookings, err := repo.List(ctx, domain.BookingsFilter{StartDate: &start, EndDate: &end})

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, types.DateString("2025-06-02"), bookings[0].Date)
	assert.Equal(t, types.DateString("2025-06-05"), bookings[1].Date)

	all, err := repo.List(ctx, domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_Update_MovesSlot(t *testing.T) {
	repo, mr := newRepo(t, Options{})
	ctx := context.Background()
	b := newBooking("2025-06-02", "10:00")
	_, err := repo.Create(ctx, b)
	require.NoError(t, err)

	moved := *b
	moved.Time = "13:00"
	moved.Number = ""
	updated, err := repo.Update(ctx, &moved)

	require.NoError(t, err)
	assert.Equal(t, "CC-ABC123", updated.Number)
	assert.False(t, mr.Exists(slotKey("2025-06-02", "10:00")))
	assert.True(t, mr.Exists(slotKey("2025-06-02", "13:00")))

	// освободившийся слот снова можно занять
	_, err = repo.Create(ctx, newBooking("2025-06-02", "10:00"))
	assert.NoError(t, err)
}

func TestRepository_Update_SlotTaken(t *testing.T) {
	repo, _ := newRepo(t, Options{})
	ctx := context.Background()
	first := newBooking("2025-06-02", "10:00")
	second := newBooking("2025-06-02", "12:00")
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	moved := *second
	moved.Time = "10:00"
	_, err = repo.Update(ctx, &moved)

	assert.ErrorIs(t, err, storage.ErrSlotTaken)

	got, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("12:00"), got.Time)
}

func TestRepository_DeleteAndDeleteAll(t *testing.T) {
	repo, mr := newRepo(t, Options{})
	ctx := context.Background()
	b := newBooking("2025-06-02", "10:00")
	_, err := repo.Create(ctx, b)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking("2025-06-02", "11:00"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), storage.ErrBookingNotFound)
	assert.False(t, mr.Exists(slotKey("2025-06-02", "10:00")))

	count, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	bookings, err := repo.List(ctx, domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestRepository_LockDate_Exclusive(t *testing.T) {
	repo, _ := newRepo(t, Options{LockTimeout: 50 * time.Millisecond, RetryInterval: 5 * time.Millisecond})
	ctx := context.Background()

	unlock, err := repo.LockDate(ctx, "2025-06-02")
	require.NoError(t, err)

	_, err = repo.LockDate(ctx, "2025-06-02")
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	other, err := repo.LockDate(ctx, "2025-06-03")
	require.NoError(t, err)
	other()

	unlock()

	again, err := repo.LockDate(ctx, "2025-06-02")
	require.NoError(t, err)
	again()
}

func TestRepository_LockDate_StaleUnlock(t *testing.T) {
	repo, mr, log := newRepoWithLogger(t, Options{LockTTL: 5 * time.Second, LockTimeout: time.Second})
	ctx := context.Background()

	unlock, err := repo.LockDate(ctx, "2025-06-02")
	require.NoError(t, err)

	// блокировка истекла и перехвачена другим владельцем
	mr.FastForward(6 * time.Second)
	require.NoError(t, mr.Set(lockKey("2025-06-02"), "someone-else"))

	unlock()

	value, err := mr.Get(lockKey("2025-06-02"))
	require.NoError(t, err)
	assert.Equal(t, "someone-else", value)
	assert.Equal(t, []string{"warn"}, log.levels())
}

func TestRepository_LockDate_ReleaseErrorIsLogged(t *testing.T) {
	repo, mr, log := newRepoWithLogger(t, Options{})

	unlock, err := repo.LockDate(context.Background(), "2025-06-02")
	require.NoError(t, err)

	mr.SetError("READONLY You can't write against a read only replica")
	unlock()

	require.Equal(t, []string{"error"}, log.levels())
	assert.Contains(t, log.entries[0].msg, lockKey("2025-06-02"))
}

func TestRepository_LockDate_CleanReleaseLogsNothing(t *testing.T) {
	repo, _, log := newRepoWithLogger(t, Options{})

	unlock, err := repo.LockDate(context.Background(), "2025-06-02")
	require.NoError(t, err)
	unlock()

	assert.Empty(t, log.levels())
}

func TestNewRepository_LockTTLCoversTimeout(t *testing.T) {
	repo, _, log := newRepoWithLogger(t, Options{LockTTL: time.Second, LockTimeout: 3 * time.Second})

	assert.Equal(t, 3*time.Second+lockHoldMargin, repo.opts.LockTTL)
	assert.Equal(t, []string{"warn"}, log.levels())

	repo, _, log = newRepoWithLogger(t, Options{})
	assert.Equal(t, defaultLockTTL, repo.opts.LockTTL)
	assert.GreaterOrEqual(t, repo.opts.LockTTL, repo.opts.LockTimeout+lockHoldMargin)
	assert.Empty(t, log.levels())
}

func TestRepository_LockDate_Serializes(t *testing.T) {
	repo, _ := newRepo(t, Options{LockTimeout: 2 * time.Second, RetryInterval: time.Millisecond})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := repo.LockDate(ctx, "2025-06-02")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
