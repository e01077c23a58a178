package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const monday = "2025-06-02"

type failingBookings struct{}

func (failingBookings) ListByDate(context.Context, types.DateString) ([]*domain.Booking, error) {
	return nil, errors.New("connection refused")
}

// purgingSchedule имитирует изменение расписания, пришедшее во время чтения
type purgingSchedule struct {
	*memory.ScheduleStore
	cache *slots.Cache
}

func (s purgingSchedule) ListActiveWorkerSchedules(ctx context.Context) ([]domain.WorkerSchedule, error) {
	schedules, err := s.ScheduleStore.ListActiveWorkerSchedules(ctx)
	s.cache.Purge(ctx)
	return schedules, err
}

func seededSchedule(t *testing.T, workers int) *memory.ScheduleStore {
	t.Helper()
	seed := memory.Seed{}
	for i := 0; i < workers; i++ {
		seed.Workers = append(seed.Workers, memory.SeedWorker{
			Name:         "worker",
			Active:       true,
			Availability: []memory.SeedAvailability{{Day: int(time.Monday), Start: "09:00", End: "17:00"}},
		})
	}
	store := memory.NewScheduleStore()
	require.NoError(t, store.Load(seed))
	return store
}

func book(t *testing.T, store *memory.BookingStore, date types.DateString, at types.TimeString) {
	t.Helper()
	_, err := store.Create(context.Background(), &domain.Booking{
		ID: uuid.New(), Name: "Jane", Email: "jane@example.com", Phone: "+15550100",
		Date: date, Time: at, AppointmentType: domain.AppointmentOnsite,
	})
	require.NoError(t, err)
}

func TestUseCase_FullDayWithoutBookings(t *testing.T) {
	uc := NewUseCase(memory.NewBookingStore(), seededSchedule(t, 2), slots.Noop{}, domain.DefaultBookingRules(), logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{Date: monday})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 16)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0])
	assert.Equal(t, types.TimeString("16:30"), resp.Slots[15])
	for _, c := range resp.Capacity {
		assert.Equal(t, 2, c.Capacity)
	}
}

func TestUseCase_BookingRemovesSlotAndBlackout(t *testing.T) {
	bookings := memory.NewBookingStore()
	book(t, bookings, monday, "10:00")
	uc := NewUseCase(bookings, seededSchedule(t, 1), slots.Noop{}, domain.DefaultBookingRules(), logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{Date: monday})

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 13)
	assert.NotContains(t, resp.Slots, types.TimeString("10:00"))
	assert.NotContains(t, resp.Slots, types.TimeString("10:30"))
	assert.NotContains(t, resp.Slots, types.TimeString("11:00"))
	assert.Contains(t, resp.Slots, types.TimeString("09:30"))
	assert.Contains(t, resp.Slots, types.TimeString("11:30"))
}

func TestUseCase_NoWorkersOnWeekday(t *testing.T) {
	uc := NewUseCase(memory.NewBookingStore(), seededSchedule(t, 1), slots.Noop{}, domain.DefaultBookingRules(), logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-06-03"})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots)
}

func TestUseCase_CacheServesScheduleButNotBookings(t *testing.T) {
	bookings := memory.NewBookingStore()
	schedule := seededSchedule(t, 1)
	cache := slots.New(16, time.Minute, nil)
	uc := NewUseCase(bookings, schedule, cache, domain.DefaultBookingRules(), logger.NewNop())
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{Date: monday})
	require.NoError(t, err)

	// расписание поменялось, но кэш еще не сброшен
	require.NoError(t, schedule.Load(memory.Seed{}))
	book(t, bookings, monday, "16:30")

	resp, err := uc.Execute(ctx, &Request{Date: monday})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 15)

	cache.Purge(ctx)
	resp, err = uc.Execute(ctx, &Request{Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_StaleScheduleReadIsNotCached(t *testing.T) {
	cache := slots.New(16, time.Minute, nil)
	schedule := purgingSchedule{ScheduleStore: seededSchedule(t, 1), cache: cache}
	uc := NewUseCase(memory.NewBookingStore(), schedule, cache, domain.DefaultBookingRules(), logger.NewNop())
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{Date: monday})

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 16)
	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get(ctx, monday)
	assert.False(t, ok)
}

func TestUseCase_InvalidDate(t *testing.T) {
	uc := NewUseCase(memory.NewBookingStore(), seededSchedule(t, 1), slots.Noop{}, domain.DefaultBookingRules(), logger.NewNop())

	for _, date := range []string{"", "2025-6-2", "02.06.2025", "2025-02-30"} {
		_, err := uc.Execute(context.Background(), &Request{Date: date})
		assert.ErrorIs(t, err, ErrInvalidInput, date)
	}
}

func TestUseCase_StoreUnavailable(t *testing.T) {
	uc := NewUseCase(failingBookings{}, seededSchedule(t, 1), slots.Noop{}, domain.DefaultBookingRules(), logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Date: monday})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
