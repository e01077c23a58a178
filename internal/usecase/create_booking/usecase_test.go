package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

// воскресенье 1 июня 2025, 12:00 UTC
var sunday = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (p fixedTime) Now() time.Time { return p.now }

type recordingNotifier struct {
	mu      sync.Mutex
	created []*domain.Booking
	err     error
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b *domain.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b)
	return n.err
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *recordingMetrics) ObserveAdmission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

type unavailableStore struct{}

func (unavailableStore) LockDate(context.Context, types.DateString) (func(), error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (unavailableStore) ListByDate(context.Context, types.DateString) ([]*domain.Booking, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (unavailableStore) Create(context.Context, *domain.Booking) (*domain.Booking, error) {
	return nil, errors.New("dial tcp: connection refused")
}

type fixture struct {
	uc       *UseCase
	store    *memory.BookingStore
	notifier *recordingNotifier
	metrics  *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewBookingStore(),
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{},
	}
	f.uc = NewUseCase(f.store, txmanager.NewNoopManager(), f.notifier, f.metrics,
		domain.DefaultBookingRules(), time.UTC, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: sunday}
	return f
}

func request(date, at string) *Request {
	return &Request{BookingInput: domain.BookingInput{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "+15550100",
		Date:  date,
		Time:  at,
	}}
}

func TestUseCase_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request("2025-06-02", "10:00"))

	require.NoError(t, err)
	b := resp.Booking
	assert.NotEmpty(t, b.ID)
	assert.Regexp(t, `^CC-[A-Z0-9]{6}$`, b.Number)
	assert.Equal(t, types.DateString("2025-06-02"), b.Date)
	assert.Equal(t, domain.AppointmentOnsite, b.AppointmentType)
	assert.False(t, b.CreatedAt.IsZero())

	require.Len(t, f.notifier.created, 1)
	assert.Equal(t, b.ID, f.notifier.created[0].ID)
	assert.Equal(t, 1, f.metrics.outcomes[outcomeCreated])
}

func TestUseCase_NotifierFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")

	_, err := f.uc.Execute(context.Background(), request("2025-06-02", "10:00"))

	assert.NoError(t, err)
}

func TestUseCase_ValidationBeforeStore(t *testing.T) {
	uc := NewUseCase(unavailableStore{}, txmanager.NewNoopManager(), &recordingNotifier{}, &recordingMetrics{},
		domain.DefaultBookingRules(), time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{now: sunday}

	req := request("2025-06-02", "10:15")
	req.Email = "not-an-email"
	_, err := uc.Execute(context.Background(), req)

	require.ErrorIs(t, err, ErrInvalidInput)
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestUseCase_TooSoon(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request("2025-06-01", "10:00"))
	assert.ErrorIs(t, err, ErrTooSoon)

	_, err = f.uc.Execute(context.Background(), request("2025-05-30", "10:00"))
	assert.ErrorIs(t, err, ErrTooSoon)

	_, err = f.uc.Execute(context.Background(), request("2025-06-02", "10:00"))
	assert.NoError(t, err)
}

func TestUseCase_TooSoon_UsesServiceTimezone(t *testing.T) {
	f := newFixture(t)
	// 23:30 UTC в воскресенье - уже понедельник в UTC+9
	f.uc.location = time.FixedZone("UTC+9", 9*60*60)
	f.uc.timeProvider = fixedTime{now: time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), request("2025-06-02", "10:00"))
	assert.ErrorIs(t, err, ErrTooSoon)

	_, err = f.uc.Execute(context.Background(), request("2025-06-03", "10:00"))
	assert.NoError(t, err)
}

func TestUseCase_SlotTakenAndBlocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request("2025-06-02", "10:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request("2025-06-02", "10:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)

	for _, at := range []string{"10:30", "11:00"} {
		_, err = f.uc.Execute(ctx, request("2025-06-02", at))
		assert.ErrorIs(t, err, ErrSlotBlocked, at)
	}

	_, err = f.uc.Execute(ctx, request("2025-06-02", "11:30"))
	assert.NoError(t, err)

	// другая дата не затронута
	_, err = f.uc.Execute(ctx, request("2025-06-03", "10:30"))
	assert.NoError(t, err)

	assert.Equal(t, 1, f.metrics.outcomes[outcomeTaken])
	assert.Equal(t, 2, f.metrics.outcomes[outcomeBlocked])
}

func TestUseCase_DeleteReopensSlotAndBlackout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, request("2025-06-02", "10:00"))
	require.NoError(t, err)
	require.NoError(t, f.store.Delete(ctx, resp.Booking.ID))

	_, err = f.uc.Execute(ctx, request("2025-06-02", "10:30"))
	assert.NoError(t, err)
}

func TestUseCase_StoreUnavailable(t *testing.T) {
	metrics := &recordingMetrics{}
	uc := NewUseCase(unavailableStore{}, txmanager.NewNoopManager(), &recordingNotifier{}, metrics,
		domain.DefaultBookingRules(), time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{now: sunday}

	_, err := uc.Execute(context.Background(), request("2025-06-02", "10:00"))

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 1, metrics.outcomes[outcomeUnavailable])
}

func TestUseCase_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 5
	errs := make(chan error, attempts)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.Execute(ctx, request("2025-06-02", "10:00"))
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSlotTaken):
			taken++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, taken)

	bookings, err := f.store.ListByDate(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestEndToEnd_AvailabilityAfterBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	schedule := memory.NewScheduleStore()
	require.NoError(t, schedule.Load(memory.Seed{Workers: []memory.SeedWorker{{
		Name:         "Alex",
		Active:       true,
		Availability: []memory.SeedAvailability{{Day: int(time.Monday), Start: "09:00", End: "17:00"}},
	}}}))
	slotsUC := get_available_slots.NewUseCase(f.store, schedule, slots.New(8, time.Minute, nil),
		domain.DefaultBookingRules(), logger.NewNop())

	before, err := slotsUC.Execute(ctx, &get_available_slots.Request{Date: "2025-06-02"})
	require.NoError(t, err)
	assert.Len(t, before.Slots, 16)

	_, err = f.uc.Execute(ctx, request("2025-06-02", "09:00"))
	require.NoError(t, err)

	after, err := slotsUC.Execute(ctx, &get_available_slots.Request{Date: "2025-06-02"})
	require.NoError(t, err)
	assert.Len(t, after.Slots, 13)
	assert.Equal(t, types.TimeString("10:30"), after.Slots[0])
}
