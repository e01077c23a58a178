package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type slotKey struct {
	date types.DateString
	time types.TimeString
}

// BookingStore хранит бронирования в памяти процесса
// Гарантии действуют только внутри одного процесса.
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]domain.Booking
	slots    map[slotKey]uuid.UUID

	// семафор на дату: буферизованный канал емкостью 1
	locksMu sync.Mutex
	locks   map[types.DateString]chan struct{}
}

func NewBookingStore() *BookingStore {
	return &BookingStore{
		bookings: make(map[uuid.UUID]domain.Booking),
		slots:    make(map[slotKey]uuid.UUID),
		locks:    make(map[types.DateString]chan struct{}),
	}
}

// LockDate блокирует дату до вызова возвращенной функции
// Ожидание прерывается отменой контекста.
func (s *BookingStore) LockDate(ctx context.Context, date types.DateString) (func(), error) {
	s.locksMu.Lock()
	lock, ok := s.locks[date]
	if !ok {
		lock = make(chan struct{}, 1)
		s.locks[date] = lock
	}
	s.locksMu.Unlock()

	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: LockDate - %s: %v", ErrLockCanceled, date, ctx.Err())
	}

	var once sync.Once
	return func() { once.Do(func() { <-lock }) }, nil
}

func (s *BookingStore) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{date: booking.Date, time: booking.Time}
	if _, taken := s.slots[key]; taken {
		return nil, fmt.Errorf("%w: Create - %s %s", ErrSlotTaken, booking.Date, booking.Time)
	}

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	s.bookings[booking.ID] = *booking
	s.slots[key] = booking.ID

	stored := *booking
	return &stored, nil
}

func (s *BookingStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (s *BookingStore) ListByDate(ctx context.Context, date types.DateString) ([]*domain.Booking, error) {
	return s.List(ctx, domain.BookingsFilter{StartDate: &date, EndDate: &date})
}

func (s *BookingStore) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		b := b
		if filter.Matches(&b) {
			result = append(result, &b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Time.IsBefore(result[j].Time)
	})

	return result, nil
}

func (s *BookingStore) Update(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bookings[booking.ID]
	if !ok {
		return nil, ErrBookingNotFound
	}

	oldKey := slotKey{date: current.Date, time: current.Time}
	newKey := slotKey{date: booking.Date, time: booking.Time}
	if owner, taken := s.slots[newKey]; taken && owner != booking.ID {
		return nil, fmt.Errorf("%w: Update - %s %s", ErrSlotTaken, booking.Date, booking.Time)
	}

	booking.Number = current.Number
	booking.CreatedAt = current.CreatedAt
	booking.UpdatedAt = time.Now().UTC()

	delete(s.slots, oldKey)
	s.slots[newKey] = booking.ID
	s.bookings[booking.ID] = *booking

	stored := *booking
	return &stored, nil
}

func (s *BookingStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}

	delete(s.slots, slotKey{date: b.Date, time: b.Time})
	delete(s.bookings, id)
	return nil
}

func (s *BookingStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := int64(len(s.bookings))
	s.bookings = make(map[uuid.UUID]domain.Booking)
	s.slots = make(map[slotKey]uuid.UUID)
	return count, nil
}
