package redisbooking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	defaultLockTTL       = 10 * time.Second
	defaultLockTimeout   = 3 * time.Second
	defaultRetryInterval = 25 * time.Millisecond

	// запас на критическую секцию: ключ блокировки должен пережить ожидание и саму запись
	lockHoldMargin = 2 * time.Second
	releaseTimeout = time.Second
)

// снимаем блокировку, только если она все еще наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Options параметры блокировки даты
type Options struct {
	LockTTL       time.Duration // время жизни ключа блокировки
	LockTimeout   time.Duration // сколько ждать блокировку, прежде чем вернуть ErrLockTimeout
	RetryInterval time.Duration
}

// Repository хранит бронирования в redis
// Дата сериализуется через ключ блокировки bookings:lock:{date}, ключ слота гарантирует уникальность (дата, время).
type Repository struct {
	client redis.UniversalClient
	opts   Options
	logger Logger
}

// NewRepository создает новый экземпляр redis-репозитория бронирований
// LockTTL поднимается до LockTimeout + lockHoldMargin, если задан меньше.
func NewRepository(client redis.UniversalClient, opts Options, logger Logger) *Repository {
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = defaultLockTimeout
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaultRetryInterval
	}
	if minTTL := opts.LockTimeout + lockHoldMargin; opts.LockTTL < minTTL {
		logger.Warn("redisbooking: lock TTL %s is shorter than lock timeout %s plus %s, using %s",
			opts.LockTTL, opts.LockTimeout, lockHoldMargin, minTTL)
		opts.LockTTL = minTTL
	}
	return &Repository{client: client, opts: opts, logger: logger}
}

// LockDate получает эксклюзивную блокировку даты
// Возвращаемая функция снимает блокировку, если она все еще принадлежит вызвавшему.
func (r *Repository) LockDate(ctx context.Context, date types.DateString) (func(), error) {
	key := lockKey(date)
	token := uuid.NewString()

	deadline := time.Now().Add(r.opts.LockTimeout)
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.opts.LockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: LockDate - setnx %s: %v", ErrCommand, key, err)
		}
		if ok {
			break
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: LockDate - %s", ErrLockTimeout, date)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: LockDate - %s: %v", ErrLockTimeout, date, ctx.Err())
		case <-time.After(r.opts.RetryInterval):
		}
	}

	unlock := func() {
		// контекст запроса мог уже завершиться, блокировку все равно нужно снять
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		released, err := releaseScript.Run(releaseCtx, r.client, []string{key}, token).Int64()
		if err != nil {
			// ключ освободится сам через LockTTL
			r.logger.Error("redisbooking: LockDate - release %s: %v", key, err)
			return
		}
		if released == 0 {
			r.logger.Warn("redisbooking: LockDate - lock %s expired before release, critical section outlived TTL %s", key, r.opts.LockTTL)
		}
	}

	return unlock, nil
}

// Create сохраняет новое бронирование
// Если ключ слота уже существует, возвращается ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	payload, err := json.Marshal(toRecord(booking))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal: %v", ErrDecode, err)
	}

	slot := slotKey(booking.Date, booking.Time)
	ok, err := r.client.SetNX(ctx, slot, booking.ID.String(), 0).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - setnx %s: %v", ErrCommand, slot, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: Create - %s %s", ErrSlotTaken, booking.Date, booking.Time)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, bookingKey(booking.ID), payload, 0)
		pipe.SAdd(ctx, dateKey(booking.Date), booking.ID.String())
		pipe.SAdd(ctx, allBookingsKey, booking.ID.String())
		return nil
	})
	if err != nil {
		r.client.Del(ctx, slot)
		return nil, fmt.Errorf("%w: Create - write booking: %v", ErrCommand, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	data, err := r.client.Get(ctx, bookingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - get: %v", ErrCommand, err)
	}

	return decode(data)
}

// ListByDate получает все бронирования на дату, отсортированные по времени
func (r *Repository) ListByDate(ctx context.Context, date types.DateString) ([]*domain.Booking, error) {
	ids, err := r.client.SMembers(ctx, dateKey(date)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - smembers: %v", ErrCommand, err)
	}

	return r.load(ctx, ids, domain.BookingsFilter{})
}

// List получает бронирования с фильтрацией по периоду
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	if filter.IsSingleDate() {
		return r.ListByDate(ctx, *filter.StartDate)
	}

	ids, err := r.client.SMembers(ctx, allBookingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: List - smembers: %v", ErrCommand, err)
	}

	return r.load(ctx, ids, filter)
}

// Update перезаписывает изменяемые поля бронирования
// При переносе на другой слот новый ключ слота занимается до удаления старого.
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	current, err := r.GetByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	booking.Number = current.Number
	booking.CreatedAt = current.CreatedAt
	booking.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(toRecord(booking))
	if err != nil {
		return nil, fmt.Errorf("%w: Update - marshal: %v", ErrDecode, err)
	}

	moved := !current.IsAt(booking.Date, booking.Time)
	newSlot := slotKey(booking.Date, booking.Time)
	if moved {
		ok, err := r.client.SetNX(ctx, newSlot, booking.ID.String(), 0).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: Update - setnx %s: %v", ErrCommand, newSlot, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: Update - %s %s", ErrSlotTaken, booking.Date, booking.Time)
		}
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, bookingKey(booking.ID), payload, 0)
		if moved {
			pipe.Del(ctx, slotKey(current.Date, current.Time))
			pipe.SRem(ctx, dateKey(current.Date), booking.ID.String())
			pipe.SAdd(ctx, dateKey(booking.Date), booking.ID.String())
		}
		return nil
	})
	if err != nil {
		if moved {
			r.client.Del(ctx, newSlot)
		}
		return nil, fmt.Errorf("%w: Update - write booking: %v", ErrCommand, err)
	}

	return booking, nil
}

// Delete удаляет бронирование вместе с ключом его слота
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	booking, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removeBooking(ctx, pipe, booking)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: Delete - remove booking: %v", ErrCommand, err)
	}

	return nil
}

// DeleteAll удаляет все бронирования и возвращает их количество
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	ids, err := r.client.SMembers(ctx, allBookingsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAll - smembers: %v", ErrCommand, err)
	}

	bookings, err := r.load(ctx, ids, domain.BookingsFilter{})
	if err != nil {
		return 0, err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, b := range bookings {
			removeBooking(ctx, pipe, b)
		}
		pipe.Del(ctx, allBookingsKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAll - remove bookings: %v", ErrCommand, err)
	}

	return int64(len(bookings)), nil
}

// Ping проверяет соединение с redis
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: Ping: %v", ErrCommand, err)
	}
	return nil
}

func removeBooking(ctx context.Context, pipe redis.Pipeliner, b *domain.Booking) {
	pipe.Del(ctx, bookingKey(b.ID))
	pipe.Del(ctx, slotKey(b.Date, b.Time))
	pipe.SRem(ctx, dateKey(b.Date), b.ID.String())
	pipe.SRem(ctx, allBookingsKey, b.ID.String())
}

// load читает бронирования по ID, пропуская исчезнувшие записи
func (r *Repository) load(ctx context.Context, ids []string, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0, len(ids))
	if len(ids) == 0 {
		return bookings, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, bookingKeyPrefix+id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: load - mget: %v", ErrCommand, err)
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		b, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		if filter.Matches(b) {
			bookings = append(bookings, b)
		}
	}

	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date.Before(bookings[j].Date)
		}
		return bookings[i].Time.IsBefore(bookings[j].Time)
	})

	return bookings, nil
}
