package slots

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Metrics счетчик попаданий в кэш
type Metrics interface {
	ObserveCacheLookup(hit bool)
}

// Cache кэш слотов, разрешенных по расписанию, с ключом по дате
// Бронирования в кэш не попадают: их всегда вычитают заново.
// Каждый Purge увеличивает поколение; Set с устаревшим поколением игнорируется,
// поэтому чтение расписания, начатое до изменения, не вернет старые слоты в кэш.
type Cache struct {
	lru     *expirable.LRU[types.DateString, []domain.AvailableSlot]
	metrics Metrics

	mu         sync.Mutex
	generation uint64
}

// New создает кэш на size дат с временем жизни записи ttl
func New(size int, ttl time.Duration, metrics Metrics) *Cache {
	return &Cache{
		lru:     expirable.NewLRU[types.DateString, []domain.AvailableSlot](size, nil, ttl),
		metrics: metrics,
	}
}

func (c *Cache) Get(_ context.Context, date types.DateString) ([]domain.AvailableSlot, bool) {
	slots, ok := c.lru.Get(date)
	if c.metrics != nil {
		c.metrics.ObserveCacheLookup(ok)
	}
	if !ok {
		return nil, false
	}

	// вызывающий может модифицировать результат
	out := make([]domain.AvailableSlot, len(slots))
	copy(out, slots)
	return out, true
}

// Generation текущее поколение, его нужно взять до чтения расписания
func (c *Cache) Generation(_ context.Context) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Set сохраняет слоты, если с момента Generation не было Purge
func (c *Cache) Set(_ context.Context, date types.DateString, slots []domain.AvailableSlot, generation uint64) bool {
	stored := make([]domain.AvailableSlot, len(slots))
	copy(stored, slots)

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	c.lru.Add(date, stored)
	return true
}

// Purge сбрасывает кэш целиком: изменение расписания затрагивает все даты
func (c *Cache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lru.Purge()
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

// Noop кэш для выключенного кэширования
type Noop struct{}

func (Noop) Get(context.Context, types.DateString) ([]domain.AvailableSlot, bool) {
	return nil, false
}

func (Noop) Generation(context.Context) uint64 { return 0 }

func (Noop) Set(context.Context, types.DateString, []domain.AvailableSlot, uint64) bool { return false }

func (Noop) Purge(context.Context) {}
