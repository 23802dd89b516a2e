package snapshot

import (
	"context"
	"fieldservice-dashboard/internal/storage"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dashboard_snapshot_refresh_total",
	Help: "Snapshot loads from storage by result.",
}, []string{"result"})

type RecordsGetter interface {
	GetRecords(ctx context.Context, resource storage.Resource) ([]storage.Record, error)
}

// Snapshot - все коллекции, прочитанные одним заходом. Только для чтения:
// один и тот же снапшот отдается параллельным запросам.
type Snapshot struct {
	ID            string
	FetchedAt     time.Time
	Engineers     []storage.Record
	Machines      []storage.Record
	StockParts    []storage.Record
	ServiceOrders []storage.Record
	Leveling      []storage.Record
}

func (s *Snapshot) Records(resource storage.Resource) ([]storage.Record, error) {
	switch resource {
	case storage.ResourceEngineers:
		return s.Engineers, nil
	case storage.ResourceMachines:
		return s.Machines, nil
	case storage.ResourceStockParts:
		return s.StockParts, nil
	case storage.ResourceServiceOrders:
		return s.ServiceOrders, nil
	case storage.ResourceLeveling:
		return s.Leveling, nil
	default:
		return nil, storage.ErrUnknownResource
	}
}

const loadKey = "snapshot"

type Cache struct {
	storage RecordsGetter
	ttl     time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	current *Snapshot
	gen     uint64
	loads   singleflight.Group
}

// New: ttl <= 0 - снапшот живет до Invalidate или Refresh.
func New(storage RecordsGetter, ttl time.Duration) *Cache {
	return &Cache{storage: storage, ttl: ttl, now: time.Now}
}

// WithClock подменяет часы, нужно тестам.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get отдает текущий снапшот, при необходимости перечитывая базу.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	s := c.current
	c.mu.RUnlock()

	if s != nil && (c.ttl <= 0 || c.now().Sub(s.FetchedAt) < c.ttl) {
		return s, nil
	}

	return c.Refresh(ctx)
}

// Invalidate сбрасывает снапшот, следующий Get прочитает базу.
// Загрузка, начатая до Invalidate, в кеш уже не попадет.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.gen++
	c.mu.Unlock()
	c.loads.Forget(loadKey)
}

// Refresh читает базу. Параллельные вызовы делят одну загрузку.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	const op = "service.snapshot.Refresh"

	v, err, _ := c.loads.Do(loadKey, func() (interface{}, error) {
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		s, err := c.load(ctx)
		if err != nil {
			refreshTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		refreshTotal.WithLabelValues("ok").Inc()

		c.mu.Lock()
		if c.gen == gen {
			c.current = s
		}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v.(*Snapshot), nil
}

func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{ID: uuid.NewString()}

	targets := map[storage.Resource]*[]storage.Record{
		storage.ResourceEngineers:     &s.Engineers,
		storage.ResourceMachines:      &s.Machines,
		storage.ResourceStockParts:    &s.StockParts,
		storage.ResourceServiceOrders: &s.ServiceOrders,
		storage.ResourceLeveling:      &s.Leveling,
	}

	g, gCtx := errgroup.WithContext(ctx)
	for resource, dst := range targets {
		g.Go(func() error {
			records, err := c.storage.GetRecords(gCtx, resource)
			if err != nil {
				return fmt.Errorf("%s: %w", resource, err)
			}
			if records == nil {
				records = make([]storage.Record, 0)
			}
			*dst = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.FetchedAt = c.now()
	return s, nil
}
