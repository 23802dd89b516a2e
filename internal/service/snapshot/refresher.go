package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Second

// Refresher обновляет снапшот по расписанию, чтобы запросы не ждали базу.
type Refresher struct {
	log   *slog.Logger
	cache *Cache
	cron  *cron.Cron
}

// NewRefresher: schedule - cron-выражение с секундами ("0 */5 * * * *").
func NewRefresher(log *slog.Logger, cache *Cache, schedule string) (*Refresher, error) {
	const op = "service.snapshot.NewRefresher"

	r := &Refresher{
		log:   log,
		cache: cache,
		cron:  cron.New(cron.WithSeconds()),
	}

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("%s: invalid cron %q: %w", op, schedule, err)
	}

	return r, nil
}

func (r *Refresher) Start() {
	r.cron.Start()
	r.log.Info("snapshot refresher started", slog.Int("jobs", len(r.cron.Entries())))
}

// Stop ждет завершения текущего обновления.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info("snapshot refresher stopped")
}

func (r *Refresher) run() {
	const op = "service.snapshot.Refresher.run"

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	s, err := r.cache.Refresh(ctx)
	if err != nil {
		r.log.Error("snapshot refresh failed", slog.String("op", op), slog.String("error", err.Error()))
		return
	}

	r.log.Debug("snapshot refreshed", slog.String("id", s.ID), slog.Int("engineers", len(s.Engineers)),
		slog.Int("so", len(s.ServiceOrders)))
}
