package dashboard

import (
	"context"
	"errors"
	"fieldservice-dashboard/internal/analytics"
	"fieldservice-dashboard/internal/storage"
	"fmt"
	"strings"
)

var ErrInvalidRecord = errors.New("invalid record")

// Record читает одну запись из хранилища мимо снапшота, чтобы админка
// видела последнюю версию.
func (s *Service) Record(ctx context.Context, resource, key string) (storage.Record, error) {
	const op = "service.dashboard.Record"

	res, err := storage.ParseResource(resource)
	if err != nil {
		return nil, fmt.Errorf("%s: %q: %w", op, resource, err)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%s: empty key: %w", op, ErrInvalidRecord)
	}

	rec, err := s.store.GetRecord(ctx, res, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}

// SaveRecord - upsert записи целиком. Остатки запчастей проверяются
// так же, как при правке по локациям.
func (s *Service) SaveRecord(ctx context.Context, resource, key string, rec storage.Record) error {
	const op = "service.dashboard.SaveRecord"

	res, err := storage.ParseResource(resource)
	if err != nil {
		return fmt.Errorf("%s: %q: %w", op, resource, err)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s: empty key: %w", op, ErrInvalidRecord)
	}
	if len(rec) == 0 {
		return fmt.Errorf("%s: empty record: %w", op, ErrInvalidRecord)
	}

	if res == storage.ResourceStockParts {
		if rec, err = cleanStockRecord(rec); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.store.SaveRecord(ctx, res, key, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.snapshots.Invalidate()

	return nil
}

func cleanStockRecord(rec storage.Record) (storage.Record, error) {
	out := make(storage.Record, len(rec))
	for k, v := range rec {
		if !analytics.IsLocationStockKey(k) {
			out[k] = v
			continue
		}
		qty, err := stockQuantity(v)
		if err != nil {
			return nil, fmt.Errorf("%q: %v: %w", k, err, ErrInvalidStock)
		}
		out[k] = qty
	}
	return out, nil
}
