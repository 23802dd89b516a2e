package dashboard

import (
	"context"
	"errors"
	"fieldservice-dashboard/internal/analytics"
	"fieldservice-dashboard/internal/storage"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var ErrInvalidStock = errors.New("invalid stock update")

// строка остатка - только десятичные цифры, без знака, точки и префиксов
var stockDigits = regexp.MustCompile(`^[0-9]+$`)

type StockUpdate struct {
	PartNumber string         `json:"partNumber"`
	GrandTotal int            `json:"grandTotal"`
	Status     string         `json:"status"`
	Part       storage.Record `json:"part"`
}

// UpdateStock меняет остатки запчасти по локациям. Ключи - только поля
// локаций, значения - целые >= 0. После записи снапшот сбрасывается.
func (s *Service) UpdateStock(ctx context.Context, partNumber string, fields map[string]interface{}) (StockUpdate, error) {
	const op = "service.dashboard.UpdateStock"

	partNumber = strings.TrimSpace(partNumber)
	if partNumber == "" {
		return StockUpdate{}, fmt.Errorf("%s: empty part number: %w", op, ErrInvalidStock)
	}

	clean, err := ValidateStockFields(fields)
	if err != nil {
		return StockUpdate{}, fmt.Errorf("%s: %w", op, err)
	}

	part, err := s.store.UpdateStockPart(ctx, partNumber, clean)
	if err != nil {
		return StockUpdate{}, fmt.Errorf("%s: %w", op, err)
	}
	s.snapshots.Invalidate()

	return StockUpdate{
		PartNumber: partNumber,
		GrandTotal: analytics.GrandTotal(part),
		Status:     analytics.WorstStockLevel(part).String(),
		Part:       part,
	}, nil
}

// ValidateStockFields приводит значения к int и отбраковывает все остальное.
func ValidateStockFields(fields map[string]interface{}) (map[string]interface{}, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields: %w", ErrInvalidStock)
	}

	clean := make(map[string]interface{}, len(fields))
	for key, v := range fields {
		if !analytics.IsLocationStockKey(key) {
			return nil, fmt.Errorf("%q is not a location stock field: %w", key, ErrInvalidStock)
		}
		qty, err := stockQuantity(v)
		if err != nil {
			return nil, fmt.Errorf("%q: %v: %w", key, err, ErrInvalidStock)
		}
		clean[key] = qty
	}

	return clean, nil
}

func stockQuantity(v interface{}) (int, error) {
	var qty int
	switch val := v.(type) {
	case nil, bool:
		return 0, fmt.Errorf("not a number: %v", v)
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("not an integer: %v", val)
		}
		qty = int(val)
	case string:
		digits := strings.TrimSpace(val)
		if !stockDigits.MatchString(digits) {
			return 0, fmt.Errorf("not an integer: %q", val)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, fmt.Errorf("out of range: %q", val)
		}
		qty = n
	default:
		n, err := cast.ToIntE(val)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		qty = n
	}
	if qty < 0 {
		return 0, fmt.Errorf("negative: %d", qty)
	}
	return qty, nil
}
