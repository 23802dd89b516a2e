package storage

import (
	"errors"
	"strings"
)

var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrRecordNotFound  = errors.New("record not found")
)

// Record - одна строка выгрузки (инженер, машина, запчасть, SO).
// Набор полей не фиксирован: разные CSV-источники дают разные ключи.
type Record map[string]interface{}

type Resource string

const (
	ResourceEngineers     Resource = "engineers"
	ResourceMachines      Resource = "machines"
	ResourceStockParts    Resource = "stock-parts"
	ResourceServiceOrders Resource = "so-data"
	ResourceLeveling      Resource = "leveling"
)

var resources = []Resource{
	ResourceEngineers,
	ResourceMachines,
	ResourceStockParts,
	ResourceServiceOrders,
	ResourceLeveling,
}

// Resources - все коллекции, которые отдает бэкенд.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

func ParseResource(s string) (Resource, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range resources {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrUnknownResource
}
