package analytics

import (
	"fieldservice-dashboard/internal/storage"
)

// Groups - счетчики по ключу с сохранением порядка первого появления.
type Groups struct {
	keys   []string
	counts map[string]int
}

func NewGroups() *Groups {
	return &Groups{keys: make([]string, 0), counts: make(map[string]int)}
}

// Add увеличивает счетчик. Пустой ключ уходит в "Unknown".
func (g *Groups) Add(key string, n int) {
	if key == "" {
		key = Unknown
	}
	if _, ok := g.counts[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.counts[key] += n
}

func (g *Groups) Inc(key string) { g.Add(key, 1) }

func (g *Groups) Count(key string) int { return g.counts[key] }

func (g *Groups) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

func (g *Groups) Len() int { return len(g.keys) }

func (g *Groups) Total() int {
	total := 0
	for _, k := range g.keys {
		total += g.counts[k]
	}
	return total
}

// Map - копия для JSON.
func (g *Groups) Map() map[string]int {
	out := make(map[string]int, len(g.keys))
	for _, k := range g.keys {
		out[k] = g.counts[k]
	}
	return out
}

// GroupBy считает записи по ключу, отсутствующий ключ -> "Unknown".
func GroupBy(records []storage.Record, keyFn func(storage.Record) string) *Groups {
	g := NewGroups()
	for _, r := range records {
		g.Inc(keyFn(r))
	}
	return g
}

// ByField - keyFn по первому непустому алиасу.
func ByField(aliases ...string) func(storage.Record) string {
	return func(r storage.Record) string {
		return FieldText(r, aliases...)
	}
}

type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type Share struct {
	Key        string `json:"key"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// WithPercentage в порядке групп.
func WithPercentage(g *Groups, total int) []Share {
	out := make([]Share, 0, g.Len())
	for _, k := range g.keys {
		c := g.counts[k]
		out = append(out, Share{Key: k, Count: c, Percentage: Percentage(c, total)})
	}
	return out
}

// TopEntry - группа с максимальным счетчиком. При равенстве побеждает
// та, что встретилась раньше; по алфавиту не пересортировываем.
func TopEntry(g *Groups) *Entry {
	if g == nil || g.Len() == 0 {
		return nil
	}
	best := Entry{Key: g.keys[0], Count: g.counts[g.keys[0]]}
	for _, k := range g.keys[1:] {
		if c := g.counts[k]; c > best.Count {
			best = Entry{Key: k, Count: c}
		}
	}
	return &best
}

// Entries - группы по убыванию счетчика, при равенстве порядок появления.
func Entries(g *Groups) []Entry {
	out := make([]Entry, 0, g.Len())
	for _, k := range g.keys {
		out = append(out, Entry{Key: k, Count: g.counts[k]})
	}
	return Rank(out, func(e Entry) float64 { return float64(e.Count) }, nil)
}
