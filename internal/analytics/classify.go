package analytics

import (
	"fieldservice-dashboard/internal/storage"
)

// Band - корзина с нижней границей включительно.
type Band struct {
	Name string
	Min  float64
}

// Scale - корзины по возрастанию Min. Интервалы [Min, следующий Min),
// последняя корзина закрыта сверху. Значение ниже первой границы
// попадает в первую корзину.
type Scale []Band

func (s Scale) Classify(v float64) string {
	if len(s) == 0 {
		return ""
	}
	name := s[0].Name
	for _, b := range s {
		if v >= b.Min {
			name = b.Name
		}
	}
	return name
}

const (
	LevelJunior = "junior"
	LevelMid    = "mid"
	LevelSenior = "senior"

	CompletionExcellent = "excellent"
	CompletionHigh      = "high"
	CompletionMedium    = "medium"
	CompletionLow       = "low"
	CompletionVeryLow   = "veryLow"

	WarrantyCritical = "critical"
	WarrantyWarning  = "warning"
	WarrantyGood     = "good"
)

var (
	// CompletionScale - процент пройденных тренингов.
	CompletionScale = Scale{
		{Name: CompletionVeryLow, Min: 0},
		{Name: CompletionLow, Min: 40},
		{Name: CompletionMedium, Min: 60},
		{Name: CompletionHigh, Min: 80},
		{Name: CompletionExcellent, Min: 100},
	}

	// TrainingExperienceScale - опыт в годах для отчета по тренингам.
	TrainingExperienceScale = Scale{
		{Name: LevelJunior, Min: 0},
		{Name: LevelMid, Min: 2},
		{Name: LevelSenior, Min: 5},
	}

	// EngineerExperienceScale - опыт для KPI инженеров, граница senior ниже.
	EngineerExperienceScale = Scale{
		{Name: LevelJunior, Min: 0},
		{Name: LevelMid, Min: 2},
		{Name: LevelSenior, Min: 4},
	}

	// WarrantyScale - сколько дней гарантии осталось.
	WarrantyScale = Scale{
		{Name: WarrantyCritical, Min: 0},
		{Name: WarrantyWarning, Min: 90},
		{Name: WarrantyGood, Min: 180},
	}
)

type StockLevel int

const (
	StockHealthy StockLevel = iota
	StockOverstock
	StockWarning
	StockUrgent
	StockCritical
)

func (l StockLevel) String() string {
	switch l {
	case StockCritical:
		return "critical"
	case StockUrgent:
		return "urgent"
	case StockWarning:
		return "warning"
	case StockOverstock:
		return "overstock"
	default:
		return "healthy"
	}
}

// severity: overstock не хуже healthy.
func (l StockLevel) severity() int {
	switch l {
	case StockCritical:
		return 3
	case StockUrgent:
		return 2
	case StockWarning:
		return 1
	default:
		return 0
	}
}

// ClassifyStock - остаток на одной локации.
func ClassifyStock(qty int) StockLevel {
	switch {
	case qty <= 0:
		return StockCritical
	case qty <= 5:
		return StockUrgent
	case qty <= 10:
		return StockWarning
	case qty > 100:
		return StockOverstock
	default:
		return StockHealthy
	}
}

// WorstStockLevel - самый тяжелый уровень по всем локациям запчасти.
// Без локаций считаем critical: остатков не видно.
func WorstStockLevel(r storage.Record) StockLevel {
	return worstOf(LocationStocks(r))
}

func worstOf(locations []LocationStock) StockLevel {
	if len(locations) == 0 {
		return StockCritical
	}
	worst := StockHealthy
	for _, loc := range locations {
		lvl := ClassifyStock(loc.Quantity)
		if lvl.severity() > worst.severity() {
			worst = lvl
		}
	}
	return worst
}
