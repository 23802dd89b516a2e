package analytics

import (
	"fieldservice-dashboard/internal/storage"
	"strings"
)

type StockAlert struct {
	PartNumber   string `json:"partNumber"`
	PartName     string `json:"partName"`
	Location     string `json:"location"`
	LocationName string `json:"locationName"`
	Stock        int    `json:"stock"`
	Level        string `json:"level"`
	Top20Usage   bool   `json:"top20Usage"`
}

type StockAlerts struct {
	Critical         []StockAlert `json:"critical"`
	Urgent           []StockAlert `json:"urgent"`
	Warning          []StockAlert `json:"warning"`
	Overstock        []StockAlert `json:"overstock"`
	PriorityCritical []StockAlert `json:"priorityCritical"`
}

type StockHealth struct {
	HealthyCount   int `json:"healthyCount"`
	WarningCount   int `json:"warningCount"`
	UrgentCount    int `json:"urgentCount"`
	CriticalCount  int `json:"criticalCount"`
	OverstockCount int `json:"overstockCount"`
}

type PartStock struct {
	PartNumber string `json:"partNumber"`
	PartName   string `json:"partName"`
	Type       string `json:"type"`
	GrandTotal int    `json:"grandTotal"`
	Status     string `json:"status"`
}

type TypeStock struct {
	Type  string `json:"type"`
	Total int    `json:"total"`
	Parts int    `json:"parts"`
}

type StockKPIs struct {
	TotalParts         int         `json:"totalParts"`
	TotalStockQuantity int         `json:"totalStockQuantity"`
	Top20UsageParts    int         `json:"top20UsageParts"`
	StockAlerts        StockAlerts `json:"stockAlerts"`
	CriticalCount      int         `json:"criticalCount"`
	UrgentCount        int         `json:"urgentCount"`
	WarningCount       int         `json:"warningCount"`
	OverstockCount     int         `json:"overstockCount"`
	PriorityCount      int         `json:"priorityCount"`
	TotalLowStock      int         `json:"totalLowStock"`
	StockHealth        StockHealth `json:"stockHealth"`
	StockByType        []TypeStock `json:"stockByType"`
	TopPartsByStock    []PartStock `json:"topPartsByStock"`
}

const topPartNameLen = 20

// IsTop20Usage - флаг 20_top_usage == "yes".
func IsTop20Usage(r storage.Record) bool {
	return strings.EqualFold(FieldText(r, "20_top_usage", "top_20_usage", "top20_usage"), "yes")
}

// AnalyzeStock раскладывает каждую локацию каждой запчасти по корзинам.
// Одна запчасть может попасть в несколько корзин сразу.
func AnalyzeStock(parts []storage.Record) StockKPIs {
	res := StockKPIs{
		StockAlerts: StockAlerts{
			Critical:         make([]StockAlert, 0),
			Urgent:           make([]StockAlert, 0),
			Warning:          make([]StockAlert, 0),
			Overstock:        make([]StockAlert, 0),
			PriorityCritical: make([]StockAlert, 0),
		},
		StockByType:     make([]TypeStock, 0),
		TopPartsByStock: make([]PartStock, 0),
	}

	byType := NewGroups()
	partsByType := NewGroups()
	partTotals := make([]PartStock, 0, len(parts))

	for _, r := range parts {
		partNumber := FieldText(r, "part_number")
		// строка-заголовок из CSV
		if strings.EqualFold(partNumber, "region") {
			continue
		}
		res.TotalParts++

		partName := FieldText(r, "part_name")
		top20 := IsTop20Usage(r)
		if top20 {
			res.Top20UsageParts++
		}

		locations := LocationStocks(r)
		total := 0
		for _, loc := range locations {
			total += loc.Quantity
			lvl := ClassifyStock(loc.Quantity)
			alert := StockAlert{
				PartNumber:   partNumber,
				PartName:     partName,
				Location:     loc.Key,
				LocationName: loc.Name,
				Stock:        loc.Quantity,
				Level:        lvl.String(),
				Top20Usage:   top20,
			}
			switch lvl {
			case StockCritical:
				res.StockAlerts.Critical = append(res.StockAlerts.Critical, alert)
			case StockUrgent:
				res.StockAlerts.Urgent = append(res.StockAlerts.Urgent, alert)
			case StockWarning:
				res.StockAlerts.Warning = append(res.StockAlerts.Warning, alert)
			case StockOverstock:
				res.StockAlerts.Overstock = append(res.StockAlerts.Overstock, alert)
			}
			if top20 && (lvl == StockUrgent || lvl == StockWarning) {
				res.StockAlerts.PriorityCritical = append(res.StockAlerts.PriorityCritical, alert)
			}
		}
		res.TotalStockQuantity += total

		worst := worstOf(locations)
		switch worst {
		case StockCritical:
			res.StockHealth.CriticalCount++
		case StockUrgent:
			res.StockHealth.UrgentCount++
		case StockWarning:
			res.StockHealth.WarningCount++
		default:
			res.StockHealth.HealthyCount++
		}
		for _, loc := range locations {
			if ClassifyStock(loc.Quantity) == StockOverstock {
				res.StockHealth.OverstockCount++
				break
			}
		}

		typ := FieldOr(r, Unknown, "type_of_part", "part_type")
		byType.Add(typ, total)
		partsByType.Inc(typ)

		partTotals = append(partTotals, PartStock{
			PartNumber: partNumber,
			PartName:   truncate(partName, topPartNameLen),
			Type:       typ,
			GrandTotal: total,
			Status:     worst.String(),
		})
	}

	res.CriticalCount = len(res.StockAlerts.Critical)
	res.UrgentCount = len(res.StockAlerts.Urgent)
	res.WarningCount = len(res.StockAlerts.Warning)
	res.OverstockCount = len(res.StockAlerts.Overstock)
	res.PriorityCount = len(res.StockAlerts.PriorityCritical)
	res.TotalLowStock = res.CriticalCount + res.UrgentCount + res.WarningCount

	types := make([]TypeStock, 0, byType.Len())
	for _, t := range byType.Keys() {
		types = append(types, TypeStock{Type: t, Total: byType.Count(t), Parts: partsByType.Count(t)})
	}
	res.StockByType = TopN(RankByLabel(types,
		func(t TypeStock) float64 { return float64(t.Total) },
		func(t TypeStock) string { return t.Type }), 5)

	res.TopPartsByStock = TopN(RankByLabel(partTotals,
		func(p PartStock) float64 { return float64(p.GrandTotal) },
		func(p PartStock) string { return p.PartNumber }), 8)

	return res
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
