package analytics

import (
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"math"
	"strings"
	"time"
)

// WarrantyYears - гарантия от года установки.
const WarrantyYears = 2

type WarrantyStatusCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Good     int `json:"good"`
}

type WarrantyRemaining struct {
	AvgDays      int                  `json:"avgDays"`
	AvgMonths    int                  `json:"avgMonths"`
	AvgYears     int                  `json:"avgYears"`
	ExpiringSoon int                  `json:"expiringSoon"`
	StatusCounts WarrantyStatusCounts `json:"statusCounts"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type MachineKPIs struct {
	TotalMachines     int               `json:"totalMachines"`
	TotalAllMachines  int               `json:"totalAllMachines"`
	OnWarranty        int               `json:"onWarranty"`
	OutOfWarranty     int               `json:"outOfWarranty"`
	WarrantyRemaining WarrantyRemaining `json:"warrantyRemaining"`
	MaintenanceStats  map[string]int    `json:"maintenanceStats"`
	TopAreaGroups     []NamedCount      `json:"topAreaGroups"`
	TopCustomers      []NamedCount      `json:"topCustomers"`
}

// WarrantyDaysLeft - дней до 31 декабря года (установка + WarrantyYears).
// false, если гарантия уже истекла или год неизвестен.
func WarrantyDaysLeft(installYear int, now time.Time) (int, bool) {
	if installYear <= 0 {
		return 0, false
	}
	end := time.Date(installYear+WarrantyYears, time.December, 31, 0, 0, 0, 0, now.Location())
	days := int(math.Ceil(end.Sub(now).Hours() / 24))
	if days < 0 {
		return 0, false
	}
	return days, true
}

func isOutOfWarranty(r storage.Record) bool {
	status := strings.ToLower(FieldText(r, "machine_status"))
	return status == "out of warranty" || strings.Contains(status, "expired")
}

// AnalyzeMachines - гарантия, обслуживание, топы по area group и клиентам.
func AnalyzeMachines(filtered, all []storage.Record, now time.Time) MachineKPIs {
	res := MachineKPIs{
		TotalMachines:    len(filtered),
		TotalAllMachines: len(all),
		TopAreaGroups:    make([]NamedCount, 0),
		TopCustomers:     make([]NamedCount, 0),
	}

	remaining := make([]float64, 0)
	for _, r := range filtered {
		if isOutOfWarranty(r) {
			res.OutOfWarranty++
		}
		if !isOnWarranty(r) {
			continue
		}
		res.OnWarranty++

		days, ok := WarrantyDaysLeft(ToNumber(firstValue(r, constants.InstallYearFields...)), now)
		if !ok {
			continue
		}
		remaining = append(remaining, float64(days))
		switch WarrantyScale.Classify(float64(days)) {
		case WarrantyCritical:
			res.WarrantyRemaining.StatusCounts.Critical++
		case WarrantyWarning:
			res.WarrantyRemaining.StatusCounts.Warning++
		default:
			res.WarrantyRemaining.StatusCounts.Good++
		}
	}

	avg := roundInt(mean(remaining))
	res.WarrantyRemaining.AvgDays = avg
	res.WarrantyRemaining.AvgMonths = roundInt(float64(avg) / 30)
	res.WarrantyRemaining.AvgYears = roundInt(float64(avg) / 365)
	res.WarrantyRemaining.ExpiringSoon = res.WarrantyRemaining.StatusCounts.Critical

	res.MaintenanceStats = GroupBy(filtered, ByField("maintenance_status")).Map()

	areas := GroupBy(filtered, func(r storage.Record) string {
		return NormalizeAreaGroup(r["area_group"])
	})
	for _, e := range TopN(Entries(areas), 3) {
		res.TopAreaGroups = append(res.TopAreaGroups, NamedCount{Name: e.Key, Value: e.Count})
	}
	for _, e := range TopN(Entries(GroupBy(filtered, ByField(constants.CustomerFields...))), 3) {
		res.TopCustomers = append(res.TopCustomers, NamedCount{Name: e.Key, Value: e.Count})
	}

	return res
}
