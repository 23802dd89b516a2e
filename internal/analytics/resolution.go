package analytics

import (
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"strings"
)

type TimeAverages struct {
	AvgResponseTime   float64 `json:"avg_response_time"`
	AvgRepairTime     float64 `json:"avg_repair_time"`
	AvgResolutionTime float64 `json:"avg_resolution_time"`
	Count             int     `json:"count"`
}

type EngineerTimes struct {
	Engineer string `json:"engineer"`
	TimeAverages
}

type ResolutionTimes struct {
	AvgByEngineer            []EngineerTimes         `json:"avg_by_engineer"`
	AvgResponseTimeOverall   float64                 `json:"avg_response_time_overall"`
	AvgRepairTimeOverall     float64                 `json:"avg_repair_time_overall"`
	AvgResolutionTimeOverall float64                 `json:"avg_resolution_time_overall"`
	TotalSO                  int                     `json:"total_so"`
	ByMonth                  map[string]TimeAverages `json:"by_month"`
	ByRegion                 map[string]TimeAverages `json:"by_region"`
	ByArea                   map[string]TimeAverages `json:"by_area"`
}

const (
	metricResponse = iota
	metricRepair
	metricResolution
	metricCount
)

var timeFields = [metricCount]string{
	metricResponse:   "ce_response_time",
	metricRepair:     "repair_time",
	metricResolution: "resolution_time",
}

// engineerAcc - средние по одному инженеру внутри группы.
type engineerAcc struct {
	sums   [metricCount]float64
	counts [metricCount]int
	so     int
}

func (a *engineerAcc) add(vals [metricCount]*float64) {
	a.so++
	for i, v := range vals {
		if v != nil {
			a.sums[i] += *v
			a.counts[i]++
		}
	}
}

func (a *engineerAcc) means() [metricCount]float64 {
	var out [metricCount]float64
	for i := range out {
		if a.counts[i] > 0 {
			out[i] = round(a.sums[i]/float64(a.counts[i]), 2)
		}
	}
	return out
}

// groupAcc - инженеры группы в порядке появления.
type groupAcc struct {
	order []string
	byEng map[string]*engineerAcc
}

func (g *groupAcc) add(eng string, vals [metricCount]*float64) {
	if g.byEng == nil {
		g.byEng = make(map[string]*engineerAcc)
	}
	a, ok := g.byEng[eng]
	if !ok {
		a = &engineerAcc{}
		g.byEng[eng] = a
		g.order = append(g.order, eng)
	}
	a.add(vals)
}

// weighted - среднее средних по инженерам с весом по числу SO.
func (g *groupAcc) weighted() TimeAverages {
	var sums [metricCount]float64
	total := 0
	for _, eng := range g.order {
		a := g.byEng[eng]
		m := a.means()
		for i := range sums {
			sums[i] += m[i] * float64(a.so)
		}
		total += a.so
	}
	if total == 0 {
		return TimeAverages{}
	}
	return TimeAverages{
		AvgResponseTime:   round(sums[metricResponse]/float64(total), 2),
		AvgRepairTime:     round(sums[metricRepair]/float64(total), 2),
		AvgResolutionTime: round(sums[metricResolution]/float64(total), 2),
		Count:             total,
	}
}

// AnalyzeResolutionTimes - время реакции, ремонта и решения по инженерам.
// months фильтрует по полю month (без учета регистра), пустой список - все месяцы.
func AnalyzeResolutionTimes(orders []storage.Record, months []string) ResolutionTimes {
	wanted := make(map[string]bool, len(months))
	for _, m := range months {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			wanted[m] = true
		}
	}

	all := &groupAcc{}
	byMonth := make(map[string]*groupAcc)
	byRegion := make(map[string]*groupAcc)
	byArea := make(map[string]*groupAcc)

	addTo := func(m map[string]*groupAcc, key, eng string, vals [metricCount]*float64) {
		if key == "" {
			return
		}
		g, ok := m[key]
		if !ok {
			g = &groupAcc{}
			m[key] = g
		}
		g.add(eng, vals)
	}

	totalSO := 0
	for _, r := range orders {
		month := FieldText(r, "month", "Month")
		if len(wanted) > 0 && !wanted[strings.ToLower(month)] {
			continue
		}
		eng := FieldText(r, constants.EngineerFields...)
		if eng == "" || strings.EqualFold(eng, "nan") {
			continue
		}

		var vals [metricCount]*float64
		positive := false
		for i, field := range timeFields {
			if v, ok := ToFloat(r[field]); ok {
				vals[i] = &v
				if v > 0 {
					positive = true
				}
			}
		}
		if !positive {
			continue
		}

		totalSO++
		all.add(eng, vals)
		addTo(byMonth, month, eng, vals)
		addTo(byRegion, FieldText(r, "region"), eng, vals)
		addTo(byArea, normalizeAreaName(FieldText(r, "area_group")), eng, vals)
	}

	res := ResolutionTimes{
		AvgByEngineer: make([]EngineerTimes, 0, len(all.order)),
		TotalSO:       totalSO,
		ByMonth:       weightedMap(byMonth),
		ByRegion:      weightedMap(byRegion),
		ByArea:        weightedMap(byArea),
	}

	for _, eng := range all.order {
		a := all.byEng[eng]
		m := a.means()
		res.AvgByEngineer = append(res.AvgByEngineer, EngineerTimes{
			Engineer: eng,
			TimeAverages: TimeAverages{
				AvgResponseTime:   m[metricResponse],
				AvgRepairTime:     m[metricRepair],
				AvgResolutionTime: m[metricResolution],
				Count:             a.so,
			},
		})
	}
	// быстрые первыми
	res.AvgByEngineer = RankByLabel(res.AvgByEngineer,
		func(e EngineerTimes) float64 { return -e.AvgResolutionTime },
		func(e EngineerTimes) string { return e.Engineer })

	overall := all.weighted()
	res.AvgResponseTimeOverall = overall.AvgResponseTime
	res.AvgRepairTimeOverall = overall.AvgRepairTime
	res.AvgResolutionTimeOverall = overall.AvgResolutionTime

	return res
}

func weightedMap(groups map[string]*groupAcc) map[string]TimeAverages {
	out := make(map[string]TimeAverages, len(groups))
	for k, g := range groups {
		out[k] = g.weighted()
	}
	return out
}

// normalizeAreaName правит опечатку "Jakarat" без схлопывания номеров районов.
func normalizeAreaName(s string) string {
	l := strings.ToLower(s)
	if strings.Contains(l, "jakarat") && !strings.Contains(l, "jakarta") {
		return jakaratTypo.ReplaceAllString(s, "Jakarta")
	}
	return s
}
