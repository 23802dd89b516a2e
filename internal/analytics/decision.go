package analytics

import (
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"math"
	"strconv"
	"strings"
	"time"
)

type EngineerPerformance struct {
	Name           string  `json:"name"`
	Region         string  `json:"region"`
	Role           string  `json:"role,omitempty"`
	Experience     float64 `json:"experience"`
	Machines       int     `json:"machines"`
	Trainings      int     `json:"trainings"`
	Performance    float64 `json:"performance"`
	KPIAchievement float64 `json:"kpiAchievement"`
	TotalScore     float64 `json:"totalScore"`
	Source         string  `json:"source"`
}

type MachineTypePerformance struct {
	Type         string  `json:"type"`
	Total        int     `json:"total"`
	OnWarranty   int     `json:"onWarranty"`
	WarrantyRate float64 `json:"warrantyRate"`
	AvgAge       float64 `json:"avgAge"`
	Score        float64 `json:"score"`
}

type RegionalEfficiency struct {
	Region     string  `json:"region"`
	Engineers  int     `json:"engineers"`
	Machines   int     `json:"machines"`
	AvgExp     float64 `json:"avgExp"`
	Ratio      float64 `json:"ratio"`
	Efficiency float64 `json:"efficiency"`
}

type AreaDistance struct {
	AreaGroup          string         `json:"areaGroup"`
	Zone               float64        `json:"zone"`
	Total              int            `json:"total"`
	SameZone           int            `json:"sameZone"`
	NearZone           int            `json:"nearZone"`
	FarZone            int            `json:"farZone"`
	MachinesAboveZone1 int            `json:"machinesAboveZone1"`
	Engineers          int            `json:"engineers"`
	Distance0To60      int            `json:"distance0_60km"`
	Distance60To120    int            `json:"distance60_120km"`
	Distance120Plus    int            `json:"distance120kmPlus"`
	ZonaDistribution   map[string]int `json:"zonaDistribution"`
	AvgZona            float64        `json:"avgZona"`
	DistanceScore      int            `json:"distanceScore"`
}

type ZoneLoad struct {
	Zone           string  `json:"zone"`
	Machines       int     `json:"machines"`
	Engineers      int     `json:"engineers"`
	Ratio          float64 `json:"ratio"`
	NeedsAttention int     `json:"needsAttention"`
	Priority       float64 `json:"priority"`
}

type Decision struct {
	TopEngineers       []EngineerPerformance    `json:"topEngineers"`
	MachinePerformance []MachineTypePerformance `json:"machinePerformance"`
	RegionalComparison []RegionalEfficiency     `json:"regionalComparison"`
	DistanceAnalysis   []AreaDistance           `json:"distanceAnalysis"`
	ZoneOptimization   []ZoneLoad               `json:"zoneOptimization"`
}

// AnalyzeDecision - ранжированные срезы для страницы решений.
func AnalyzeDecision(engineers, machines, leveling []storage.Record, now time.Time) Decision {
	return Decision{
		TopEngineers:       TopEngineers(engineers, machines, leveling),
		MachinePerformance: MachinePerformance(machines, now.Year()),
		RegionalComparison: RegionalComparison(engineers, machines),
		DistanceAnalysis:   DistanceAnalysis(engineers, machines),
		ZoneOptimization:   ZoneOptimization(machines),
	}
}

func byPerformance(e EngineerPerformance) float64 { return e.Performance }
func engineerName(e EngineerPerformance) string { return e.Name }

// TopEngineers: если есть leveling - берем KPI оттуда (топ 10),
// иначе оценка по опыту и тренингам (топ 5).
func TopEngineers(engineers, machines, leveling []storage.Record) []EngineerPerformance {
	if len(leveling) > 0 {
		out := make([]EngineerPerformance, 0, len(leveling))
		for _, r := range leveling {
			name := FieldOr(r, Unknown, "name", "Name")
			kpi, _ := ToFloat(firstValue(r, "total_kpi_achievement", "Total KPI Achievement"))
			total, ok := ToFloat(firstValue(r, "total_score", "Total Score", "quantitative_index"))
			if !ok || total == 0 {
				total = kpi
			}
			qualitative, _ := ToFloat(firstValue(r, "qualitative_score", "Qualitative Score"))
			machinesCount, _ := ToFloat(firstValue(r, "total_machine", "Total Machine"))

			perf := kpi
			if perf == 0 {
				perf = total
			}
			if perf == 0 {
				perf = qualitative
			}
			perf = math.Min(100, math.Max(0, perf))
			if name == Unknown || perf <= 0 {
				continue
			}

			out = append(out, EngineerPerformance{
				Name:           name,
				Region:         FieldText(r, "region", "Region"),
				Role:           FieldText(r, "role", "Role"),
				Experience:     float64(ParseExperienceYears(FieldText(r, "experience", "Experience"))),
				Machines:       int(machinesCount),
				Performance:    round(perf, 1),
				KPIAchievement: round(kpi, 1),
				TotalScore:     round(total, 1),
				Source:         "leveling",
			})
		}
		return TopN(RankByLabel(out, byPerformance, engineerName), 10)
	}

	machinesByEngineer := GroupBy(machines, ByField("engineer_name"))
	out := make([]EngineerPerformance, 0, len(engineers))
	for _, r := range engineers {
		name := FieldOr(r, Unknown, "name")
		years := ParseExperienceYears(FieldText(r, constants.ExperienceFields...))
		trainings := DeriveTrainingSet(r).Len()

		perf := float64(years * 10)
		if trainings > 0 {
			perf += 20
		}
		out = append(out, EngineerPerformance{
			Name:        name,
			Region:      FieldText(r, "region"),
			Experience:  float64(years),
			Machines:    machinesByEngineer.Count(name),
			Trainings:   trainings,
			Performance: math.Min(100, perf),
			Source:      "engineers",
		})
	}
	return TopN(RankByLabel(out, byPerformance, engineerName), 5)
}

// firstValue - значение первого непустого алиаса или nil.
func firstValue(r storage.Record, aliases ...string) interface{} {
	v, _ := Field(r, aliases...)
	return v
}

func isOnWarranty(r storage.Record) bool {
	return constants.WarrantyStatuses[strings.ToLower(FieldText(r, "machine_status"))]
}

// MachinePerformance: score = доля на гарантии*50 + (10 - средний возраст)*5.
func MachinePerformance(machines []storage.Record, currentYear int) []MachineTypePerformance {
	type acc struct {
		total, onWarranty int
		ages              []float64
	}
	groups := NewGroups()
	accs := make(map[string]*acc)

	for _, r := range machines {
		typ := FieldOr(r, Unknown, constants.MachineTypeFields...)
		groups.Inc(typ)
		a, ok := accs[typ]
		if !ok {
			a = &acc{}
			accs[typ] = a
		}
		a.total++
		if isOnWarranty(r) {
			a.onWarranty++
		}
		year := ToNumber(firstValue(r, constants.InstallYearFields...))
		if year <= 0 {
			year = currentYear
		}
		a.ages = append(a.ages, float64(currentYear-year))
	}

	out := make([]MachineTypePerformance, 0, groups.Len())
	for _, typ := range groups.Keys() {
		a := accs[typ]
		share := ratio(float64(a.onWarranty), float64(a.total))
		avgAge := mean(a.ages)
		out = append(out, MachineTypePerformance{
			Type:         typ,
			Total:        a.total,
			OnWarranty:   a.onWarranty,
			WarrantyRate: round(share*100, 1),
			AvgAge:       round(avgAge, 1),
			Score:        round(share*50+(10-avgAge)*5, 1),
		})
	}
	return TopN(RankByLabel(out,
		func(m MachineTypePerformance) float64 { return m.Score },
		func(m MachineTypePerformance) string { return m.Type }), 6)
}

// RegionalComparison: эффективность = min(100, машин на инженера * 20).
func RegionalComparison(engineers, machines []storage.Record) []RegionalEfficiency {
	out := make([]RegionalEfficiency, 0)
	if len(engineers) == 0 || len(machines) == 0 {
		return out
	}

	regions := NewGroups()
	engCount := make(map[string]int)
	expSum := make(map[string]int)
	machCount := make(map[string]int)

	for _, r := range engineers {
		region := FieldOr(r, Unknown, "region")
		regions.Inc(region)
		engCount[region]++
		expSum[region] += ParseExperienceYears(FieldText(r, constants.ExperienceFields...))
	}
	for _, r := range machines {
		region := FieldOr(r, Unknown, "region")
		regions.Inc(region)
		machCount[region]++
	}

	for _, region := range regions.Keys() {
		e, m := engCount[region], machCount[region]
		item := RegionalEfficiency{Region: region, Engineers: e, Machines: m}
		if e > 0 {
			perEngineer := float64(m) / float64(e)
			item.AvgExp = round(float64(expSum[region])/float64(e), 1)
			item.Ratio = round(perEngineer, 1)
			item.Efficiency = round(math.Min(100, perEngineer*20), 1)
		}
		out = append(out, item)
	}
	return TopN(RankByLabel(out,
		func(r RegionalEfficiency) float64 { return r.Efficiency },
		func(r RegionalEfficiency) string { return r.Region }), 5)
}

// areaKey: все районы Джакарты сводятся в один.
func areaKey(v string) string {
	s := strings.ToLower(strings.TrimSpace(spaces.ReplaceAllString(v, " ")))
	if s == "" {
		return strings.ToLower(Unknown)
	}
	if strings.HasPrefix(s, "jakarta") {
		return "jakarta"
	}
	return s
}

func zonaOf(r storage.Record) float64 {
	z, ok := ToFloat(r["zona"])
	if !ok || z == 0 {
		return 1
	}
	return z
}

const (
	distanceNear = "0-60km"
	distanceMid  = "60-120km"
	distanceFar  = ">120km"
)

func plainDistance(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(s)), "km")
	s = strings.TrimSpace(s)
	if !IsNumericText(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// distanceBucket: число в км или текстовый диапазон из выгрузки.
func distanceBucket(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if km, ok := plainDistance(v); ok {
		switch {
		case km <= 60:
			return distanceNear
		case km <= 120:
			return distanceMid
		default:
			return distanceFar
		}
	}
	l := strings.ToLower(v)
	switch {
	case strings.Contains(l, "0-60"), strings.Contains(l, "0_60"), strings.Contains(l, "0 to 60"), strings.Contains(l, "0 sampai 60"):
		return distanceNear
	case strings.Contains(l, "60") && strings.Contains(l, "120"):
		return distanceMid
	case strings.Contains(l, "120"), strings.Contains(l, ">"), strings.Contains(l, "plus"), strings.Contains(l, "lebih dari"):
		return distanceFar
	default:
		return distanceNear
	}
}

// DistanceAnalysis - зоны и удаленность машин по area_group.
// Показываются только проблемные группы, топ 10.
func DistanceAnalysis(engineers, machines []storage.Record) []AreaDistance {
	out := make([]AreaDistance, 0)
	if len(machines) == 0 {
		return out
	}

	engineersByArea := make(map[string]map[string]struct{})
	for _, r := range engineers {
		key := areaKey(FieldText(r, "area_group"))
		name := FieldText(r, "name", "ce_id", "engineer_name")
		if name == "" {
			continue
		}
		if engineersByArea[key] == nil {
			engineersByArea[key] = make(map[string]struct{})
		}
		engineersByArea[key][name] = struct{}{}
	}

	type acc struct {
		display  string
		zonas    []float64
		zonaHits map[float64]int
		dist     map[string]int
	}
	areas := NewGroups()
	accs := make(map[string]*acc)

	for _, r := range machines {
		display := FieldOr(r, Unknown, "area_group")
		key := areaKey(display)
		areas.Inc(key)
		a, ok := accs[key]
		if !ok {
			a = &acc{display: display, zonaHits: make(map[float64]int), dist: make(map[string]int)}
			accs[key] = a
		}
		z := zonaOf(r)
		a.zonas = append(a.zonas, z)
		a.zonaHits[z]++
		if b := distanceBucket(FieldText(r, "distance")); b != "" {
			a.dist[b]++
		}
	}

	for _, key := range areas.Keys() {
		a := accs[key]
		mode := modeZona(a.zonaHits)

		item := AreaDistance{
			AreaGroup:        a.display,
			Zone:             mode,
			Total:            len(a.zonas),
			Engineers:        len(engineersByArea[key]),
			Distance0To60:    a.dist[distanceNear],
			Distance60To120:  a.dist[distanceMid],
			Distance120Plus:  a.dist[distanceFar],
			ZonaDistribution: make(map[string]int, len(a.zonaHits)),
			AvgZona:          round(mean(a.zonas), 1),
		}
		for z, c := range a.zonaHits {
			item.ZonaDistribution[strconv.FormatFloat(z, 'f', -1, 64)] = c
		}
		for _, z := range a.zonas {
			if z > 1 {
				item.MachinesAboveZone1++
			}
			switch diff := math.Abs(z - mode); {
			case diff == 0:
				item.SameZone++
			case diff <= 1:
				item.NearZone++
			default:
				item.FarZone++
			}
		}
		item.DistanceScore = item.SameZone + 2*item.NearZone + 4*item.FarZone

		if item.MachinesAboveZone1 > 0 || item.FarZone > 0 || item.Zone > 1 {
			out = append(out, item)
		}
	}

	sortAreaDistance(out)
	return TopN(out, 10)
}

// modeZona - самая частая зона, при равенстве большая.
func modeZona(hits map[float64]int) float64 {
	best, bestCount := 1.0, 0
	for z, c := range hits {
		if c > bestCount || (c == bestCount && z > best) {
			best, bestCount = z, c
		}
	}
	return best
}

func sortAreaDistance(items []AreaDistance) {
	ranked := Rank(items, func(a AreaDistance) float64 { return float64(a.MachinesAboveZone1) }, func(a, b AreaDistance) int {
		if a.FarZone != b.FarZone {
			return b.FarZone - a.FarZone
		}
		aHigh, bHigh := a.Zone > 1, b.Zone > 1
		switch {
		case aHigh && !bHigh:
			return -1
		case bHigh && !aHigh:
			return 1
		case aHigh && bHigh && a.Zone != b.Zone:
			if a.Zone > b.Zone {
				return -1
			}
			return 1
		}
		if a.DistanceScore != b.DistanceScore {
			return b.DistanceScore - a.DistanceScore
		}
		return strings.Compare(a.AreaGroup, b.AreaGroup)
	})
	copy(items, ranked)
}

// ZoneOptimization - зоны с наибольшей долей машин, требующих внимания.
func ZoneOptimization(machines []storage.Record) []ZoneLoad {
	out := make([]ZoneLoad, 0)
	if len(machines) == 0 {
		return out
	}

	zones := NewGroups()
	engineers := make(map[string]map[string]struct{})
	attention := make(map[string]int)

	for _, r := range machines {
		zone := FieldOr(r, Unknown, "zone", "area_group")
		zones.Inc(zone)
		if engineers[zone] == nil {
			engineers[zone] = make(map[string]struct{})
		}
		if name := FieldText(r, "engineer_name"); name != "" {
			engineers[zone][name] = struct{}{}
		}
		if strings.EqualFold(FieldText(r, "machine_status"), "Out Of Warranty") ||
			strings.Contains(FieldText(r, "maintenance_status"), "Pending") {
			attention[zone]++
		}
	}

	for _, zone := range zones.Keys() {
		m, e := zones.Count(zone), len(engineers[zone])
		item := ZoneLoad{
			Zone:           zone,
			Machines:       m,
			Engineers:      e,
			Ratio:          float64(m),
			NeedsAttention: attention[zone],
			Priority:       round(ratio(float64(attention[zone]), float64(m))*100, 1),
		}
		if e > 0 {
			item.Ratio = round(float64(m)/float64(e), 1)
		}
		out = append(out, item)
	}
	return TopN(RankByLabel(out,
		func(z ZoneLoad) float64 { return z.Priority },
		func(z ZoneLoad) string { return z.Zone }), 6)
}
