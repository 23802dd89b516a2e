package analytics

import (
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"strings"
)

// CriticalGapPercentage - с этого разрыва тренинг считается критичным.
const CriticalGapPercentage = 50

type ExperienceLevels struct {
	Junior int `json:"junior"`
	Mid    int `json:"mid"`
	Senior int `json:"senior"`
}

func (e *ExperienceLevels) add(level string) {
	switch level {
	case LevelJunior:
		e.Junior++
	case LevelMid:
		e.Mid++
	case LevelSenior:
		e.Senior++
	}
}

type CompletionDistribution struct {
	Excellent int `json:"excellent"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
	VeryLow   int `json:"veryLow"`
}

func (c *CompletionDistribution) add(bucket string) {
	switch bucket {
	case CompletionExcellent:
		c.Excellent++
	case CompletionHigh:
		c.High++
	case CompletionMedium:
		c.Medium++
	case CompletionLow:
		c.Low++
	default:
		c.VeryLow++
	}
}

type TrainingStat struct {
	Training   string `json:"training"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type TrainingGap struct {
	Training        string `json:"training"`
	TrainingFull    string `json:"trainingFull"`
	WithTraining    int    `json:"withTraining"`
	WithoutTraining int    `json:"withoutTraining"`
	Percentage      int    `json:"percentage"`
	GapPercentage   int    `json:"gapPercentage"`
}

type RegionCompletion struct {
	Region        string `json:"region"`
	Engineers     int    `json:"engineers"`
	AvgCompletion int    `json:"avgCompletion"`
}

type EngineerTraining struct {
	Name           string   `json:"name"`
	Region         string   `json:"region"`
	AreaGroup      string   `json:"areaGroup"`
	Trainings      []string `json:"trainings"`
	CompletedCount int      `json:"completedCount"`
	CompletionRate int      `json:"completionRate"`
}

type TrainingKPIs struct {
	Total                  int                    `json:"total"`
	WithTraining           int                    `json:"withTraining"`
	WithoutTraining        int                    `json:"withoutTraining"`
	OverallRate            int                    `json:"overallRate"`
	AvgCompletion          int                    `json:"avgCompletion"`
	TotalCompleted         int                    `json:"totalCompleted"`
	TotalPossible          int                    `json:"totalPossible"`
	AllTrainingTypes       []string               `json:"allTrainingTypes"`
	ByRegion               map[string]int         `json:"byRegion"`
	ByVendor               map[string]int         `json:"byVendor"`
	ByExperienceLevel      ExperienceLevels       `json:"byExperienceLevel"`
	TopRegion              *Entry                 `json:"topRegion,omitempty"`
	TopVendor              *Entry                 `json:"topVendor,omitempty"`
	CompletionDistribution CompletionDistribution `json:"completionDistribution"`
	AvgCompletionByRegion  []RegionCompletion     `json:"avgCompletionByRegion"`
	TrainingStats          []TrainingStat         `json:"trainingStats"`
	MostCompletedTraining  *TrainingStat          `json:"mostCompletedTraining,omitempty"`
	LeastCompletedTraining *TrainingStat          `json:"leastCompletedTraining,omitempty"`
	TrainingGaps           []TrainingGap          `json:"trainingGaps"`
	TotalTrainingGaps      int                    `json:"totalTrainingGaps"`
	TopTrainingGaps        []TrainingGap          `json:"topTrainingGaps"`
	CriticalTrainingGaps   []TrainingGap          `json:"criticalTrainingGaps"`
	GapsByArea             map[string]int         `json:"gapsByArea"`
	GapsByRegion           map[string]int         `json:"gapsByRegion"`
	TopAreaGap             *Entry                 `json:"topAreaGap,omitempty"`
	TopRegionGap           *Entry                 `json:"topRegionGap,omitempty"`
	Engineers              []EngineerTraining     `json:"engineers"`
}

func shortTraining(label string) string {
	return strings.TrimPrefix(label, constants.TrainingPrefix)
}

// AnalyzeTraining - покрытие тренингами по инженерам.
func AnalyzeTraining(engineers []storage.Record) TrainingKPIs {
	n := len(engineers)

	// набор тренингов считаем один раз на инженера
	sets := make([]TrainingSet, n)
	seen := newTrainingSet()
	for i, r := range engineers {
		sets[i] = DeriveTrainingSet(r)
		for _, l := range sets[i].labels {
			seen.add(l)
		}
	}
	types := SortTrainings(seen.labels)
	totalTypes := len(types)

	res := TrainingKPIs{
		Total:                 n,
		AllTrainingTypes:      types,
		AvgCompletionByRegion: make([]RegionCompletion, 0),
		TrainingStats:         make([]TrainingStat, 0),
		TrainingGaps:          make([]TrainingGap, 0),
		TopTrainingGaps:       make([]TrainingGap, 0),
		CriticalTrainingGaps:  make([]TrainingGap, 0),
		Engineers:             make([]EngineerTraining, 0, n),
	}

	byRegion := GroupBy(engineers, ByField("region"))
	byVendor := GroupBy(engineers, ByField("vendor"))
	res.ByRegion = byRegion.Map()
	res.ByVendor = byVendor.Map()
	res.TopRegion = TopEntry(byRegion)
	res.TopVendor = TopEntry(byVendor)

	rates := make([]float64, 0, n)
	regionRates := make(map[string][]float64)
	gapsByArea := NewGroups()
	gapsByRegion := NewGroups()

	for i, r := range engineers {
		completed := sets[i].Len()
		rate := Percentage(completed, totalTypes)
		region := FieldOr(r, Unknown, "region")
		area := FieldOr(r, Unknown, "area_group")

		res.TotalCompleted += completed
		if completed > 0 {
			res.WithTraining++
		}
		rates = append(rates, float64(rate))
		regionRates[region] = append(regionRates[region], float64(rate))

		res.ByExperienceLevel.add(TrainingExperienceScale.Classify(
			float64(ParseExperienceYears(FieldText(r, constants.ExperienceFields...)))))
		res.CompletionDistribution.add(CompletionScale.Classify(float64(rate)))

		gapsByArea.Add(area, totalTypes-completed)
		gapsByRegion.Add(region, totalTypes-completed)

		res.Engineers = append(res.Engineers, EngineerTraining{
			Name:           FieldText(r, "name"),
			Region:         region,
			AreaGroup:      area,
			Trainings:      SortTrainings(sets[i].labels),
			CompletedCount: completed,
			CompletionRate: rate,
		})
	}

	res.WithoutTraining = n - res.WithTraining
	res.TotalPossible = n * totalTypes
	res.OverallRate = Percentage(res.TotalCompleted, res.TotalPossible)
	res.AvgCompletion = roundInt(mean(rates))

	regionAvg := make([]RegionCompletion, 0, byRegion.Len())
	for _, region := range byRegion.Keys() {
		regionAvg = append(regionAvg, RegionCompletion{
			Region:        region,
			Engineers:     byRegion.Count(region),
			AvgCompletion: roundInt(mean(regionRates[region])),
		})
	}
	res.AvgCompletionByRegion = Rank(regionAvg, func(r RegionCompletion) float64 { return float64(r.AvgCompletion) }, nil)

	stats := make([]TrainingStat, 0, totalTypes)
	gaps := make([]TrainingGap, 0, totalTypes)
	for _, t := range types {
		count := 0
		for _, s := range sets {
			if s.Has(t) {
				count++
			}
		}
		pct := Percentage(count, n)
		stats = append(stats, TrainingStat{Training: shortTraining(t), Count: count, Percentage: pct})
		gaps = append(gaps, TrainingGap{
			Training:        shortTraining(t),
			TrainingFull:    t,
			WithTraining:    count,
			WithoutTraining: n - count,
			Percentage:      pct,
			GapPercentage:   100 - pct,
		})
	}

	res.TrainingStats = RankByLabel(stats,
		func(s TrainingStat) float64 { return float64(s.Percentage) },
		func(s TrainingStat) string { return s.Training })
	if len(res.TrainingStats) > 0 {
		most := res.TrainingStats[0]
		res.MostCompletedTraining = &most
		least := leastCompleted(res.TrainingStats)
		res.LeastCompletedTraining = &least
	}

	res.TrainingGaps = RankByLabel(gaps,
		func(g TrainingGap) float64 { return float64(g.GapPercentage) },
		func(g TrainingGap) string { return g.Training })
	res.TotalTrainingGaps = len(res.TrainingGaps)
	res.TopTrainingGaps = TopN(res.TrainingGaps, 3)
	for _, g := range res.TrainingGaps {
		if g.GapPercentage >= CriticalGapPercentage {
			res.CriticalTrainingGaps = append(res.CriticalTrainingGaps, g)
		}
	}

	res.GapsByArea = gapsByArea.Map()
	res.GapsByRegion = gapsByRegion.Map()
	res.TopAreaGap = nonZero(TopEntry(gapsByArea))
	res.TopRegionGap = nonZero(TopEntry(gapsByRegion))

	return res
}

// leastCompleted: минимальный процент, при равенстве первый по алфавиту.
func leastCompleted(stats []TrainingStat) TrainingStat {
	least := stats[0]
	for _, s := range stats[1:] {
		if s.Percentage < least.Percentage || (s.Percentage == least.Percentage && s.Training < least.Training) {
			least = s
		}
	}
	return least
}

func nonZero(e *Entry) *Entry {
	if e == nil || e.Count == 0 {
		return nil
	}
	return e
}
