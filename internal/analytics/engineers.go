package analytics

import (
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"slices"
)

type RegionShare struct {
	Region     string  `json:"region"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type VendorShare struct {
	Vendor     string  `json:"vendor"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type EngineerKPIs struct {
	TotalEngineers         int           `json:"totalEngineers"`
	TotalAllEngineers      int           `json:"totalAllEngineers"`
	PercentageOfTotal      float64       `json:"percentageOfTotal"`
	AvgExperience          float64       `json:"avgExperience"`
	MinExperience          float64       `json:"minExperience"`
	MaxExperience          float64       `json:"maxExperience"`
	MedianExperience       float64       `json:"medianExperience"`
	JuniorCount            int           `json:"juniorCount"`
	MidLevelCount          int           `json:"midLevelCount"`
	SeniorCount            int           `json:"seniorCount"`
	CompletedTraining      int           `json:"completedTraining"`
	OnlyTechnical          int           `json:"onlyTechnical"`
	OnlySoftSkills         int           `json:"onlySoftSkills"`
	NoTraining             int           `json:"noTraining"`
	TrainingCompletionRate float64       `json:"trainingCompletionRate"`
	RegionStats            []RegionShare `json:"regionStats"`
	TopVendors             []VendorShare `json:"topVendors"`
}

// AnalyzeEngineers - KPI по отфильтрованным инженерам; all нужен
// только для доли от общего числа.
func AnalyzeEngineers(filtered, all []storage.Record) EngineerKPIs {
	n := len(filtered)
	res := EngineerKPIs{
		TotalEngineers:    n,
		TotalAllEngineers: len(all),
		PercentageOfTotal: round(ratio(float64(n), float64(len(all)))*100, 1),
		RegionStats:       make([]RegionShare, 0),
		TopVendors:        make([]VendorShare, 0),
	}

	experiences := make([]float64, 0, n)
	positive := make([]float64, 0, n)
	for _, r := range filtered {
		exp := ParseExperience(FieldText(r, constants.ExperienceFields...))
		experiences = append(experiences, exp)
		if exp > 0 {
			positive = append(positive, exp)
		}
		switch EngineerExperienceScale.Classify(exp) {
		case LevelJunior:
			res.JuniorCount++
		case LevelMid:
			res.MidLevelCount++
		default:
			res.SeniorCount++
		}

		technical := Text(r["technical_skills_training"]) != ""
		soft := Text(r["soft_skills_training"]) != ""
		switch {
		case technical && soft:
			res.CompletedTraining++
		case technical:
			res.OnlyTechnical++
		case soft:
			res.OnlySoftSkills++
		default:
			res.NoTraining++
		}
	}

	slices.Sort(positive)
	res.AvgExperience = round(mean(experiences), 1)
	if len(positive) > 0 {
		res.MinExperience = round(positive[0], 1)
		res.MaxExperience = round(positive[len(positive)-1], 1)
		res.MedianExperience = round(median(positive), 1)
	}
	res.TrainingCompletionRate = round(ratio(float64(res.CompletedTraining), float64(n))*100, 1)

	regions := GroupBy(filtered, ByField("region"))
	for _, k := range regions.Keys() {
		c := regions.Count(k)
		res.RegionStats = append(res.RegionStats, RegionShare{
			Region:     k,
			Count:      c,
			Percentage: round(ratio(float64(c), float64(n))*100, 1),
		})
	}
	res.RegionStats = Rank(res.RegionStats, func(RegionShare) float64 { return 0 }, compareRegions)

	for _, e := range TopN(Entries(GroupBy(filtered, ByField("vendor"))), 3) {
		res.TopVendors = append(res.TopVendors, VendorShare{
			Vendor:     e.Key,
			Count:      e.Count,
			Percentage: round(ratio(float64(e.Count), float64(n))*100, 1),
		})
	}

	return res
}

// compareRegions: Region 1/2/3 всегда первыми по порядку, дальше по убыванию количества.
func compareRegions(a, b RegionShare) int {
	ai := slices.Index(constants.PrimaryRegions, a.Region)
	bi := slices.Index(constants.PrimaryRegions, b.Region)
	switch {
	case ai >= 0 && bi >= 0:
		return ai - bi
	case ai >= 0:
		return -1
	case bi >= 0:
		return 1
	}
	return b.Count - a.Count
}

// median по отсортированному срезу.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
