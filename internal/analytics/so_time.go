package analytics

import (
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"time"
)

// TargetResolutionHours - целевое время закрытия SO.
const TargetResolutionHours = 8

type SOResolution struct {
	ID    string  `json:"id"`
	Hours float64 `json:"hours"`
}

type SOTimeTracking struct {
	Period            Period        `json:"period"`
	AssignmentToStart float64       `json:"assignmentToStart"`
	StartToComplete   float64       `json:"startToComplete"`
	CompleteToClose   float64       `json:"completeToClose"`
	TargetTime        float64       `json:"targetTime"`
	FastestThisWeek   float64       `json:"fastestThisWeek"`
	Slowest           float64       `json:"slowest"`
	FastestSO         *SOResolution `json:"fastestSO,omitempty"`
	SlowestSO         *SOResolution `json:"slowestSO,omitempty"`
	TotalSOThisMonth  int           `json:"totalSOThisMonth"`
	CompletedCount    int           `json:"completedCount"`
	PreviousCount     int           `json:"previousCount"`
	MonthlyTrend      float64       `json:"monthlyTrend"`
	PeriodStart       time.Time     `json:"periodStart"`
	PeriodEnd         time.Time     `json:"periodEnd"`
}

// TrackSOTime считает средние длительности этапов по закрытым SO периода.
// В количество за период идут все SO, в средние только закрытые.
func TrackSOTime(orders []storage.Record, period Period, now time.Time) SOTimeTracking {
	loc := now.Location()
	window := PeriodWindow(period, now)
	current := FilterByWindow(orders, window, loc)
	previous := FilterByWindow(orders, PreviousWindow(period, now), loc)

	res := SOTimeTracking{
		Period:           period,
		TargetTime:       TargetResolutionHours,
		TotalSOThisMonth: len(current),
		PreviousCount:    len(previous),
		MonthlyTrend:     Trend(len(current), len(previous)),
		PeriodStart:      window.Start,
		PeriodEnd:        now,
	}

	if earliest, ok := earliestDate(current, loc); ok {
		res.PeriodStart = earliest
	}

	var samples [intervalCount][]float64
	for _, r := range current {
		if !IsCompleted(r) {
			continue
		}
		res.CompletedCount++

		d := LifecycleDurations(r, loc)
		for i := AssignmentToStart; i < intervalCount; i++ {
			if h, ok := d.Hours(i); ok {
				samples[i] = append(samples[i], h)
			}
		}

		total, ok := d.Hours(TotalResolution)
		if !ok {
			continue
		}
		id := FieldText(r, constants.SOIDFields...)
		if res.FastestSO == nil || total < res.FastestSO.Hours {
			res.FastestSO = &SOResolution{ID: id, Hours: total}
		}
		if res.SlowestSO == nil || total > res.SlowestSO.Hours {
			res.SlowestSO = &SOResolution{ID: id, Hours: total}
		}
	}

	res.AssignmentToStart = round(mean(samples[AssignmentToStart]), 1)
	res.StartToComplete = round(mean(samples[StartToComplete]), 1)
	res.CompleteToClose = round(mean(samples[CompleteToClose]), 1)

	if res.FastestSO != nil {
		res.FastestSO.Hours = round(res.FastestSO.Hours, 1)
		res.FastestThisWeek = res.FastestSO.Hours
	}
	if res.SlowestSO != nil {
		res.SlowestSO.Hours = round(res.SlowestSO.Hours, 1)
		res.Slowest = res.SlowestSO.Hours
	}

	return res
}

func earliestDate(records []storage.Record, loc *time.Location) (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)
	for _, r := range records {
		t, ok := PeriodDate(r, loc)
		if !ok {
			continue
		}
		if !found || t.Before(earliest) {
			earliest, found = t, true
		}
	}
	return earliest, found
}
