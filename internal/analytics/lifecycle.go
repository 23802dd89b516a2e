package analytics

import (
	"errors"
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"strings"
	"time"
)

var ErrUnknownPeriod = errors.New("unknown period")

type Period string

const (
	PeriodToday       Period = "today"
	PeriodThisWeek    Period = "thisWeek"
	PeriodThisMonth   Period = "thisMonth"
	PeriodLastMonth   Period = "lastMonth"
	PeriodLast3Months Period = "last3Months"
)

// ParsePeriod: пустая строка -> thisMonth.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.TrimSpace(s)); p {
	case "":
		return PeriodThisMonth, nil
	case PeriodToday, PeriodThisWeek, PeriodThisMonth, PeriodLastMonth, PeriodLast3Months:
		return p, nil
	default:
		return "", ErrUnknownPeriod
	}
}

// Window - полуинтервал [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// PeriodWindow строит окно периода относительно now.
// Неделя начинается с воскресенья.
func PeriodWindow(p Period, now time.Time) Window {
	day := startOfDay(now)
	switch p {
	case PeriodToday:
		return Window{Start: day, End: day.AddDate(0, 0, 1)}
	case PeriodThisWeek:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return Window{Start: start, End: start.AddDate(0, 0, 7)}
	case PeriodLastMonth:
		start := startOfMonth(now).AddDate(0, -1, 0)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	case PeriodLast3Months:
		return Window{Start: day.AddDate(0, -3, 0), End: day.AddDate(0, 0, 1)}
	default:
		start := startOfMonth(now)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	}
}

// PreviousWindow - то же окно, сдвинутое на одну единицу периода назад.
func PreviousWindow(p Period, now time.Time) Window {
	w := PeriodWindow(p, now)
	switch p {
	case PeriodToday:
		return Window{Start: w.Start.AddDate(0, 0, -1), End: w.Start}
	case PeriodThisWeek:
		return Window{Start: w.Start.AddDate(0, 0, -7), End: w.Start}
	case PeriodLast3Months:
		return Window{Start: w.Start.AddDate(0, -3, 0), End: w.Start}
	default:
		return Window{Start: w.Start.AddDate(0, -1, 0), End: w.Start}
	}
}

var timestampLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006 15:04",
	"2/1/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp понимает DD/MM/YYYY[ HH:mm[:ss]] и ISO. Время без зоны
// считается в loc.
func ParseTimestamp(v interface{}, loc *time.Location) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, !t.IsZero()
	}
	s := Text(v)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fieldTime - первый алиас, который разобрался как дата.
func fieldTime(r storage.Record, loc *time.Location, aliases ...string) (time.Time, bool) {
	for _, key := range aliases {
		if t, ok := ParseTimestamp(r[key], loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

type Stage int

const (
	StageAssigned Stage = iota
	StageStarted
	StageCompleted
	StageClosed
	stageCount
)

var stageFields = [stageCount][]string{
	StageAssigned:  constants.SOAssignedFields,
	StageStarted:   constants.SOStartedFields,
	StageCompleted: constants.SOCompletedFields,
	StageClosed:    constants.SOClosedFields,
}

type Interval int

const (
	AssignmentToStart Interval = iota
	StartToComplete
	CompleteToClose
	TotalResolution
	intervalCount
)

var intervalStages = [intervalCount][2]Stage{
	AssignmentToStart: {StageAssigned, StageStarted},
	StartToComplete:   {StageStarted, StageCompleted},
	CompleteToClose:   {StageCompleted, StageClosed},
	TotalResolution:   {StageAssigned, StageClosed},
}

// Durations - длительности интервалов одной SO в часах. Отрицательные
// значения не обрезаются: кривые данные должны быть видны.
type Durations struct {
	hours [intervalCount]float64
	valid [intervalCount]bool
}

func (d Durations) Hours(i Interval) (float64, bool) {
	if i < 0 || i >= intervalCount {
		return 0, false
	}
	return d.hours[i], d.valid[i]
}

// StageTimes достает четыре отметки жизненного цикла SO.
func StageTimes(r storage.Record, loc *time.Location) [stageCount]*time.Time {
	var out [stageCount]*time.Time
	for st := StageAssigned; st < stageCount; st++ {
		if t, ok := fieldTime(r, loc, stageFields[st]...); ok {
			out[st] = &t
		}
	}
	return out
}

// LifecycleDurations: интервал считается только если обе границы разобрались.
func LifecycleDurations(r storage.Record, loc *time.Location) Durations {
	var d Durations
	times := StageTimes(r, loc)
	for i := AssignmentToStart; i < intervalCount; i++ {
		from, to := times[intervalStages[i][0]], times[intervalStages[i][1]]
		if from == nil || to == nil {
			continue
		}
		d.hours[i] = to.Sub(*from).Hours()
		d.valid[i] = true
	}
	return d
}

// IsCompleted - статус из набора completed/closed/selesai/done.
func IsCompleted(r storage.Record) bool {
	return constants.CompletedStatuses[strings.ToLower(FieldText(r, constants.SOStatusFields...))]
}

// PeriodDate - дата SO для фильтра по периоду.
func PeriodDate(r storage.Record, loc *time.Location) (time.Time, bool) {
	return fieldTime(r, loc, constants.SODateFields...)
}

// FilterByWindow оставляет SO, чья дата попадает в окно.
func FilterByWindow(records []storage.Record, w Window, loc *time.Location) []storage.Record {
	out := make([]storage.Record, 0)
	for _, r := range records {
		if t, ok := PeriodDate(r, loc); ok && w.Contains(t) {
			out = append(out, r)
		}
	}
	return out
}

// Trend - изменение в процентах, prev == 0 -> 0.
func Trend(cur, prev int) float64 {
	if prev == 0 {
		return 0
	}
	return round(float64(cur-prev)/float64(prev)*100, 1)
}
