package analytics

import (
	"fieldservice-dashboard/internal/storage"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// среда
var fixedNow = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodThisMonth, p)

	p, err = ParsePeriod("last3Months")
	require.NoError(t, err)
	assert.Equal(t, PeriodLast3Months, p)

	_, err = ParsePeriod("yesterday")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestPeriodWindow(t *testing.T) {
	cases := []struct {
		period     Period
		start, end time.Time
	}{
		{PeriodToday, day(2024, 3, 13), day(2024, 3, 14)},
		{PeriodThisWeek, day(2024, 3, 10), day(2024, 3, 17)},
		{PeriodThisMonth, day(2024, 3, 1), day(2024, 4, 1)},
		{PeriodLastMonth, day(2024, 2, 1), day(2024, 3, 1)},
		{PeriodLast3Months, day(2023, 12, 13), day(2024, 3, 14)},
	}

	for _, tc := range cases {
		w := PeriodWindow(tc.period, fixedNow)
		assert.Equal(t, tc.start, w.Start, string(tc.period))
		assert.Equal(t, tc.end, w.End, string(tc.period))
	}

	prev := PreviousWindow(PeriodThisWeek, fixedNow)
	assert.Equal(t, day(2024, 3, 3), prev.Start)
	assert.Equal(t, day(2024, 3, 10), prev.End)

	prev = PreviousWindow(PeriodThisMonth, fixedNow)
	assert.Equal(t, day(2024, 2, 1), prev.Start)
	assert.Equal(t, day(2024, 3, 1), prev.End)
}

func TestWindow_HalfOpen(t *testing.T) {
	w := Window{Start: day(2024, 3, 1), End: day(2024, 4, 1)}
	assert.True(t, w.Contains(day(2024, 3, 1)))
	assert.False(t, w.Contains(day(2024, 4, 1)))
	assert.False(t, w.Contains(day(2024, 2, 29)))
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("13/03/2024 10:15", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 13, 10, 15, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("05/03/2024", time.UTC)
	require.True(t, ok)
	assert.Equal(t, day(2024, 3, 5), ts)

	ts, ok = ParseTimestamp("2024-03-05T08:00:00Z", time.UTC)
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)))

	_, ok = ParseTimestamp("kemarin", time.UTC)
	assert.False(t, ok)
	_, ok = ParseTimestamp(nil, time.UTC)
	assert.False(t, ok)
}

func TestLifecycleDurations_OnlyWhenBothEndsParse(t *testing.T) {
	r := storage.Record{
		"assigned_at":  "05/03/2024 08:00",
		"started_at":   "05/03/2024 09:30",
		"completed_at": "bukan tanggal",
		"closed_at":    "05/03/2024 13:00",
	}

	d := LifecycleDurations(r, time.UTC)

	h, ok := d.Hours(AssignmentToStart)
	require.True(t, ok)
	assert.InDelta(t, 1.5, h, 1e-9)

	_, ok = d.Hours(StartToComplete)
	assert.False(t, ok)
	_, ok = d.Hours(CompleteToClose)
	assert.False(t, ok)

	h, ok = d.Hours(TotalResolution)
	require.True(t, ok)
	assert.InDelta(t, 5.0, h, 1e-9)
}

func TestLifecycleDurations_NegativeKept(t *testing.T) {
	r := storage.Record{
		"waktu_assign": "05/03/2024 10:00",
		"waktu_mulai":  "05/03/2024 09:00",
	}

	h, ok := LifecycleDurations(r, time.UTC).Hours(AssignmentToStart)
	require.True(t, ok)
	assert.InDelta(t, -1.0, h, 1e-9)
}

func TestTrend(t *testing.T) {
	assert.Equal(t, 0.0, Trend(5, 0))
	assert.Equal(t, 25.0, Trend(5, 4))
	assert.Equal(t, -25.0, Trend(3, 4))
}

func soFixture() []storage.Record {
	return []storage.Record{
		{
			"so_number":    "SO-1",
			"tanggal":      "05/03/2024",
			"status":       "Completed",
			"assigned_at":  "05/03/2024 08:00",
			"started_at":   "05/03/2024 09:30",
			"completed_at": "05/03/2024 12:00",
			"closed_at":    "05/03/2024 13:00",
		},
		{
			"so_number":    "SO-2",
			"tanggal":      "10/03/2024",
			"status":       "closed",
			"assigned_at":  "10/03/2024 08:00",
			"started_at":   "10/03/2024 10:00",
			"completed_at": "10/03/2024 18:00",
		},
		{"so_number": "SO-3", "tanggal": "12/03/2024", "status": "Open"},
		{"so_number": "SO-4", "tanggal": "20/02/2024", "status": "completed"},
		{"so_number": "SO-5", "status": "completed"},
	}
}

func TestTrackSOTime_ThisMonth(t *testing.T) {
	res := TrackSOTime(soFixture(), PeriodThisMonth, fixedNow)

	assert.Equal(t, PeriodThisMonth, res.Period)
	assert.Equal(t, 3, res.TotalSOThisMonth)
	assert.Equal(t, 2, res.CompletedCount)
	assert.Equal(t, 1, res.PreviousCount)
	assert.Equal(t, 200.0, res.MonthlyTrend)
	assert.Equal(t, float64(TargetResolutionHours), res.TargetTime)

	assert.Equal(t, 1.8, res.AssignmentToStart)
	assert.Equal(t, 5.3, res.StartToComplete)
	assert.Equal(t, 1.0, res.CompleteToClose)

	// полный цикл есть только у SO-1
	require.NotNil(t, res.FastestSO)
	require.NotNil(t, res.SlowestSO)
	assert.Equal(t, "SO-1", res.FastestSO.ID)
	assert.Equal(t, 5.0, res.FastestThisWeek)
	assert.Equal(t, 5.0, res.Slowest)

	assert.Equal(t, day(2024, 3, 5), res.PeriodStart)
	assert.Equal(t, fixedNow, res.PeriodEnd)
}

func TestTrackSOTime_Empty(t *testing.T) {
	res := TrackSOTime(nil, PeriodToday, fixedNow)

	assert.Zero(t, res.TotalSOThisMonth)
	assert.Zero(t, res.AssignmentToStart)
	assert.Nil(t, res.FastestSO)
	assert.Nil(t, res.SlowestSO)
	assert.Equal(t, day(2024, 3, 13), res.PeriodStart)
}

func TestTrackSOTime_Idempotent(t *testing.T) {
	orders := soFixture()
	first := TrackSOTime(orders, PeriodLast3Months, fixedNow)
	second := TrackSOTime(orders, PeriodLast3Months, fixedNow)
	assert.Equal(t, first, second)
}
