package analytics

import (
	"fieldservice-dashboard/internal/storage"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStock_Boundaries(t *testing.T) {
	cases := []struct {
		qty  int
		want StockLevel
	}{
		{-2, StockCritical},
		{0, StockCritical},
		{1, StockUrgent},
		{5, StockUrgent},
		{6, StockWarning},
		{10, StockWarning},
		{11, StockHealthy},
		{100, StockHealthy},
		{101, StockOverstock},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyStock(tc.qty), "qty=%d", tc.qty)
	}
}

func TestWorstStockLevel(t *testing.T) {
	// 1. Худшая локация определяет уровень
	r := storage.Record{
		"idfsl01_fsl_medan":   "0",
		"idfsl02_fsl_bandung": "3",
		"idccw00_cash_center": "150",
	}
	assert.Equal(t, StockCritical, WorstStockLevel(r))

	// 2. Overstock не хуже healthy
	r = storage.Record{
		"idfsl01_fsl_medan":   "50",
		"idccw00_cash_center": "150",
	}
	assert.Equal(t, StockHealthy, WorstStockLevel(r))

	// 3. Без локаций - critical
	assert.Equal(t, StockCritical, WorstStockLevel(storage.Record{"part_number": "X"}))
}

func TestStockLevel_String(t *testing.T) {
	assert.Equal(t, "critical", StockCritical.String())
	assert.Equal(t, "urgent", StockUrgent.String())
	assert.Equal(t, "warning", StockWarning.String())
	assert.Equal(t, "overstock", StockOverstock.String())
	assert.Equal(t, "healthy", StockHealthy.String())
}

func TestScale_Classify(t *testing.T) {
	assert.Equal(t, CompletionVeryLow, CompletionScale.Classify(39))
	assert.Equal(t, CompletionLow, CompletionScale.Classify(40))
	assert.Equal(t, CompletionMedium, CompletionScale.Classify(79))
	assert.Equal(t, CompletionHigh, CompletionScale.Classify(80))
	assert.Equal(t, CompletionExcellent, CompletionScale.Classify(100))

	assert.Equal(t, LevelJunior, TrainingExperienceScale.Classify(1))
	assert.Equal(t, LevelMid, TrainingExperienceScale.Classify(4))
	assert.Equal(t, LevelSenior, TrainingExperienceScale.Classify(5))
	assert.Equal(t, LevelSenior, EngineerExperienceScale.Classify(4))

	// ниже первой границы - первая корзина
	assert.Equal(t, WarrantyCritical, WarrantyScale.Classify(-5))
	assert.Equal(t, WarrantyWarning, WarrantyScale.Classify(90))
	assert.Equal(t, WarrantyGood, WarrantyScale.Classify(180))

	assert.Equal(t, "", Scale{}.Classify(1))
}

func TestGroupBy_UnknownAndOrder(t *testing.T) {
	records := []storage.Record{
		{"region": "Region 2"},
		{"region": ""},
		{"region": "Region 1"},
		{"region": "Region 2"},
		{},
	}

	g := GroupBy(records, ByField("region"))

	assert.Equal(t, []string{"Region 2", Unknown, "Region 1"}, g.Keys())
	assert.Equal(t, 2, g.Count(Unknown))
	assert.Equal(t, 5, g.Total())
	assert.Equal(t, map[string]int{"Region 2": 2, Unknown: 2, "Region 1": 1}, g.Map())
}

func TestTopEntry_FirstSeenWinsTies(t *testing.T) {
	g := NewGroups()
	g.Inc("B")
	g.Inc("A")
	g.Inc("A")
	g.Inc("B")

	top := TopEntry(g)
	if assert.NotNil(t, top) {
		assert.Equal(t, "B", top.Key)
		assert.Equal(t, 2, top.Count)
	}

	assert.Nil(t, TopEntry(NewGroups()))
}

func TestEntriesAndShares(t *testing.T) {
	g := NewGroups()
	g.Add("x", 1)
	g.Add("y", 3)
	g.Add("z", 1)

	assert.Equal(t, []Entry{{"y", 3}, {"x", 1}, {"z", 1}}, Entries(g))
	assert.Equal(t, []Share{
		{Key: "x", Count: 1, Percentage: 20},
		{Key: "y", Count: 3, Percentage: 60},
		{Key: "z", Count: 1, Percentage: 20},
	}, WithPercentage(g, 5))
}

func TestRank(t *testing.T) {
	type item struct {
		name string
		v    float64
	}
	items := []item{{"b", 1}, {"a", 1}, {"c", 5}}

	stable := Rank(items, func(i item) float64 { return i.v }, nil)
	assert.Equal(t, []item{{"c", 5}, {"b", 1}, {"a", 1}}, stable)

	byLabel := RankByLabel(items, func(i item) float64 { return i.v }, func(i item) string { return i.name })
	assert.Equal(t, []item{{"c", 5}, {"a", 1}, {"b", 1}}, byLabel)

	// исходный срез не трогаем
	assert.Equal(t, "b", items[0].name)

	empty := Rank[item](nil, func(i item) float64 { return i.v }, nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTopN(t *testing.T) {
	assert.Equal(t, []int{1, 2}, TopN([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, TopN([]int{1}, 5))
	assert.Equal(t, []int{}, TopN([]int{1}, -1))
}
