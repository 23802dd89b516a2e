package analytics

import (
	"fieldservice-dashboard/internal/storage"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockFixture() []storage.Record {
	return []storage.Record{
		{
			"part_number":   "P1",
			"part_name":     "Very Long Part Name Exceeding",
			"type_of_part":  "Module",
			"idfsl01_fsl_a": "0",
			"idfsl02_fsl_b": "3",
			"idfsl03_fsl_c": "120",
			"grand_total":   "1",
		},
		{
			"part_number":   "P2",
			"part_name":     "Belt",
			"type_of_part":  "Module",
			"20_top_usage":  "Yes",
			"idfsl01_fsl_a": 4,
		},
		{"part_number": "Region", "idfsl01_fsl_a": "FSL A"},
		{"part_number": "P4", "part_name": "Ghost"},
	}
}

func TestAnalyzeStock_PartInSeveralBuckets(t *testing.T) {
	res := AnalyzeStock(stockFixture())

	assert.Equal(t, 3, res.TotalParts)
	assert.Equal(t, 127, res.TotalStockQuantity)
	assert.Equal(t, 1, res.Top20UsageParts)

	// 1. P1 сразу в трех корзинах
	require.Len(t, res.StockAlerts.Critical, 1)
	assert.Equal(t, "P1", res.StockAlerts.Critical[0].PartNumber)
	assert.Equal(t, "idfsl01_fsl_a", res.StockAlerts.Critical[0].Location)
	assert.Equal(t, "FSL A", res.StockAlerts.Critical[0].LocationName)

	require.Len(t, res.StockAlerts.Urgent, 2)
	assert.Equal(t, "P1", res.StockAlerts.Urgent[0].PartNumber)
	assert.Equal(t, "P2", res.StockAlerts.Urgent[1].PartNumber)

	require.Len(t, res.StockAlerts.Overstock, 1)
	assert.Equal(t, 120, res.StockAlerts.Overstock[0].Stock)
	assert.Empty(t, res.StockAlerts.Warning)

	// 2. Приоритетные: top20 и urgent/warning
	require.Len(t, res.StockAlerts.PriorityCritical, 1)
	assert.Equal(t, "P2", res.StockAlerts.PriorityCritical[0].PartNumber)

	assert.Equal(t, 1, res.CriticalCount)
	assert.Equal(t, 2, res.UrgentCount)
	assert.Equal(t, 1, res.OverstockCount)
	assert.Equal(t, 1, res.PriorityCount)
	assert.Equal(t, 3, res.TotalLowStock)

	// 3. Здоровье по худшей локации, P4 без локаций - critical
	assert.Equal(t, StockHealth{CriticalCount: 2, UrgentCount: 1, OverstockCount: 1}, res.StockHealth)
}

func TestAnalyzeStock_Rankings(t *testing.T) {
	res := AnalyzeStock(stockFixture())

	assert.Equal(t, []TypeStock{
		{Type: "Module", Total: 127, Parts: 2},
		{Type: Unknown, Total: 0, Parts: 1},
	}, res.StockByType)

	require.Len(t, res.TopPartsByStock, 3)
	assert.Equal(t, PartStock{
		PartNumber: "P1",
		PartName:   "Very Long Part Name ...",
		Type:       "Module",
		GrandTotal: 123,
		Status:     "critical",
	}, res.TopPartsByStock[0])
	assert.Equal(t, "urgent", res.TopPartsByStock[1].Status)
}

func TestAnalyzeStock_Empty(t *testing.T) {
	res := AnalyzeStock(nil)

	assert.Zero(t, res.TotalParts)
	assert.NotNil(t, res.StockAlerts.Critical)
	assert.NotNil(t, res.StockAlerts.PriorityCritical)
	assert.NotNil(t, res.StockByType)
	assert.NotNil(t, res.TopPartsByStock)
}

func TestIsTop20Usage(t *testing.T) {
	assert.True(t, IsTop20Usage(storage.Record{"20_top_usage": "YES"}))
	assert.False(t, IsTop20Usage(storage.Record{"20_top_usage": "no"}))
	assert.False(t, IsTop20Usage(storage.Record{}))
}
