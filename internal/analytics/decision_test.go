package analytics

import (
	"fieldservice-dashboard/internal/storage"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopEngineers_FromLeveling(t *testing.T) {
	leveling := []storage.Record{
		{"name": "Ani", "region": "Region 1", "total_kpi_achievement": "95.5"},
		{"name": "Budi", "total_kpi_achievement": 0, "total_score": "88"},
		{"name": "Citra", "qualitative_score": 120},
		{"name": "", "total_kpi_achievement": 90},
		{"name": "Dedi"},
	}

	got := TopEngineers(nil, nil, leveling)

	require.Len(t, got, 3)
	assert.Equal(t, "Citra", got[0].Name)
	assert.Equal(t, 100.0, got[0].Performance)
	assert.Equal(t, "Ani", got[1].Name)
	assert.Equal(t, 95.5, got[1].Performance)
	assert.Equal(t, 95.5, got[1].TotalScore)
	assert.Equal(t, "Region 1", got[1].Region)
	assert.Equal(t, "Budi", got[2].Name)
	assert.Equal(t, 88.0, got[2].Performance)
	assert.Equal(t, 0.0, got[2].KPIAchievement)
	for _, e := range got {
		assert.Equal(t, "leveling", e.Source)
	}
}

func TestTopEngineers_Fallback(t *testing.T) {
	engineers := []storage.Record{
		{"name": "Eko", "years_experience": "3 Tahun", "technical_skills_training": "CRM"},
		{"name": "Fajar", "years_experience": "12"},
		{"name": "Gita", "years_experience": "3", "soft_skills_training": "TCR"},
	}
	machines := []storage.Record{
		{"engineer_name": "Eko"},
		{"engineer_name": "Eko"},
		{"engineer_name": "Gita"},
	}

	got := TopEngineers(engineers, machines, nil)

	require.Len(t, got, 3)
	assert.Equal(t, "Fajar", got[0].Name)
	assert.Equal(t, 100.0, got[0].Performance)
	// равные 50: по имени
	assert.Equal(t, "Eko", got[1].Name)
	assert.Equal(t, 50.0, got[1].Performance)
	assert.Equal(t, 2, got[1].Machines)
	assert.Equal(t, 1, got[1].Trainings)
	assert.Equal(t, "Gita", got[2].Name)
	assert.Equal(t, "engineers", got[2].Source)
}

func TestMachinePerformance(t *testing.T) {
	machines := []storage.Record{
		{"machine_type": "ATM", "machine_status": "On Warranty", "year": "2023"},
		{"machine_type": "ATM", "machine_status": "Out Of Warranty", "year": 2020},
		{"type": "CRM", "machine_status": "in warranty", "install_year": "2024"},
	}

	got := MachinePerformance(machines, 2024)

	assert.Equal(t, []MachineTypePerformance{
		{Type: "CRM", Total: 1, OnWarranty: 1, WarrantyRate: 100, AvgAge: 0, Score: 100},
		{Type: "ATM", Total: 2, OnWarranty: 1, WarrantyRate: 50, AvgAge: 2.5, Score: 62.5},
	}, got)
}

func TestRegionalComparison(t *testing.T) {
	engineers := []storage.Record{
		{"region": "Region 1", "years_experience": "2"},
		{"region": "Region 1", "years_experience": "4 Tahun"},
	}
	machines := []storage.Record{
		{"region": "Region 1"},
		{"region": "Region 1"},
		{"region": "Region 1"},
		{"region": "Region 2"},
	}

	got := RegionalComparison(engineers, machines)

	assert.Equal(t, []RegionalEfficiency{
		{Region: "Region 1", Engineers: 2, Machines: 3, AvgExp: 3, Ratio: 1.5, Efficiency: 30},
		{Region: "Region 2", Engineers: 0, Machines: 1},
	}, got)

	empty := RegionalComparison(engineers, nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDistanceBucket(t *testing.T) {
	assert.Equal(t, distanceNear, distanceBucket("45"))
	assert.Equal(t, distanceMid, distanceBucket("90 km"))
	assert.Equal(t, distanceFar, distanceBucket("150"))
	assert.Equal(t, distanceMid, distanceBucket("60-120km"))
	assert.Equal(t, distanceFar, distanceBucket(">120 km"))
	assert.Equal(t, "", distanceBucket(""))
	// нераспознанный текст уходит в ближнюю зону
	assert.Equal(t, distanceNear, distanceBucket("dekat kota"))
}

func TestDistanceAnalysis(t *testing.T) {
	engineers := []storage.Record{
		{"area_group": "Jakarta Pusat", "name": "E1"},
		{"area_group": "jakarta", "name": "E2"},
		{"area_group": "Bandung", "name": "E3"},
	}
	machines := []storage.Record{
		{"area_group": "Jakarta Selatan", "zona": 2, "distance": "30"},
		{"area_group": "Jakarta Utara", "zona": "2", "distance": "130"},
		{"area_group": "Jakarta Barat", "zona": 1, "distance": "70"},
		{"area_group": "Medan"},
		{"area_group": "Bandung", "zona": 4},
		{"area_group": "Bandung", "zona": 1},
		{"area_group": "Bandung", "zona": 1},
	}

	got := DistanceAnalysis(engineers, machines)

	// Medan вся в первой зоне и не попадает в список
	require.Len(t, got, 2)

	jkt := got[0]
	assert.Equal(t, "Jakarta Selatan", jkt.AreaGroup)
	assert.Equal(t, 2.0, jkt.Zone)
	assert.Equal(t, 3, jkt.Total)
	assert.Equal(t, 2, jkt.MachinesAboveZone1)
	assert.Equal(t, 2, jkt.SameZone)
	assert.Equal(t, 1, jkt.NearZone)
	assert.Equal(t, 0, jkt.FarZone)
	assert.Equal(t, 2, jkt.Engineers)
	assert.Equal(t, 1, jkt.Distance0To60)
	assert.Equal(t, 1, jkt.Distance60To120)
	assert.Equal(t, 1, jkt.Distance120Plus)
	assert.Equal(t, map[string]int{"2": 2, "1": 1}, jkt.ZonaDistribution)
	assert.Equal(t, 1.7, jkt.AvgZona)
	assert.Equal(t, 4, jkt.DistanceScore)

	bdg := got[1]
	assert.Equal(t, "Bandung", bdg.AreaGroup)
	assert.Equal(t, 1.0, bdg.Zone)
	assert.Equal(t, 1, bdg.FarZone)
	assert.Equal(t, 6, bdg.DistanceScore)
	assert.Equal(t, 1, bdg.Engineers)
}

func TestZoneOptimization(t *testing.T) {
	machines := []storage.Record{
		{"zone": "Z1", "engineer_name": "A", "machine_status": "Out Of Warranty"},
		{"zone": "Z1", "engineer_name": "A"},
		{"zone": "Z2", "maintenance_status": "Pending Parts"},
	}

	got := ZoneOptimization(machines)

	assert.Equal(t, []ZoneLoad{
		{Zone: "Z2", Machines: 1, Engineers: 0, Ratio: 1, NeedsAttention: 1, Priority: 100},
		{Zone: "Z1", Machines: 2, Engineers: 1, Ratio: 2, NeedsAttention: 1, Priority: 50},
	}, got)
}

func TestAnalyzeDecision_Empty(t *testing.T) {
	res := AnalyzeDecision(nil, nil, nil, fixedNow)

	assert.NotNil(t, res.TopEngineers)
	assert.Empty(t, res.TopEngineers)
	assert.NotNil(t, res.MachinePerformance)
	assert.NotNil(t, res.RegionalComparison)
	assert.NotNil(t, res.DistanceAnalysis)
	assert.NotNil(t, res.ZoneOptimization)
}
