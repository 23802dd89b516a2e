package analytics

import (
	"fieldservice-dashboard/internal/storage"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	assert.Equal(t, 12, ToNumber("12 pcs"))
	assert.Equal(t, 7, ToNumber(7.9))
	assert.Equal(t, 5, ToNumber(5))
	assert.Equal(t, -3, ToNumber("-3"))
	assert.Equal(t, 0, ToNumber(nil))
	assert.Equal(t, 0, ToNumber(""))
	assert.Equal(t, 0, ToNumber("abc"))
	assert.Equal(t, 0, ToNumber(true))
	// как parseFloat: точка считается десятичной
	assert.Equal(t, 1, ToNumber("Rp 1.500"))
}

func TestToList(t *testing.T) {
	assert.Equal(t, []string{"CRM", "TCR"}, ToList(" CRM , TCR,, null ,undefined"))

	empty := ToList(nil)
	require.NotNil(t, empty)
	assert.Empty(t, empty)
	assert.Empty(t, ToList("null"))
}

func TestParseExperienceYears(t *testing.T) {
	assert.Equal(t, 3, ParseExperienceYears("3 Tahun 2 Bulan"))
	assert.Equal(t, 12, ParseExperienceYears("12 tahun"))
	assert.Equal(t, 7, ParseExperienceYears("7"))
	assert.Equal(t, 5, ParseExperienceYears("5.8"))
	assert.Equal(t, 4, ParseExperienceYears(4.0))
	assert.Equal(t, 0, ParseExperienceYears("baru"))
	assert.Equal(t, 0, ParseExperienceYears(nil))
}

func TestParseExperience(t *testing.T) {
	assert.InDelta(t, 3.5, ParseExperience("3 Tahun 6 Bulan"), 1e-9)
	assert.InDelta(t, 0.5, ParseExperience("6 Bulan"), 1e-9)
	assert.InDelta(t, 2.0, ParseExperience("2"), 1e-9)
	assert.Equal(t, 0.0, ParseExperience(""))
}

func TestField_FirstNonEmptyAliasWins(t *testing.T) {
	r := storage.Record{
		"waktu_assign": "",
		"assign_time":  "01/02/2024",
		"tanggal":      "null",
	}

	v, ok := Field(r, "assigned_at", "waktu_assign", "assign_time")
	require.True(t, ok)
	assert.Equal(t, "01/02/2024", v)

	_, ok = Field(r, "tanggal", "missing")
	assert.False(t, ok)

	assert.Equal(t, Unknown, FieldOr(r, Unknown, "region"))
}

func TestGrandTotal_IgnoresStoredTotal(t *testing.T) {
	r := storage.Record{
		"part_number":         "P1",
		"idfsl01_fsl_medan":   "3",
		"idccw00_cash_center": 4.0,
		"grand_total":         999,
	}

	assert.Equal(t, 7, GrandTotal(r))

	locs := LocationStocks(r)
	require.Len(t, locs, 2)
	assert.Equal(t, "idccw00_cash_center", locs[0].Key)
	assert.Equal(t, "Cash Center (Jakarta)", locs[0].Name)
	assert.Equal(t, 4, locs[0].Quantity)
	assert.Equal(t, "idfsl01_fsl_medan", locs[1].Key)
	assert.Equal(t, "FSL Medan", locs[1].Name)
}

func TestIsLocationStockKey(t *testing.T) {
	assert.True(t, IsLocationStockKey("IDFSL02_fsl_bandung"))
	assert.True(t, IsLocationStockKey("idccw01_surabaya"))
	assert.False(t, IsLocationStockKey("grand_total"))
}

func TestNormalizeAreaGroup(t *testing.T) {
	assert.Equal(t, "Surabaya", NormalizeAreaGroup("Surabaya 1"))
	assert.Equal(t, "Surabaya", NormalizeAreaGroup("SURABAYA II"))
	assert.Equal(t, "Bandung", NormalizeAreaGroup("Bandung - 2"))
	assert.Equal(t, "Medan", NormalizeAreaGroup("Medan Kota"))
	assert.Equal(t, "Jakarta Selatan", NormalizeAreaGroup("Jakarat Selatan"))
	assert.Equal(t, Unknown, NormalizeAreaGroup(nil))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(5, 0))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(4, 4))
}

func TestDeriveTrainingSet_Normalizes(t *testing.T) {
	r := storage.Record{
		"name":                      "Budi",
		"technical_skills_training": "crm,  TCR ",
		"soft_skills_training":      "komunikasi   dasar",
	}

	set := DeriveTrainingSet(r)

	assert.Equal(t, []string{"Training CRM", "Training TCR", "Training Komunikasi Dasar"}, set.Labels())
	assert.True(t, set.Has("Training crm"))
	assert.True(t, set.Has("TCR"))
	assert.False(t, set.Has("Training EDC"))
}

func TestDeriveTrainingSet_DedupAndScan(t *testing.T) {
	r := storage.Record{
		"name":                      "CRM Specialist",
		"region":                    "Region 1",
		"technical_skills_training": "Training CRM",
		"soft_skills_training":      "CRM",
		"cert_1":                    "EDC Basic",
		"cert_2":                    "training pos",
		"score":                     "12",
		"remarks":                   "ok",
	}

	set := DeriveTrainingSet(r)

	// name и region не сканируются, score числовой, remarks без ключевых слов
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Has("Training CRM"))
	assert.True(t, set.Has("Training EDC Basic"))
	assert.True(t, set.Has("Training POS"))
}

func TestSortTrainings(t *testing.T) {
	got := SortTrainings([]string{"Training Zeta", "Training POS", "Training Alpha", "Training CRM"})
	assert.Equal(t, []string{"Training CRM", "Training POS", "Training Alpha", "Training Zeta"}, got)
}
