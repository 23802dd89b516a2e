package generate_excel

import (
	"context"
	"errors"
	"fieldservice-dashboard/internal/analytics"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnknownLevel = errors.New("unknown stock level")

type StockSource interface {
	Stock(ctx context.Context) (analytics.StockKPIs, string, error)
}

type GenerateExcelService struct {
	source StockSource
}

func NewGenerateService(source StockSource) *GenerateExcelService {
	return &GenerateExcelService{source: source}
}

const summarySheet = "Summary"

// Листы отчета в порядке вывода.
var alertSheets = []struct {
	level string
	sheet string
	pick  func(analytics.StockAlerts) []analytics.StockAlert
}{
	{"critical", "Critical", func(a analytics.StockAlerts) []analytics.StockAlert { return a.Critical }},
	{"urgent", "Urgent", func(a analytics.StockAlerts) []analytics.StockAlert { return a.Urgent }},
	{"warning", "Warning", func(a analytics.StockAlerts) []analytics.StockAlert { return a.Warning }},
	{"overstock", "Overstock", func(a analytics.StockAlerts) []analytics.StockAlert { return a.Overstock }},
	{"priority", "Priority", func(a analytics.StockAlerts) []analytics.StockAlert { return a.PriorityCritical }},
}

var alertHeaders = []string{"Part Number", "Part Name", "Location", "Location Name", "Stock", "Level", "Top 20 Usage"}

// ParseLevels: "critical,urgent" -> набор листов, пусто - все.
func ParseLevels(raw string) ([]string, error) {
	out := make([]string, 0)
	for _, l := range strings.Split(raw, ",") {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		known := false
		for _, s := range alertSheets {
			if s.level == l {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%q: %w", l, ErrUnknownLevel)
		}
		out = append(out, l)
	}
	return out, nil
}

// GenerateStockReport - xlsx с листом сводки и листами алертов по уровням.
// Возвращает файл и ID снапшота, по которому он собран.
func (g *GenerateExcelService) GenerateStockReport(ctx context.Context, levels []string) ([]byte, string, error) {
	const op = "service.generate_excel.GenerateStockReport"

	kpis, snapshotID, err := g.source.Stock(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%s: fetch stock: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	// Шапка: жирный шрифт, серый фон, линия снизу
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: header style: %w", op, err)
	}

	if err := writeSummary(f, kpis, snapshotID, headerStyle); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	wanted := make(map[string]bool, len(levels))
	for _, l := range levels {
		wanted[l] = true
	}
	for _, s := range alertSheets {
		if len(wanted) > 0 && !wanted[s.level] {
			continue
		}
		if err := writeAlerts(f, s.sheet, s.pick(kpis.StockAlerts), headerStyle); err != nil {
			return nil, "", fmt.Errorf("%s: %s: %w", op, s.sheet, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("%s: write: %w", op, err)
	}

	return buf.Bytes(), snapshotID, nil
}

func writeSummary(f *excelize.File, kpis analytics.StockKPIs, snapshotID string, headerStyle int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Snapshot", snapshotID},
		{"Total parts", kpis.TotalParts},
		{"Total stock quantity", kpis.TotalStockQuantity},
		{"Top 20 usage parts", kpis.Top20UsageParts},
		{"Critical locations", kpis.CriticalCount},
		{"Urgent locations", kpis.UrgentCount},
		{"Warning locations", kpis.WarningCount},
		{"Overstock locations", kpis.OverstockCount},
		{"Priority alerts", kpis.PriorityCount},
		{"Parts healthy", kpis.StockHealth.HealthyCount},
		{"Parts warning", kpis.StockHealth.WarningCount},
		{"Parts urgent", kpis.StockHealth.UrgentCount},
		{"Parts critical", kpis.StockHealth.CriticalCount},
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "B", 24)
}

func writeAlerts(f *excelize.File, sheet string, alerts []analytics.StockAlert, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, name := range alertHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(alertHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return err
	}

	for i, a := range alerts {
		row := i + 2
		top20 := "no"
		if a.Top20Usage {
			top20 = "yes"
		}
		f.SetCellValue(sheet, cellName(1, row), a.PartNumber)
		f.SetCellValue(sheet, cellName(2, row), a.PartName)
		f.SetCellValue(sheet, cellName(3, row), a.Location)
		f.SetCellValue(sheet, cellName(4, row), a.LocationName)
		f.SetCellValue(sheet, cellName(5, row), a.Stock)
		f.SetCellValue(sheet, cellName(6, row), a.Level)
		f.SetCellValue(sheet, cellName(7, row), top20)
	}

	// Закрепляем первую строку
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "A", "G", 18)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
