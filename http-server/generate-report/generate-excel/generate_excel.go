package generate_excel

import (
	"context"
	"errors"
	"fieldservice-dashboard/internal/service/dashboard"
	gen "fieldservice-dashboard/internal/service/generate-excel"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, levels []string) ([]byte, string, error)
}

// GenerateStockAlertsExcel отдает xlsx с алертами склада.
// ?levels=critical,urgent ограничивает набор листов.
func GenerateStockAlertsExcel(log *slog.Logger, g StockReportGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateStockAlertsExcel"

		levels, err := gen.ParseLevels(r.URL.Query().Get("levels"))
		if err != nil {
			http.Error(w, "invalid levels", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second) // на Excel можно побольше времени
		defer cancel()

		excelBytes, snapshotID, err := g.GenerateStockReport(ctx, levels)
		if err != nil {
			if errors.Is(err, gen.ErrUnknownLevel) {
				http.Error(w, "invalid levels", http.StatusBadRequest)
				return
			}
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Stock_Alerts_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Header().Set("Content-Length", strconv.Itoa(len(excelBytes)))
		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		if _, err := w.Write(excelBytes); err != nil {
			log.Error("failed to write excel", "op", op, "err", err)
		}
	}
}
