package get

import (
	"context"
	"fieldservice-dashboard/internal/analytics"
	"fieldservice-dashboard/internal/service/dashboard"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type StockAnalyzer interface {
	Stock(ctx context.Context) (analytics.StockKPIs, string, error)
}

// GetStockKPIs - алерты по локациям, здоровье склада и приоритетные позиции.
func GetStockKPIs(log *slog.Logger, svc StockAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stock.GetStockKPIs"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, snapshotID, err := svc.Stock(ctx)
		if err != nil {
			log.Error("Failed to compute stock KPIs", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		render.JSON(w, r, res)
	}
}
