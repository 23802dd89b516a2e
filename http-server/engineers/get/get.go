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

type EngineerAnalyzer interface {
	EngineerKPIs(ctx context.Context, f dashboard.Filter) (analytics.EngineerKPIs, string, error)
}

// GetEngineerKPIs - KPI инженеров с фильтрами region, vendor, area_group.
func GetEngineerKPIs(log *slog.Logger, svc EngineerAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.engineers.GetEngineerKPIs"

		q := r.URL.Query()
		filter := dashboard.Filter{
			Region:    q.Get("region"),
			Vendor:    q.Get("vendor"),
			AreaGroup: q.Get("area_group"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		kpis, snapshotID, err := svc.EngineerKPIs(ctx, filter)
		if err != nil {
			log.Error("Failed to compute engineer KPIs", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		render.JSON(w, r, kpis)
	}
}
