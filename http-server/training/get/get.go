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

type TrainingAnalyzer interface {
	Training(ctx context.Context, f dashboard.Filter) (analytics.TrainingKPIs, string, error)
}

func GetTrainingKPIs(log *slog.Logger, svc TrainingAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.training.GetTrainingKPIs"

		q := r.URL.Query()
		filter := dashboard.Filter{
			Region:    q.Get("region"),
			Vendor:    q.Get("vendor"),
			AreaGroup: q.Get("area_group"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		kpis, snapshotID, err := svc.Training(ctx, filter)
		if err != nil {
			log.Error("Failed to compute training KPIs", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		render.JSON(w, r, kpis)
	}
}
