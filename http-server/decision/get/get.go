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

type DecisionAnalyzer interface {
	Decision(ctx context.Context) (analytics.Decision, string, error)
}

func GetDecision(log *slog.Logger, svc DecisionAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.decision.GetDecision"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, snapshotID, err := svc.Decision(ctx)
		if err != nil {
			log.Error("Failed to compute decision analytics", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		render.JSON(w, r, res)
	}
}
