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

type RelationshipAnalyzer interface {
	Relationships(ctx context.Context) (analytics.Relationships, string, error)
}

func GetRelationships(log *slog.Logger, svc RelationshipAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.relationships.GetRelationships"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, snapshotID, err := svc.Relationships(ctx)
		if err != nil {
			log.Error("Failed to compute relationships", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		render.JSON(w, r, res)
	}
}
