package get

import (
	"context"
	"errors"
	"fieldservice-dashboard/internal/analytics"
	"fieldservice-dashboard/internal/service/dashboard"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type SOTimeTracker interface {
	SOTimeTracking(ctx context.Context, period string) (analytics.SOTimeTracking, string, error)
}

// GetSOTimeTracking - длительности этапов SO за период ?period=,
// по умолчанию текущий месяц.
func GetSOTimeTracking(log *slog.Logger, svc SOTimeTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.so_time.GetSOTimeTracking"

		period := r.URL.Query().Get("period")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, snapshotID, err := svc.SOTimeTracking(ctx, period)
		if err != nil {
			if errors.Is(err, analytics.ErrUnknownPeriod) {
				log.With(slog.String("op", op), slog.String("period", period)).Warn("Unknown period")
				http.Error(w, "Unknown period, expected today, thisWeek, thisMonth, lastMonth or last3Months", http.StatusBadRequest)
				return
			}

			log.Error("Failed to track SO time", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		render.JSON(w, r, res)
	}
}
