package get

import (
	"context"
	"fieldservice-dashboard/internal/analytics"
	"fieldservice-dashboard/internal/service/dashboard"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
)

type ResolutionAnalyzer interface {
	ResolutionTimes(ctx context.Context, months []string) (analytics.ResolutionTimes, string, error)
}

func GetResolutionTimes(log *slog.Logger, svc ResolutionAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resolution_times.GetResolutionTimes"

		months := parseMonths(r.URL.Query()["months"])

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, snapshotID, err := svc.ResolutionTimes(ctx, months)
		if err != nil {
			log.Error("Failed to compute resolution times",
				slog.String("op", op),
				slog.Any("months", months),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		render.JSON(w, r, res)
	}
}

// ?months=April,May и ?months=April&months=May дают одно и то же
func parseMonths(raw []string) []string {
	months := make([]string, 0)
	for _, v := range raw {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				months = append(months, m)
			}
		}
	}
	return months
}
