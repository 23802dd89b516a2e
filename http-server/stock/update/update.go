package update

import (
	"context"
	"errors"
	"fieldservice-dashboard/internal/service/dashboard"
	"fieldservice-dashboard/internal/storage"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type StockEditor interface {
	UpdateStock(ctx context.Context, partNumber string, fields map[string]interface{}) (dashboard.StockUpdate, error)
}

// UpdateStockPart - правка остатков по локациям из админки.
// Тело: {"idfsl01_fsl_a": 4, "idccw00_jkt": 0}.
func UpdateStockPart(log *slog.Logger, editor StockEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stock.UpdateStockPart"

		partNumber := chi.URLParam(r, "partNumber")

		var fields map[string]interface{}
		if err := render.DecodeJSON(r.Body, &fields); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("Invalid JSON")
			http.Error(w, "Некорректный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := editor.UpdateStock(ctx, partNumber, fields)
		if err != nil {
			switch {
			case errors.Is(err, dashboard.ErrInvalidStock):
				log.With(slog.String("op", op), slog.String("part_number", partNumber), slog.String("error", err.Error())).
					Warn("Invalid stock update")
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrRecordNotFound):
				log.With(slog.String("op", op), slog.String("part_number", partNumber)).Warn("Part not found")
				http.Error(w, "Part not found", http.StatusNotFound)
			default:
				log.With(
					slog.String("op", op),
					slog.String("part_number", partNumber),
					slog.String("error", err.Error()),
				).Error("Failed to update stock")
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		log.Info("Stock updated", slog.String("part_number", res.PartNumber), slog.String("status", res.Status))
		render.JSON(w, r, res)
	}
}
