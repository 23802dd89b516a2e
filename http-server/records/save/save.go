package save

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

type RecordSaver interface {
	SaveRecord(ctx context.Context, resource, key string, rec storage.Record) error
}

type Response struct {
	Resource string `json:"resource"`
	Key      string `json:"key"`
	Status   string `json:"status"`
}

// SaveRecord - загрузка или замена записи из админки.
func SaveRecord(log *slog.Logger, saver RecordSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.SaveRecord"

		resource := chi.URLParam(r, "resource")
		key := chi.URLParam(r, "key")

		var rec storage.Record
		if err := render.DecodeJSON(r.Body, &rec); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("Invalid JSON")
			http.Error(w, "Некорректный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.SaveRecord(ctx, resource, key, rec); err != nil {
			switch {
			case errors.Is(err, storage.ErrUnknownResource):
				http.Error(w, "Resource not found", http.StatusNotFound)
			case errors.Is(err, dashboard.ErrInvalidRecord), errors.Is(err, dashboard.ErrInvalidStock):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				log.With(
					slog.String("op", op),
					slog.String("resource", resource),
					slog.String("key", key),
					slog.String("error", err.Error()),
				).Error("Failed to save record")
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, Response{Resource: resource, Key: key, Status: "saved"})
	}
}
