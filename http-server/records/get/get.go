package get

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

type RecordsGetter interface {
	Records(ctx context.Context, resource string) ([]storage.Record, string, error)
}

// GetRecords отдает коллекцию из снапшота без агрегации: /api/{resource}.
func GetRecords(log *slog.Logger, records RecordsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.GetRecords"

		resource := chi.URLParam(r, "resource")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, snapshotID, err := records.Records(ctx, resource)
		if err != nil {
			if errors.Is(err, storage.ErrUnknownResource) {
				log.With(slog.String("op", op), slog.String("resource", resource)).Warn("Unknown resource")
				http.Error(w, "Resource not found", http.StatusNotFound)
				return
			}

			log.With(
				slog.String("op", op),
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			).Error("Failed to fetch records")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set(dashboard.SnapshotIDHeader, snapshotID)
		render.JSON(w, r, list)
	}
}

type RecordGetter interface {
	Record(ctx context.Context, resource, key string) (storage.Record, error)
}

// GetRecord - одна запись по ключу: /api/{resource}/{key}.
func GetRecord(log *slog.Logger, records RecordGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.GetRecord"

		resource := chi.URLParam(r, "resource")
		key := chi.URLParam(r, "key")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rec, err := records.Record(ctx, resource, key)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrUnknownResource):
				http.Error(w, "Resource not found", http.StatusNotFound)
			case errors.Is(err, storage.ErrRecordNotFound):
				log.With(slog.String("op", op), slog.String("resource", resource), slog.String("key", key)).Warn("Record not found")
				http.Error(w, "Record not found", http.StatusNotFound)
			case errors.Is(err, dashboard.ErrInvalidRecord):
				http.Error(w, "Missing record key", http.StatusBadRequest)
			default:
				log.With(
					slog.String("op", op),
					slog.String("resource", resource),
					slog.String("key", key),
					slog.String("error", err.Error()),
				).Error("Failed to fetch record")
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, rec)
	}
}
