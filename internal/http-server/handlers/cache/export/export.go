package export

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tt-service/api"
	"tt-service/internal/cache"
	"tt-service/pkg/response"
	"tt-service/pkg/sl"
)

type CacheExporter interface {
	ExportCache(ctx context.Context) (cache.Snapshot, error)
}

type Response struct {
	response.Response
	api.CacheExportResponse
}

func New(log *slog.Logger, exporter CacheExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cache.export.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		snapshot, err := exporter.ExportCache(r.Context())
		if err != nil {
			log.Error("Failed to export cache", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to export cache"))
			return
		}

		log.Info("Cache exported", slog.Int("entries", len(snapshot)))
		render.JSON(w, r, Response{CacheExportResponse: api.CacheExportResponse{Entries: len(snapshot)}})
	}
}
