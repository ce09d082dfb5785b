package restore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tt-service/api"
	"tt-service/pkg/response"
	"tt-service/pkg/sl"
)

type CacheRestorer interface {
	RestoreCache(ctx context.Context) (int, error)
}

type Response struct {
	response.Response
	api.CacheRestoreResponse
}

func New(log *slog.Logger, restorer CacheRestorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cache.restore.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		restored, err := restorer.RestoreCache(r.Context())
		if err != nil {
			if errors.Is(err, response.ErrNotFound) {
				log.Error("No snapshot store configured")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "no snapshot store configured"))
				return
			}
			log.Error("Failed to restore cache", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to restore cache"))
			return
		}

		log.Info("Cache restored", slog.Int("restored", restored))
		render.JSON(w, r, Response{CacheRestoreResponse: api.CacheRestoreResponse{Restored: restored}})
	}
}
