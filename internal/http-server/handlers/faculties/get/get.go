package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tt-service/api"
	"tt-service/internal/models"
	"tt-service/internal/source"
	"tt-service/pkg/response"
	"tt-service/pkg/sl"
)

type FacultyGetter interface {
	Faculties(ctx context.Context) ([]models.Faculty, error)
}

type Response struct {
	response.Response
	Faculties []api.FacultyResponse `json:"faculties"`
}

func New(log *slog.Logger, getter FacultyGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.faculties.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		faculties, err := getter.Faculties(r.Context())
		if err != nil {
			log.Error("Failed to get faculties", sl.Err(err))
			switch {
			case errors.Is(err, source.ErrAuth):
				w.WriteHeader(http.StatusBadGateway)
				render.JSON(w, r, response.Error(string(response.AUTH_FAILED), "upstream authentication failed"))
			case errors.Is(err, source.ErrParse):
				w.WriteHeader(http.StatusBadGateway)
				render.JSON(w, r, response.Error(string(response.PARSE_FAILED), "upstream page parse failed"))
			case errors.Is(err, source.ErrUnavailable):
				w.WriteHeader(http.StatusBadGateway)
				render.JSON(w, r, response.Error(string(response.UPSTREAM_UNAVAILABLE), "upstream unavailable"))
			default:
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get faculties"))
			}
			return
		}

		result := make([]api.FacultyResponse, 0, len(faculties))
		for _, f := range faculties {
			result = append(result, api.FacultyResponse{ID: f.ID, Name: f.Name})
		}

		log.Info("Faculties retrieved", slog.Int("count", len(result)))
		render.JSON(w, r, Response{Faculties: result})
	}
}
