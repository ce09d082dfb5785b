package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tt-service/api"
	"tt-service/internal/models"
	"tt-service/internal/source"
	"tt-service/pkg/response"
	"tt-service/pkg/sl"
)

type GroupGetter interface {
	GroupsForFaculty(ctx context.Context, facultyID int64) ([]models.Group, error)
}

type Response struct {
	response.Response
	Groups []api.GroupResponse `json:"groups"`
}

func New(log *slog.Logger, getter GroupGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.groups.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		facultyID, err := strconv.ParseInt(chi.URLParam(r, "faculty_id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid faculty_id"))
			return
		}

		groups, err := getter.GroupsForFaculty(r.Context(), facultyID)
		if err != nil {
			log.Error("Failed to get groups", sl.Err(err))
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
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get groups"))
			}
			return
		}

		result := make([]api.GroupResponse, 0, len(groups))
		for _, g := range groups {
			result = append(result, api.GroupResponse{
				ID:        g.ID,
				Name:      g.Name,
				Specialty: g.Specialty,
				Profile:   g.Profile,
			})
		}

		log.Info("Groups retrieved", slog.Int64("faculty_id", facultyID), slog.Int("count", len(result)))
		render.JSON(w, r, Response{Groups: result})
	}
}
