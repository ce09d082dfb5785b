package current

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

type CurrentLessonGetter interface {
	CurrentLesson(ctx context.Context, groupID int64, subgroup int) (*models.Lesson, error)
}

type Response struct {
	response.Response
	Lesson *api.LessonResponse `json:"lesson"`
}

func New(log *slog.Logger, getter CurrentLessonGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.current.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		groupID, err := strconv.ParseInt(chi.URLParam(r, "group_id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid group_id"))
			return
		}

		subgroup := 0
		if s := r.URL.Query().Get("subgroup"); s != "" {
			if subgroup, err = strconv.Atoi(s); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid subgroup"))
				return
			}
		}

		lesson, err := getter.CurrentLesson(r.Context(), groupID, subgroup)
		if err != nil {
			log.Error("Failed to resolve current lesson", sl.Err(err))
			writeUpstreamError(w, r, err)
			return
		}

		// No lesson in progress is a valid answer, not an error.
		var dto *api.LessonResponse
		if lesson != nil {
			mapped := api.NewLesson(*lesson)
			dto = &mapped
		}

		log.Info("Current lesson resolved", slog.Int64("group_id", groupID), slog.Bool("in_progress", lesson != nil))
		render.JSON(w, r, Response{Lesson: dto})
	}
}

func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
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
	case errors.Is(err, response.ErrLocked):
		w.WriteHeader(http.StatusLocked)
		render.JSON(w, r, response.Error(string(response.LOCKED), "fetch already in progress"))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to resolve current lesson"))
	}
}
