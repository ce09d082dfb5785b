package week

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

type ScheduleGetter interface {
	ScheduleForWeek(ctx context.Context, groupID int64, week *int, subgroup int, period *models.Period) ([]models.Lesson, error)
}

type Response struct {
	response.Response
	Lessons []api.LessonResponse `json:"lessons"`
}

func New(log *slog.Logger, getter ScheduleGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.week.New"

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

		var week *int
		if s := r.URL.Query().Get("week"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid week"))
				return
			}
			week = &n
		}

		subgroup := 0
		if s := r.URL.Query().Get("subgroup"); s != "" {
			if subgroup, err = strconv.Atoi(s); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid subgroup"))
				return
			}
		}

		var period *models.Period
		if p := r.URL.Query().Get("period"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil || n < int(models.FallSemester) || n > int(models.SummerSession) {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid period"))
				return
			}
			val := models.Period(n)
			period = &val
		}

		lessons, err := getter.ScheduleForWeek(r.Context(), groupID, week, subgroup, period)
		if err != nil {
			log.Error("Failed to resolve schedule for week", sl.Err(err))
			writeUpstreamError(w, r, err)
			return
		}

		log.Info("Schedule resolved", slog.Int64("group_id", groupID), slog.Int("lessons", len(lessons)))
		render.JSON(w, r, Response{Lessons: api.NewLessons(lessons)})
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
		render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to resolve schedule"))
	}
}
