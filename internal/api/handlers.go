package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	errorvalues "github.com/momentumapp/momentum/internal/error_values"
	"github.com/momentumapp/momentum/internal/service"
	"github.com/momentumapp/momentum/pkg/entity"
	"github.com/momentumapp/momentum/pkg/httputil"
)

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
	Completed   *bool   `json:"completed"`
}

type CreateHabitRequest struct {
	Title string `json:"title"`
	Goal  int    `json:"goal"`
}

type SetThemeRequest struct {
	Theme string `json:"theme"`
}

type ListTasksResponse struct {
	Tasks      []entity.Task `json:"tasks"`
	Categories []string      `json:"categories"`
}

type HabitWithSummary struct {
	entity.Habit
	Summary entity.HabitWeeklySummary `json:"summary"`
}

type ListHabitsResponse struct {
	Habits     []HabitWithSummary `json:"habits"`
	TodayIndex int                `json:"today_index"`
}

type ListResourcesResponse struct {
	Resources []entity.Resource `json:"resources"`
	Favorites []int64           `json:"favorites"`
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateTaskRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create task error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.stateService.AddTask(ctx, &service.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("create task error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "title and due date are required", err)
			return
		}
		logger.Error("create task error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error creating task", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created", slog.Int64("task_id", task.ID))
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	state := s.stateService.Snapshot()
	query := r.URL.Query()
	tasks := service.FilterAndSortTasks(state, service.TaskQuery{
		Status:   query.Get("status"),
		Category: query.Get("category"),
		SortKey:  query.Get("sort"),
	})
	httputil.WriteJSONResponse(w, http.StatusOK, ListTasksResponse{
		Tasks:      tasks,
		Categories: service.DistinctTaskCategories(state),
	})
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := parseID(r)
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	var req UpdateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update task error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.stateService.UpdateTask(ctx, id, &service.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Category:    req.Category,
		Completed:   req.Completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update task error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task fields", err)
		case errors.Is(err, errorvalues.ErrTaskNotFound):
			logger.Error("update task error: not found", slog.Int64("task_id", id))
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task not found", nil)
		default:
			logger.Error("update task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error updating task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated", slog.Int64("task_id", id))
}

func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := parseID(r)
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.stateService.ToggleTaskCompleted(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			logger.Error("toggle task error: not found", slog.Int64("task_id", id))
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task not found", nil)
			return
		}
		logger.Error("toggle task error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error toggling task", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := parseID(r)
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.stateService.DeleteTask(ctx, id); err != nil {
		logger.Error("delete task error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error deleting task", nil)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("task deleted", slog.Int64("task_id", id))
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateHabitRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create habit error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.stateService.AddHabit(ctx, &service.CreateHabitRequest{
		Title: req.Title,
		Goal:  req.Goal,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("create habit error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "title and a goal between 1 and 7 are required", err)
			return
		}
		logger.Error("create habit error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error creating habit", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created", slog.Int64("habit_id", habit.ID))
}

func (s *Server) ListHabits(w http.ResponseWriter, r *http.Request) {
	state := s.stateService.Snapshot()
	habits := make([]HabitWithSummary, 0, len(state.Habits))
	for i := range state.Habits {
		habits = append(habits, HabitWithSummary{
			Habit:   state.Habits[i],
			Summary: service.HabitWeeklySummary(&state.Habits[i]),
		})
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ListHabitsResponse{
		Habits:     habits,
		TodayIndex: service.TodayIndex(time.Now()),
	})
}

func (s *Server) ToggleHabitDay(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := parseID(r)
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id", nil)
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid day index", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.stateService.ToggleHabitDay(ctx, id, day)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrDayOutOfRange):
			logger.Error("toggle habit day error: day out of range", slog.Int("day", day))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "day index must be between 0 and 6", nil)
		case errors.Is(err, errorvalues.ErrHabitNotFound):
			logger.Error("toggle habit day error: not found", slog.Int64("habit_id", id))
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit not found", nil)
		default:
			logger.Error("toggle habit day error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error toggling habit day", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := parseID(r)
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.stateService.DeleteHabit(ctx, id); err != nil {
		logger.Error("delete habit error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error deleting habit", nil)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("habit deleted", slog.Int64("habit_id", id))
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := s.stateService.Snapshot()
	summary := service.DashboardSummary(state, service.TodayIndex(time.Now()))
	httputil.WriteJSONResponse(w, http.StatusOK, summary)
}

func (s *Server) ListResources(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	resources, err := s.catalogService.Resources()
	if err != nil {
		logger.Error("list resources error: catalog unavailable", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "failed to load resources", nil)
		return
	}
	query := r.URL.Query()
	filtered := service.FilterResources(resources, query.Get("query"), query.Get("category"))
	httputil.WriteJSONResponse(w, http.StatusOK, ListResourcesResponse{
		Resources: filtered,
		Favorites: s.stateService.Snapshot().Favorites,
	})
}

func (s *Server) ListResourceCategories(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	resources, err := s.catalogService.Resources()
	if err != nil {
		logger.Error("list resource categories error: catalog unavailable", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "failed to load resources", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"categories": service.DistinctResourceCategories(resources),
	})
}

func (s *Server) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := parseID(r)
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid resource id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	favorite, err := s.stateService.ToggleFavorite(ctx, id)
	if err != nil {
		logger.Error("toggle favorite error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error toggling favorite", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"resource_id": id,
		"favorite":    favorite,
	})
}

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, s.stateService.Snapshot().Settings)
}

func (s *Server) SetTheme(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req SetThemeRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("set theme error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.stateService.SetTheme(ctx, req.Theme); err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("set theme error: unknown theme", slog.String("theme", req.Theme))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "theme must be light or dark", nil)
			return
		}
		logger.Error("set theme error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error setting theme", nil)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("theme set", slog.String("theme", req.Theme))
}

func (s *Server) ResetAll(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	s.stateService.ResetAll(ctx)
	httputil.WriteNoContent(w)
	logger.Info("state reset")
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
