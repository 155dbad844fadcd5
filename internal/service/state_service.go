package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	errorvalues "github.com/momentumapp/momentum/internal/error_values"
	"github.com/momentumapp/momentum/internal/repository"
	"github.com/momentumapp/momentum/pkg/entity"
)

// StateService owns the one RootState instance for the process lifetime.
// All mutations run under one mutex, so there is exactly one writer and
// every read happens-after the mutation that produced it. Every mutation
// persists the full state before returning; a failed write is logged and
// swallowed, with the in-memory state staying authoritative until shutdown.
type StateService struct {
	repo repository.StateRepositoryI

	mu     sync.Mutex
	state  *entity.RootState
	lastID int64

	now func() time.Time
}

func NewStateService(stateRepo repository.StateRepositoryI) *StateService {
	if stateRepo == nil {
		log.Fatal("provided nil stateRepo")
	}
	return &StateService{
		repo:  stateRepo,
		state: stateRepo.Load(context.Background()),
		now:   time.Now,
	}
}

// NewStateServiceWithClock pins the wall clock, for week anchoring and id
// generation in tests.
func NewStateServiceWithClock(stateRepo repository.StateRepositoryI, now func() time.Time) *StateService {
	sv := NewStateService(stateRepo)
	sv.now = now
	return sv
}

// nextID mirrors the millisecond-clock id scheme of the persisted format:
// time-derived, bumped on collision so it stays monotonic within a session.
func (sv *StateService) nextID() int64 {
	id := sv.now().UnixMilli()
	if id <= sv.lastID {
		id = sv.lastID + 1
	}
	sv.lastID = id
	return id
}

func (sv *StateService) persist(ctx context.Context) {
	if err := sv.repo.Save(ctx, sv.state); err != nil {
		slog.Warn("state save failed, in-memory state stays authoritative", slog.String("error", err.Error()))
	}
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		joined := errorvalues.ErrValidation
		for _, fieldErr := range validationErrors {
			joined = errors.Join(joined, fieldErr)
		}
		return joined
	}
	return errors.New("validation unexpected error: " + err.Error())
}

func (sv *StateService) AddTask(ctx context.Context, req *CreateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	task := entity.Task{
		ID:          sv.nextID(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
		Category:    req.Category,
		Completed:   false,
	}
	sv.state.Tasks = append(sv.state.Tasks, task)
	sv.persist(ctx)
	return &task, nil
}

func (sv *StateService) UpdateTask(ctx context.Context, id int64, req *UpdateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	idx := sv.taskIndex(id)
	if idx < 0 {
		return nil, errorvalues.ErrTaskNotFound
	}
	t := &sv.state.Tasks[idx]
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate != nil {
		t.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	sv.persist(ctx)
	updated := *t
	return &updated, nil
}

func (sv *StateService) ToggleTaskCompleted(ctx context.Context, id int64) (*entity.Task, error) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	idx := sv.taskIndex(id)
	if idx < 0 {
		return nil, errorvalues.ErrTaskNotFound
	}
	sv.state.Tasks[idx].Completed = !sv.state.Tasks[idx].Completed
	sv.persist(ctx)
	toggled := sv.state.Tasks[idx]
	return &toggled, nil
}

func (sv *StateService) DeleteTask(ctx context.Context, id int64) error {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	idx := sv.taskIndex(id)
	if idx < 0 {
		return nil
	}
	sv.state.Tasks = append(sv.state.Tasks[:idx], sv.state.Tasks[idx+1:]...)
	sv.persist(ctx)
	return nil
}

func (sv *StateService) AddHabit(ctx context.Context, req *CreateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	habit := entity.Habit{
		ID:        sv.nextID(),
		Title:     req.Title,
		Goal:      req.Goal,
		Progress:  make([]bool, entity.DaysPerWeek),
		WeekStart: WeekStart(sv.now()),
	}
	sv.state.Habits = append(sv.state.Habits, habit)
	sv.persist(ctx)
	created := habit
	created.Progress = append([]bool(nil), habit.Progress...)
	return &created, nil
}

func (sv *StateService) ToggleHabitDay(ctx context.Context, id int64, dayIndex int) (*entity.Habit, error) {
	if dayIndex < 0 || dayIndex >= entity.DaysPerWeek {
		return nil, errorvalues.ErrDayOutOfRange
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	idx := sv.habitIndex(id)
	if idx < 0 {
		return nil, errorvalues.ErrHabitNotFound
	}
	h := &sv.state.Habits[idx]
	h.Progress[dayIndex] = !h.Progress[dayIndex]
	sv.persist(ctx)
	toggled := *h
	toggled.Progress = append([]bool(nil), h.Progress...)
	return &toggled, nil
}

func (sv *StateService) DeleteHabit(ctx context.Context, id int64) error {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	idx := sv.habitIndex(id)
	if idx < 0 {
		return nil
	}
	sv.state.Habits = append(sv.state.Habits[:idx], sv.state.Habits[idx+1:]...)
	sv.persist(ctx)
	return nil
}

// ToggleFavorite flips membership of resourceID in the favorites set and
// reports the resulting membership. Stale ids referencing resources gone
// from the catalog are legal and inert.
func (sv *StateService) ToggleFavorite(ctx context.Context, resourceID int64) (bool, error) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	for i, fav := range sv.state.Favorites {
		if fav == resourceID {
			sv.state.Favorites = append(sv.state.Favorites[:i], sv.state.Favorites[i+1:]...)
			sv.persist(ctx)
			return false, nil
		}
	}
	sv.state.Favorites = append(sv.state.Favorites, resourceID)
	sv.persist(ctx)
	return true, nil
}

func (sv *StateService) SetTheme(ctx context.Context, theme string) error {
	switch theme {
	case entity.ThemeLight, entity.ThemeDark:
	default:
		return errors.Join(errorvalues.ErrValidation, errors.New("unknown theme "+theme))
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.state.Settings.Theme = theme
	sv.persist(ctx)
	return nil
}

func (sv *StateService) ResetAll(ctx context.Context) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.state = sv.repo.Reset(ctx)
}

func (sv *StateService) Snapshot() *entity.RootState {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.state.Clone()
}

func (sv *StateService) taskIndex(id int64) int {
	for i := range sv.state.Tasks {
		if sv.state.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (sv *StateService) habitIndex(id int64) int {
	for i := range sv.state.Habits {
		if sv.state.Habits[i].ID == id {
			return i
		}
	}
	return -1
}
