package service

import (
	"context"

	"github.com/momentumapp/momentum/pkg/entity"
)

type CreateTaskRequest struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	DueDate     string `validate:"required,calendar_date"`
	Priority    string `validate:"omitempty,oneof=low medium high"`
	Category    string `validate:"max=100"`
}

// UpdateTaskRequest merges set fields into an existing task; nil fields are
// left untouched, so id and the completed flag survive a plain edit.
type UpdateTaskRequest struct {
	Title       *string `validate:"omitempty,min=1,max=200"`
	Description *string `validate:"omitempty,max=2000"`
	DueDate     *string `validate:"omitempty,calendar_date"`
	Priority    *string `validate:"omitempty,oneof=low medium high"`
	Category    *string `validate:"omitempty,max=100"`
	Completed   *bool
}

type CreateHabitRequest struct {
	Title string `validate:"required,max=200"`
	Goal  int    `validate:"required,min=1,max=7"`
}

type StateServiceI interface {
	// Creates a task with a fresh session-unique id, completed=false
	AddTask(ctx context.Context, req *CreateTaskRequest) (*entity.Task, error)
	// Merges set fields into the task with id
	UpdateTask(ctx context.Context, id int64, req *UpdateTaskRequest) (*entity.Task, error)
	ToggleTaskCompleted(ctx context.Context, id int64) (*entity.Task, error)
	// Idempotent: an absent id is a no-op, not an error
	DeleteTask(ctx context.Context, id int64) error
	// Creates a habit with an all-false week anchored to the current Monday
	AddHabit(ctx context.Context, req *CreateHabitRequest) (*entity.Habit, error)
	ToggleHabitDay(ctx context.Context, id int64, dayIndex int) (*entity.Habit, error)
	// Idempotent, as with tasks
	DeleteHabit(ctx context.Context, id int64) error
	// Adds the resource id if absent, removes it if present
	ToggleFavorite(ctx context.Context, resourceID int64) (bool, error)
	SetTheme(ctx context.Context, theme string) error
	// Clears storage and replaces the whole state with defaults
	ResetAll(ctx context.Context)
	// Deep copy of the current state for derivations
	Snapshot() *entity.RootState
}

type CatalogServiceI interface {
	// One-time load from the external source; safe to call from a goroutine
	Load(ctx context.Context)
	// Current catalog snapshot; err is the load failure, if any
	Resources() ([]entity.Resource, error)
}
