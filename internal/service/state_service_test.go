package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/momentumapp/momentum/internal/error_values"
	"github.com/momentumapp/momentum/internal/service"
	"github.com/momentumapp/momentum/pkg/entity"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

type mockState int

const (
	stateSuccess = iota
	stateSaveError
)

type stateRepoMock struct {
	state   mockState
	initial *entity.RootState
	saves   int
	saved   *entity.RootState
	resets  int
}

func (rmock *stateRepoMock) Load(ctx context.Context) *entity.RootState {
	if rmock.initial != nil {
		return rmock.initial.Clone()
	}
	return entity.DefaultState()
}

func (rmock *stateRepoMock) Save(ctx context.Context, state *entity.RootState) error {
	if rmock.state == stateSaveError {
		return assert.AnError
	}
	rmock.saves++
	rmock.saved = state.Clone()
	return nil
}

func (rmock *stateRepoMock) Reset(ctx context.Context) *entity.RootState {
	rmock.resets++
	return entity.DefaultState()
}

// Wednesday 2024-06-05; the anchoring Monday is 2024-06-03.
var testClock = func() time.Time {
	return time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)
}

func newTestService(mock *stateRepoMock) *service.StateService {
	return service.NewStateServiceWithClock(mock, testClock)
}

func TestAddTask(t *testing.T) {
	mock := &stateRepoMock{state: stateSuccess}
	s := newTestService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		task, err := s.AddTask(ctx, &service.CreateTaskRequest{
			Title:    "Write report",
			DueDate:  "2024-06-01",
			Priority: "high",
			Category: "work",
		})
		require.NoError(t, err)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, "high", task.Priority)
		assert.False(t, task.Completed)
		assert.NotZero(t, task.ID)
		require.NotNil(t, mock.saved)
		assert.Equal(t, 1, mock.saves)
		assert.Equal(t, []entity.Task{*task}, mock.saved.Tasks)
	})
	t.Run("missing title", func(t *testing.T) {
		_, err := s.AddTask(ctx, &service.CreateTaskRequest{DueDate: "2024-06-01"})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("missing due date", func(t *testing.T) {
		_, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "No date"})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("malformed due date", func(t *testing.T) {
		_, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "Bad date", DueDate: "tomorrow"})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("validation failure leaves state unchanged", func(t *testing.T) {
		before := s.Snapshot()
		_, err := s.AddTask(ctx, &service.CreateTaskRequest{DueDate: "2024-06-01"})
		require.Error(t, err)
		assert.Equal(t, before, s.Snapshot())
	})
	t.Run("priority defaults to medium", func(t *testing.T) {
		task, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "Untyped", DueDate: "2024-06-02"})
		require.NoError(t, err)
		assert.Equal(t, entity.PriorityMedium, task.Priority)
	})
}

func TestIDsMonotonicWithinSession(t *testing.T) {
	s := newTestService(&stateRepoMock{})
	ctx := context.Background()
	first, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "a", DueDate: "2024-06-01"})
	require.NoError(t, err)
	second, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "b", DueDate: "2024-06-01"})
	require.NoError(t, err)
	// the clock is frozen, so only the collision bump keeps ids unique
	assert.Greater(t, second.ID, first.ID)
}

func TestUpdateTask(t *testing.T) {
	mock := &stateRepoMock{}
	s := newTestService(mock)
	ctx := context.Background()
	task, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "Draft", DueDate: "2024-06-01", Category: "work"})
	require.NoError(t, err)
	_, err = s.ToggleTaskCompleted(ctx, task.ID)
	require.NoError(t, err)

	t.Run("merge preserves untouched fields", func(t *testing.T) {
		title := "Final draft"
		updated, err := s.UpdateTask(ctx, task.ID, &service.UpdateTaskRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Final draft", updated.Title)
		assert.Equal(t, task.ID, updated.ID)
		assert.Equal(t, "work", updated.Category)
		assert.True(t, updated.Completed, "completed flag survives an edit that doesn't mention it")
	})
	t.Run("explicit completed is applied", func(t *testing.T) {
		completed := false
		updated, err := s.UpdateTask(ctx, task.ID, &service.UpdateTaskRequest{Completed: &completed})
		require.NoError(t, err)
		assert.False(t, updated.Completed)
	})
	t.Run("unknown id", func(t *testing.T) {
		title := "ghost"
		_, err := s.UpdateTask(ctx, 42, &service.UpdateTaskRequest{Title: &title})
		assert.ErrorIs(t, err, errorvalues.ErrTaskNotFound)
	})
	t.Run("invalid field", func(t *testing.T) {
		bad := "critical"
		_, err := s.UpdateTask(ctx, task.ID, &service.UpdateTaskRequest{Priority: &bad})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
}

func TestToggleTaskCompleted(t *testing.T) {
	s := newTestService(&stateRepoMock{})
	ctx := context.Background()
	task, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "Flip me", DueDate: "2024-06-01"})
	require.NoError(t, err)
	toggled, err := s.ToggleTaskCompleted(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	toggled, err = s.ToggleTaskCompleted(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
	_, err = s.ToggleTaskCompleted(ctx, 42)
	assert.ErrorIs(t, err, errorvalues.ErrTaskNotFound)
}

func TestDeleteTaskIdempotent(t *testing.T) {
	s := newTestService(&stateRepoMock{})
	ctx := context.Background()
	task, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "Short lived", DueDate: "2024-06-01"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTask(ctx, task.ID))
	before := s.Snapshot()
	require.NoError(t, s.DeleteTask(ctx, task.ID))
	assert.Equal(t, before, s.Snapshot())
}

func TestAddHabit(t *testing.T) {
	mock := &stateRepoMock{}
	s := newTestService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		habit, err := s.AddHabit(ctx, &service.CreateHabitRequest{Title: "Read", Goal: 3})
		require.NoError(t, err)
		assert.Equal(t, 3, habit.Goal)
		assert.Equal(t, make([]bool, entity.DaysPerWeek), habit.Progress)
		assert.Equal(t, "2024-06-03", habit.WeekStart)
		assert.Equal(t, 1, mock.saves)
	})
	t.Run("goal above bound", func(t *testing.T) {
		_, err := s.AddHabit(ctx, &service.CreateHabitRequest{Title: "Read", Goal: 8})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("goal below bound", func(t *testing.T) {
		_, err := s.AddHabit(ctx, &service.CreateHabitRequest{Title: "Read", Goal: 0})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("missing title", func(t *testing.T) {
		_, err := s.AddHabit(ctx, &service.CreateHabitRequest{Goal: 3})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
}

func TestWeekStartAnchorsToMonday(t *testing.T) {
	// Sunday: Monday is six days prior, not the next day
	sunday := func() time.Time { return time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC) }
	s := service.NewStateServiceWithClock(&stateRepoMock{}, sunday)
	habit, err := s.AddHabit(context.Background(), &service.CreateHabitRequest{Title: "Stretch", Goal: 1})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", habit.WeekStart)
}

func TestToggleHabitDay(t *testing.T) {
	s := newTestService(&stateRepoMock{})
	ctx := context.Background()
	habit, err := s.AddHabit(ctx, &service.CreateHabitRequest{Title: "Run", Goal: 4})
	require.NoError(t, err)
	t.Run("flips independently", func(t *testing.T) {
		toggled, err := s.ToggleHabitDay(ctx, habit.ID, 2)
		require.NoError(t, err)
		assert.True(t, toggled.Progress[2])
		assert.False(t, toggled.Progress[1])
		toggled, err = s.ToggleHabitDay(ctx, habit.ID, 2)
		require.NoError(t, err)
		assert.False(t, toggled.Progress[2])
	})
	t.Run("day out of range", func(t *testing.T) {
		_, err := s.ToggleHabitDay(ctx, habit.ID, 7)
		assert.ErrorIs(t, err, errorvalues.ErrDayOutOfRange)
		_, err = s.ToggleHabitDay(ctx, habit.ID, -1)
		assert.ErrorIs(t, err, errorvalues.ErrDayOutOfRange)
	})
	t.Run("unknown habit", func(t *testing.T) {
		_, err := s.ToggleHabitDay(ctx, 42, 0)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
}

func TestDeleteHabitIdempotent(t *testing.T) {
	s := newTestService(&stateRepoMock{})
	ctx := context.Background()
	habit, err := s.AddHabit(ctx, &service.CreateHabitRequest{Title: "Gone", Goal: 2})
	require.NoError(t, err)
	require.NoError(t, s.DeleteHabit(ctx, habit.ID))
	before := s.Snapshot()
	require.NoError(t, s.DeleteHabit(ctx, habit.ID))
	assert.Equal(t, before, s.Snapshot())
}

func TestToggleFavoriteIsItsOwnInverse(t *testing.T) {
	s := newTestService(&stateRepoMock{})
	ctx := context.Background()
	before := s.Snapshot()
	favorite, err := s.ToggleFavorite(ctx, 5)
	require.NoError(t, err)
	assert.True(t, favorite)
	assert.Equal(t, []int64{5}, s.Snapshot().Favorites)
	favorite, err = s.ToggleFavorite(ctx, 5)
	require.NoError(t, err)
	assert.False(t, favorite)
	assert.Equal(t, before.Favorites, s.Snapshot().Favorites)
}

func TestSetTheme(t *testing.T) {
	s := newTestService(&stateRepoMock{})
	ctx := context.Background()
	require.NoError(t, s.SetTheme(ctx, entity.ThemeDark))
	assert.Equal(t, entity.ThemeDark, s.Snapshot().Settings.Theme)
	assert.ErrorIs(t, s.SetTheme(ctx, "sepia"), errorvalues.ErrValidation)
	assert.Equal(t, entity.ThemeDark, s.Snapshot().Settings.Theme)
}

func TestResetAll(t *testing.T) {
	mock := &stateRepoMock{}
	s := newTestService(mock)
	ctx := context.Background()
	_, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "Doomed", DueDate: "2024-06-01"})
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, 9)
	require.NoError(t, err)
	s.ResetAll(ctx)
	assert.Equal(t, 1, mock.resets)
	assert.Equal(t, entity.DefaultState(), s.Snapshot())
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	mock := &stateRepoMock{state: stateSaveError}
	s := newTestService(mock)
	ctx := context.Background()
	task, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "Survives", DueDate: "2024-06-01"})
	require.NoError(t, err, "a failed write is swallowed, not surfaced")
	assert.Equal(t, 0, mock.saves)
	snapshot := s.Snapshot()
	require.Len(t, snapshot.Tasks, 1)
	assert.Equal(t, task.ID, snapshot.Tasks[0].ID)
}

func TestEveryMutationPersists(t *testing.T) {
	mock := &stateRepoMock{}
	s := newTestService(mock)
	ctx := context.Background()
	task, err := s.AddTask(ctx, &service.CreateTaskRequest{Title: "Counted", DueDate: "2024-06-01"})
	require.NoError(t, err)
	_, err = s.ToggleTaskCompleted(ctx, task.ID)
	require.NoError(t, err)
	require.NoError(t, s.DeleteTask(ctx, task.ID))
	habit, err := s.AddHabit(ctx, &service.CreateHabitRequest{Title: "Counted too", Goal: 2})
	require.NoError(t, err)
	_, err = s.ToggleHabitDay(ctx, habit.ID, 0)
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, s.SetTheme(ctx, entity.ThemeDark))
	assert.Equal(t, 7, mock.saves)
	assert.Equal(t, s.Snapshot(), mock.saved, "storage holds exactly the latest state")
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestService(&stateRepoMock{})
	ctx := context.Background()
	habit, err := s.AddHabit(ctx, &service.CreateHabitRequest{Title: "Isolated", Goal: 2})
	require.NoError(t, err)
	snap := s.Snapshot()
	snap.Habits[0].Progress[0] = true
	snap.Tasks = append(snap.Tasks, entity.Task{ID: 1, Title: "intruder", DueDate: "2024-01-01"})
	fresh := s.Snapshot()
	require.Len(t, fresh.Habits, 1)
	assert.Equal(t, habit.ID, fresh.Habits[0].ID)
	assert.False(t, fresh.Habits[0].Progress[0])
	assert.Empty(t, fresh.Tasks)
}
