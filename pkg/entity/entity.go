package entity

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DaysPerWeek is the fixed length of a habit's progress window.
const DaysPerWeek = 7

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Category    string `json:"category,omitempty"`
	Completed   bool   `json:"completed"`
}

type Habit struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Goal  int    `json:"goal"`
	// Progress holds one entry per day of the current week, Monday first.
	// Always exactly DaysPerWeek entries.
	Progress []bool `json:"progress"`
	// WeekStart is the ISO date of the Monday anchoring Progress. The core
	// never advances it past the creation week.
	WeekStart string `json:"week_start"`
}

// Resource is a read-only record supplied by the external catalog source.
type Resource struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

type Settings struct {
	Theme string `json:"theme"`
}

// RootState is the single authoritative record holding all persisted data.
// Exactly one instance exists per process; it is mutated only through the
// state service.
type RootState struct {
	Tasks     []Task   `json:"tasks"`
	Habits    []Habit  `json:"habits"`
	Favorites []int64  `json:"favorites"`
	Settings  Settings `json:"settings"`
}

func DefaultState() *RootState {
	return &RootState{
		Tasks:     []Task{},
		Habits:    []Habit{},
		Favorites: []int64{},
		Settings:  Settings{Theme: ThemeLight},
	}
}

// Clone returns a deep copy so readers can work on a snapshot while
// mutations continue on the original.
func (s *RootState) Clone() *RootState {
	c := RootState{
		Tasks:     make([]Task, len(s.Tasks)),
		Habits:    make([]Habit, len(s.Habits)),
		Favorites: make([]int64, len(s.Favorites)),
		Settings:  s.Settings,
	}
	copy(c.Tasks, s.Tasks)
	copy(c.Favorites, s.Favorites)
	for i, h := range s.Habits {
		h.Progress = append([]bool(nil), h.Progress...)
		c.Habits[i] = h
	}
	return &c
}

// Valid reports whether a loaded state has the expected shape. Anything
// failing this check is treated as corrupt storage and replaced by defaults.
func (s *RootState) Valid() bool {
	for _, t := range s.Tasks {
		if t.Title == "" || t.DueDate == "" {
			return false
		}
	}
	for _, h := range s.Habits {
		if h.Title == "" || len(h.Progress) != DaysPerWeek || h.Goal < 1 || h.Goal > DaysPerWeek {
			return false
		}
	}
	switch s.Settings.Theme {
	case ThemeLight, ThemeDark:
	default:
		return false
	}
	return true
}

// Normalize replaces nil collections with empty ones so a round-trip through
// storage never turns [] into null.
func (s *RootState) Normalize() {
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Habits == nil {
		s.Habits = []Habit{}
	}
	if s.Favorites == nil {
		s.Favorites = []int64{}
	}
}

type DashboardSummary struct {
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	CompletionRate       float64 `json:"completion_rate"`
	LongestCurrentStreak int     `json:"longest_current_streak"`
}

type HabitWeeklySummary struct {
	DaysCompleted int  `json:"days_completed"`
	GoalMet       bool `json:"goal_met"`
}
