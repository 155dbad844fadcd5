package service

import (
	"sort"
	"strings"
	"time"

	"github.com/momentumapp/momentum/pkg/entity"
)

// Derivations are pure projections of a RootState snapshot. They are
// recomputed on demand rather than cached: data volumes are tiny and a
// stale cache is a worse bug than the recomputation cost.

const (
	StatusAll       = "all"
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

const (
	SortByDueDate  = "due_date"
	SortByPriority = "priority"
	SortByTitle    = "title"
)

// CategoryAll is the sentinel meaning "no category restriction".
const CategoryAll = "all"

type TaskQuery struct {
	Status   string
	Category string
	SortKey  string
}

var priorityRank = map[string]int{
	entity.PriorityHigh:   0,
	entity.PriorityMedium: 1,
	entity.PriorityLow:    2,
}

// FilterAndSortTasks filters by status and exact category, then sorts by the
// requested key. Sorting is stable: ties keep insertion order. Unknown status,
// category or sort values degrade to "all"/insertion order instead of failing.
func FilterAndSortTasks(state *entity.RootState, q TaskQuery) []entity.Task {
	out := make([]entity.Task, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		switch q.Status {
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		case StatusPending:
			if t.Completed {
				continue
			}
		}
		if q.Category != "" && q.Category != CategoryAll && t.Category != q.Category {
			continue
		}
		out = append(out, t)
	}
	switch q.SortKey {
	case SortByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DueDate < out[j].DueDate
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return rankPriority(out[i].Priority) < rankPriority(out[j].Priority)
		})
	case SortByTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Title < out[j].Title
		})
	}
	return out
}

func rankPriority(p string) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// DistinctTaskCategories lists "all" followed by each non-empty task category
// in first-seen order, for populating a category filter.
func DistinctTaskCategories(state *entity.RootState) []string {
	out := []string{CategoryAll}
	seen := make(map[string]bool)
	for _, t := range state.Tasks {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	}
	return out
}

func DashboardSummary(state *entity.RootState, todayIndex int) entity.DashboardSummary {
	summary := entity.DashboardSummary{
		TotalTasks: len(state.Tasks),
	}
	for _, t := range state.Tasks {
		if t.Completed {
			summary.CompletedTasks++
		}
	}
	if summary.TotalTasks > 0 {
		summary.CompletionRate = float64(summary.CompletedTasks) / float64(summary.TotalTasks)
	}
	for _, h := range state.Habits {
		if streak := CurrentStreak(h.Progress, todayIndex); streak > summary.LongestCurrentStreak {
			summary.LongestCurrentStreak = streak
		}
	}
	return summary
}

func HabitWeeklySummary(habit *entity.Habit) entity.HabitWeeklySummary {
	summary := entity.HabitWeeklySummary{}
	for _, done := range habit.Progress {
		if done {
			summary.DaysCompleted++
		}
	}
	summary.GoalMet = summary.DaysCompleted >= habit.Goal
	return summary
}

// CurrentStreak is the longest run of consecutive completed days within
// progress[0..todayIndex]. A false resets the run; a run extending through
// today counts fully. todayIndex is clamped to the week bounds.
func CurrentStreak(progress []bool, todayIndex int) int {
	if todayIndex < 0 {
		todayIndex = 0
	}
	if todayIndex > entity.DaysPerWeek-1 {
		todayIndex = entity.DaysPerWeek - 1
	}
	if todayIndex > len(progress)-1 {
		todayIndex = len(progress) - 1
	}
	longest, run := 0, 0
	for i := 0; i <= todayIndex; i++ {
		if progress[i] {
			run++
		} else {
			run = 0
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// TodayIndex maps t's weekday onto the Monday-first progress window:
// 0=Monday .. 6=Sunday. Derived from the calendar alone, never from a
// habit's stored WeekStart, so displayed progress always aligns to real days.
func TodayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart is the ISO date of the most recent Monday: Sunday anchors six
// days back, any other day anchors weekday-1 days back.
func WeekStart(t time.Time) string {
	diff := -((int(t.Weekday()) + 6) % 7)
	return t.AddDate(0, 0, diff).Format("2006-01-02")
}

// FilterResources matches query case-insensitively against title and
// description, combined with an exact category filter; "all" or empty
// category means no restriction.
func FilterResources(resources []entity.Resource, query, category string) []entity.Resource {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]entity.Resource, 0, len(resources))
	for _, r := range resources {
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Title), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			continue
		}
		if category != "" && category != CategoryAll && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DistinctResourceCategories lists "all" followed by each distinct resource
// category in first-seen order.
func DistinctResourceCategories(resources []entity.Resource) []string {
	out := []string{CategoryAll}
	seen := make(map[string]bool)
	for _, r := range resources {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}
