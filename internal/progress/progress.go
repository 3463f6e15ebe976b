// Package progress turns flat task records into per-day and whole-range
// completion statistics. All functions are pure; callers bound the input
// set by querying the store for a date range first.
package progress

import (
	"math"
	"sort"

	"github.com/beconsistent/consistent-api/internal/model"
)

type dayCount struct {
	total     int
	completed int
}

func groupByDay(tasks []model.Task) map[string]*dayCount {
	byDay := make(map[string]*dayCount)
	for _, t := range tasks {
		c := byDay[t.Date]
		if c == nil {
			c = &dayCount{}
			byDay[t.Date] = c
		}
		c.total++
		if t.IsCompleted {
			c.completed++
		}
	}
	return byDay
}

// percent is round-half-up: 2 of 3 completed is 67, not 66.
func percent(completed, total int) int {
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// DailyPercentages maps each day-key with at least one task to its
// completion percentage. Days without tasks are absent from the result:
// "no data" is not 0%.
func DailyPercentages(tasks []model.Task) map[string]int {
	out := make(map[string]int)
	for day, c := range groupByDay(tasks) {
		out[day] = percent(c.completed, c.total)
	}
	return out
}

// Summary computes range-wide totals and streaks over the task set.
//
// A day counts toward a streak only when it has at least one task and
// every task is completed. The scan walks days with data in ascending
// order; any day that is not fully complete resets the current streak,
// so a sparse or incomplete tail leaves CurrentStreak at 0.
func Summary(tasks []model.Task) model.MonthlySummary {
	byDay := groupByDay(tasks)

	s := model.MonthlySummary{CompletedDates: []string{}}
	for _, t := range tasks {
		s.TotalTasks++
		if t.IsCompleted {
			s.CompletedTasks++
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	running := 0
	for _, day := range days {
		c := byDay[day]
		if c.total > 0 && c.completed == c.total {
			running++
			s.CompletedDates = append(s.CompletedDates, day)
			s.CurrentStreak = running
			if running > s.BestStreak {
				s.BestStreak = running
			}
		} else {
			running = 0
			s.CurrentStreak = 0
		}
	}

	s.DaysCompleted = len(s.CompletedDates)
	return s
}

// Band buckets a day's percentage for the calendar heat map. A nil
// percent means the day had no tasks at all.
func Band(pct *int) string {
	switch {
	case pct == nil:
		return "no-data"
	case *pct >= 100:
		return "complete"
	case *pct >= 75:
		return "high"
	case *pct >= 50:
		return "medium"
	case *pct > 0:
		return "low"
	default:
		return "none"
	}
}
