package model

// MonthlySummary is derived from the tasks of a bounded date range; it
// is never persisted.
type MonthlySummary struct {
	TotalTasks     int      `json:"total_tasks"`
	CompletedTasks int      `json:"completed_tasks"`
	DaysCompleted  int      `json:"days_completed"`
	CurrentStreak  int      `json:"current_streak"`
	BestStreak     int      `json:"best_streak"`
	CompletedDates []string `json:"completed_dates"`
}
