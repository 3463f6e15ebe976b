package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beconsistent/consistent-api/internal/model"
	"github.com/beconsistent/consistent-api/internal/progress"
	"github.com/beconsistent/consistent-api/internal/repository"
)

type CreateTaskInput struct {
	OwnerKey string
	Title    string
	Date     string // day-key
}

type UpdateTaskInput struct {
	Title       *string
	Date        *string
	IsCompleted *bool
}

type CopyIncompleteResult struct {
	Count int `json:"count"`
}

// DayPercent is one entry of the monthly percentages view; Band is the
// color bucket consumers render the calendar with.
type DayPercent struct {
	Percent int    `json:"percent"`
	Band    string `json:"band"`
}

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (model.Task, error) {
	if input.OwnerKey == "" {
		return model.Task{}, fmt.Errorf("%w: owner_key is required", ErrInvalidInput)
	}
	if input.Title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !model.ValidDayKey(input.Date) {
		return model.Task{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	task := model.Task{
		OwnerKey: input.OwnerKey,
		Title:    input.Title,
		Date:     input.Date,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

func (s *TaskService) Update(ctx context.Context, ownerKey, taskID string, input UpdateTaskInput) (model.Task, error) {
	existing, err := s.repo.GetByID(ctx, ownerKey, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task for update: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return model.Task{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		existing.Title = *input.Title
	}
	if input.Date != nil {
		if !model.ValidDayKey(*input.Date) {
			return model.Task{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		existing.Date = *input.Date
	}
	if input.IsCompleted != nil {
		existing.IsCompleted = *input.IsCompleted
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

func (s *TaskService) ToggleComplete(ctx context.Context, ownerKey, taskID string) (model.Task, error) {
	existing, err := s.repo.GetByID(ctx, ownerKey, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task for toggle: %w", err)
	}

	existing.IsCompleted = !existing.IsCompleted

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to toggle task: %w", err)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerKey, taskID string) error {
	if err := s.repo.Delete(ctx, ownerKey, taskID); err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) ListByDay(ctx context.Context, ownerKey, day string, onlyIncomplete bool) ([]model.Task, error) {
	if !model.ValidDayKey(day) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	tasks, err := s.repo.List(ctx, repository.TaskListFilter{
		OwnerKey:       ownerKey,
		Date:           day,
		OnlyIncomplete: onlyIncomplete,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CopyIncomplete duplicates every incomplete task of fromDay onto toDay,
// reset to not-completed. Copying nothing is not an error.
func (s *TaskService) CopyIncomplete(ctx context.Context, ownerKey, fromDay, toDay string) (CopyIncompleteResult, error) {
	if !model.ValidDayKey(fromDay) || !model.ValidDayKey(toDay) {
		return CopyIncompleteResult{}, fmt.Errorf("%w: dates must be YYYY-MM-DD", ErrInvalidInput)
	}

	incomplete, err := s.repo.List(ctx, repository.TaskListFilter{
		OwnerKey:       ownerKey,
		Date:           fromDay,
		OnlyIncomplete: true,
	})
	if err != nil {
		return CopyIncompleteResult{}, fmt.Errorf("failed to list incomplete tasks: %w", err)
	}
	if len(incomplete) == 0 {
		return CopyIncompleteResult{}, nil
	}

	copies := make([]model.Task, 0, len(incomplete))
	for _, t := range incomplete {
		copies = append(copies, model.Task{
			OwnerKey: ownerKey,
			Title:    t.Title,
			Date:     toDay,
		})
	}

	n, err := s.repo.CreateMany(ctx, copies)
	if err != nil {
		return CopyIncompleteResult{}, fmt.Errorf("failed to copy tasks: %w", err)
	}
	return CopyIncompleteResult{Count: n}, nil
}

// monthRange converts "YYYY-MM" into the [first-of-month, first-of-next-month)
// day-key interval.
func monthRange(yearMonth string) (from, to string, err error) {
	start, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return "", "", fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}
	return start.Format(model.DayKeyLayout),
		start.AddDate(0, 1, 0).Format(model.DayKeyLayout), nil
}

func (s *TaskService) monthTasks(ctx context.Context, ownerKey, yearMonth string) ([]model.Task, error) {
	from, to, err := monthRange(yearMonth)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.List(ctx, repository.TaskListFilter{
		OwnerKey: ownerKey,
		FromDate: from,
		ToDate:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list month tasks: %w", err)
	}
	return tasks, nil
}

// MonthlyPercentages returns the per-day completion view for a month.
// Days without tasks are absent; the UI renders those as "no-data".
func (s *TaskService) MonthlyPercentages(ctx context.Context, ownerKey, yearMonth string) (map[string]DayPercent, error) {
	tasks, err := s.monthTasks(ctx, ownerKey, yearMonth)
	if err != nil {
		return nil, err
	}

	out := make(map[string]DayPercent)
	for day, pct := range progress.DailyPercentages(tasks) {
		p := pct
		out[day] = DayPercent{Percent: p, Band: progress.Band(&p)}
	}
	return out, nil
}

func (s *TaskService) MonthlySummary(ctx context.Context, ownerKey, yearMonth string) (model.MonthlySummary, error) {
	tasks, err := s.monthTasks(ctx, ownerKey, yearMonth)
	if err != nil {
		return model.MonthlySummary{}, err
	}
	return progress.Summary(tasks), nil
}
