// Package scheduler runs the time-triggered notification jobs: a
// per-minute reminder/report tick and a monthly digest. Delivery is
// at-most-once and best-effort; a tick missed while the process is down
// is simply skipped.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/beconsistent/consistent-api/internal/mail"
	"github.com/beconsistent/consistent-api/internal/model"
	"github.com/beconsistent/consistent-api/internal/progress"
	"github.com/beconsistent/consistent-api/internal/repository"
)

const clockLayout = "15:04"

type Notifier struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	mailer mail.Sender
	logger *slog.Logger
	cron   *cron.Cron
}

func NewNotifier(users repository.UserRepository, tasks repository.TaskRepository, mailer mail.Sender, logger *slog.Logger) *Notifier {
	return &Notifier{
		users:  users,
		tasks:  tasks,
		mailer: mailer,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start registers the cron entries and begins ticking. Jobs run with
// local wall-clock time; user times are naive "HH:MM" strings.
func (n *Notifier) Start() error {
	if _, err := n.cron.AddFunc("* * * * *", func() {
		n.runTick(context.Background(), time.Now())
	}); err != nil {
		return fmt.Errorf("failed to schedule notifier tick: %w", err)
	}

	if _, err := n.cron.AddFunc("0 6 1 * *", func() {
		n.runMonthlyDigest(context.Background(), time.Now())
	}); err != nil {
		return fmt.Errorf("failed to schedule monthly digest: %w", err)
	}

	n.cron.Start()
	n.logger.Info("notifier started")
	return nil
}

// Stop halts future ticks and waits for in-flight jobs to finish.
func (n *Notifier) Stop() {
	<-n.cron.Stop().Done()
	n.logger.Info("notifier stopped")
}

// runTick matches users whose reminder or report time equals the
// current minute and notifies each one independently. A failure for one
// user never blocks the others; the tick always completes.
func (n *Notifier) runTick(ctx context.Context, now time.Time) {
	hhmm := now.Format(clockLayout)
	today := now.Format(model.DayKeyLayout)

	users, err := n.users.FindByNotifyTime(ctx, hhmm)
	if err != nil {
		n.logger.Error("notifier tick: user query failed", "time", hhmm, "error", err)
		return
	}

	var wg sync.WaitGroup
	for _, user := range users {
		user := user
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Equal reminder and report times fire both on purpose.
			if user.ReminderTime == hhmm {
				n.sendReminder(ctx, user)
			}
			if user.ReportTime == hhmm {
				n.sendDailyReport(ctx, user, today)
			}
		}()
	}
	wg.Wait()
}

func greeting(hour int) string {
	switch {
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

func (n *Notifier) sendReminder(ctx context.Context, user model.User) {
	hourStr, _, _ := strings.Cut(user.ReminderTime, ":")
	hour, _ := strconv.Atoi(hourStr)

	body := fmt.Sprintf(
		"Good %s %s,\n\nDon't forget to check your Be Consistent tasks today!",
		greeting(hour), user.Name,
	)

	if err := n.mailer.Send(ctx, user.Email, "Daily Task Reminder", body, ""); err != nil {
		n.logger.Error("reminder failed", "user", user.Email, "error", err)
		return
	}
	n.logger.Info("reminder sent", "user", user.Email, "time", user.ReminderTime)
}

func (n *Notifier) sendDailyReport(ctx context.Context, user model.User, today string) {
	tasks, err := n.tasks.List(ctx, repository.TaskListFilter{
		OwnerKey: user.Email,
		Date:     today,
	})
	if err != nil {
		n.logger.Error("report failed: task query", "user", user.Email, "error", err)
		return
	}

	total := len(tasks)
	completed := 0
	for _, t := range tasks {
		if t.IsCompleted {
			completed++
		}
	}
	pct := 0
	if total > 0 {
		pct = progress.DailyPercentages(tasks)[today]
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nToday you completed %d%% of your tasks (%d/%d). Keep it up!",
		user.Name, pct, completed, total,
	)

	if err := n.mailer.Send(ctx, user.Email, "Daily Summary", body, ""); err != nil {
		n.logger.Error("report failed", "user", user.Email, "error", err)
		return
	}
	n.logger.Info("report sent", "user", user.Email, "completed", completed, "total", total)
}

// runMonthlyDigest mails every user the count of distinct days in the
// previous calendar month that had at least one completed task. Records
// are selected by day-key prefix, not interval containment.
func (n *Notifier) runMonthlyDigest(ctx context.Context, now time.Time) {
	prevMonth := now.AddDate(0, -1, 0).Format("2006-01")

	users, err := n.users.ListAll(ctx)
	if err != nil {
		n.logger.Error("monthly digest: user query failed", "error", err)
		return
	}

	for _, user := range users {
		tasks, err := n.tasks.ListByMonthPrefix(ctx, user.Email, prevMonth)
		if err != nil {
			n.logger.Error("monthly digest: task query failed", "user", user.Email, "error", err)
			continue
		}

		days := make(map[string]struct{})
		for _, t := range tasks {
			if t.IsCompleted {
				days[t.Date] = struct{}{}
			}
		}

		body := fmt.Sprintf(
			"Hi %s,\n\nLast month you had %d days with completed tasks. Keep going strong!",
			user.Name, len(days),
		)
		if err := n.mailer.Send(ctx, user.Email, "Monthly Report", body, ""); err != nil {
			n.logger.Error("monthly digest failed", "user", user.Email, "error", err)
			continue
		}
		n.logger.Info("monthly digest sent", "user", user.Email, "days_completed", len(days))
	}
}
