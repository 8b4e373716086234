package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shiftbot/backend/internal/tracking"
)

// maxConcurrentFetches bounds parallel Sheets API calls during the daily
// reminder sweep.
const maxConcurrentFetches = 3

// categoryOrder fixes the per-customer listing order in reminder
// messages.
var categoryOrder = []tracking.Category{
	tracking.CategorySignup,
	tracking.CategoryVerification,
	tracking.CategoryDeposit,
	tracking.CategoryWager,
	tracking.CategoryProgress,
	tracking.CategoryVIP,
	tracking.CategoryOther,
}

// sendTaskReminders fetches every employee's Tracking sheet, analyzes
// outstanding work and posts one reminder message per employee with
// pending tasks. Fetches run concurrently; sends stay sequential so the
// channel order is stable.
func (s *Scheduler) sendTaskReminders(ctx context.Context) {
	if s.cfg.ReminderChannelID == "" {
		s.logger.Warn("No reminder channel configured, skipping task reminders")
		return
	}

	employees := make([]string, 0, len(s.dir.Sheets))
	for username := range s.dir.Sheets {
		employees = append(employees, username)
	}
	sort.Strings(employees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	messages := make([]string, len(employees))
	for i, employee := range employees {
		i, employee := i, employee
		g.Go(func() error {
			snapshot, err := s.sheets.TrackingSnapshot(gctx, employee)
			if err != nil {
				s.logger.Error("Task reminder fetch failed",
					zap.String("employee", employee),
					zap.Error(err),
				)
				return nil
			}

			analysis := s.trackCfg.Analyze(snapshot)
			if analysis.Total() == 0 {
				s.logger.Info("No pending tasks", zap.String("employee", employee))
				return nil
			}
			messages[i] = s.formatTaskReminder(employee, analysis)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	sent := 0
	for _, msg := range messages {
		if msg == "" {
			continue
		}
		if err := s.notifier.Send(s.cfg.ReminderChannelID, msg); err != nil {
			s.logger.Error("Task reminder send failed", zap.Error(err))
			continue
		}
		sent++
	}
	s.logger.Info("Daily task reminders sent", zap.Int("messages", sent))
}

// formatTaskReminder renders one employee's outstanding work grouped by
// customer.
func (s *Scheduler) formatTaskReminder(employee string, analysis *tracking.Analysis) string {
	mention := employee
	if id := s.dir.DiscordID(employee); id != "" {
		mention = "<@" + id + ">"
	}

	name := employee
	if friendly := s.dir.FriendlyName(employee); friendly != "" {
		name = strings.ToUpper(friendly[:1]) + friendly[1:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Daily Task Reminder - %s's Tracking Sheet\n\n", mention, name)
	b.WriteString("📋 **Tasks Needing Attention:**\n\n")

	customers := 0
	total := 0
	for _, subject := range analysis.Subjects {
		byCategory := analysis.TasksFor(subject)
		if len(byCategory) == 0 {
			continue
		}
		customers++

		fmt.Fprintf(&b, "**%s:**\n", subject)
		for _, category := range categoryOrder {
			for _, task := range byCategory[category] {
				fmt.Fprintf(&b, "• %s - %s\n", task.PrimaryLabel, s.trackCfg.Describe(task.Status))
				total++
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Total:** %d customers with %d pending tasks", customers, total)
	return b.String()
}
