// Package scheduler drives the time-based jobs: morning baselines, the
// evening shift report, daily task reminders and due user reminders.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"shiftbot/backend/internal/permissions"
	"shiftbot/backend/internal/report"
	"shiftbot/backend/internal/store"
	"shiftbot/backend/internal/tracking"
	"shiftbot/backend/pkg/config"
	"shiftbot/backend/pkg/logger"
)

// Notifier delivers scheduled messages to Discord.
type Notifier interface {
	Send(channelID, content string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// ReminderStore provides the due-reminder queue.
type ReminderStore interface {
	DuePendingReminders(ctx context.Context, now time.Time) ([]store.Reminder, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// Reporter runs the snapshot and diff cycle.
type Reporter interface {
	TakeBaselines(ctx context.Context)
	CollectReports(ctx context.Context) []report.EmployeeReport
}

// SheetSource reads an employee's Tracking worksheet.
type SheetSource interface {
	TrackingSnapshot(ctx context.Context, employee string) (tracking.Snapshot, error)
}

// Scheduler checks the clock once a minute and fires each daily job at
// most once per day. Jobs fire at the first tick inside their window, so
// a restart later in the hour still runs them.
type Scheduler struct {
	cfg       *config.Config
	dir       *permissions.Directory
	reporter  Reporter
	reminders ReminderStore
	sheets    SheetSource
	notifier  Notifier
	trackCfg  tracking.Config
	now       func() time.Time
	fired     map[string]string
	logger    *zap.Logger
}

// New creates a scheduler.
func New(cfg *config.Config, dir *permissions.Directory, reporter Reporter, reminders ReminderStore, sheetSource SheetSource, notifier Notifier) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		dir:       dir,
		reporter:  reporter,
		reminders: reminders,
		sheets:    sheetSource,
		notifier:  notifier,
		trackCfg:  tracking.DefaultConfig(),
		now:       time.Now,
		fired:     make(map[string]string),
		logger:    logger.Get(),
	}
}

// Run ticks once a minute until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	s.logger.Info("Scheduler started",
		zap.Int("baseline_hour", s.cfg.BaselineHour),
		zap.Int("report_hour", s.cfg.ReportHour),
		zap.String("reminder_time", fmt.Sprintf("%02d:%02d", s.cfg.ReminderHour, s.cfg.ReminderMinute)),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduling pass. Exported so tests can drive the clock.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.now()

	s.dispatchDueReminders(ctx, now)

	if s.jobDue("baselines", now, s.cfg.BaselineHour, 0) {
		s.logger.Info("Taking morning baselines")
		s.reporter.TakeBaselines(ctx)
	}
	if s.jobDue("shift_report", now, s.cfg.ReportHour, 0) {
		s.sendShiftReport(ctx, now)
	}
	if s.jobDue("task_reminders", now, s.cfg.ReminderHour, s.cfg.ReminderMinute) {
		s.sendTaskReminders(ctx)
	}
}

// jobDue reports whether a daily job should fire now and records the
// fire so it cannot repeat within the same day.
func (s *Scheduler) jobDue(job string, now time.Time, hour, minute int) bool {
	if now.Hour() != hour || now.Minute() < minute {
		return false
	}
	day := now.Format("2006-01-02")
	if s.fired[job] == day {
		return false
	}
	s.fired[job] = day
	return true
}

// dispatchDueReminders sends every pending reminder whose time has
// arrived. A failed send leaves the reminder pending so the next tick
// retries it.
func (s *Scheduler) dispatchDueReminders(ctx context.Context, now time.Time) {
	due, err := s.reminders.DuePendingReminders(ctx, now)
	if err != nil {
		s.logger.Error("Due reminder query failed", zap.Error(err))
		return
	}

	for _, r := range due {
		channelID := r.ChannelID
		if channelID == "" {
			channelID = s.cfg.ReminderChannelID
		}
		if channelID == "" {
			s.logger.Warn("Reminder has no channel, skipping", zap.Int64("id", r.ID))
			continue
		}

		mention := r.TargetUsername
		if r.TargetUserID != "" {
			mention = "<@" + r.TargetUserID + ">"
		}

		if err := s.notifier.Send(channelID, fmt.Sprintf("%s ⏰ Reminder: %s", mention, r.Text)); err != nil {
			s.logger.Error("Reminder send failed",
				zap.Int64("id", r.ID),
				zap.Error(err),
			)
			continue
		}

		if err := s.reminders.MarkReminderSent(ctx, r.ID); err != nil {
			s.logger.Error("Failed to mark reminder sent",
				zap.Int64("id", r.ID),
				zap.Error(err),
			)
			continue
		}

		s.logger.Info("Reminder delivered",
			zap.Int64("id", r.ID),
			zap.String("target", r.TargetUsername),
		)
	}
}

// sendShiftReport posts the evening summary embed.
func (s *Scheduler) sendShiftReport(ctx context.Context, now time.Time) {
	if s.cfg.ReportChannelID == "" {
		s.logger.Warn("No report channel configured, skipping shift report")
		return
	}

	reports := s.reporter.CollectReports(ctx)
	embed := report.BuildEmbed(reports, s.dir, now)
	if err := s.notifier.SendEmbed(s.cfg.ReportChannelID, embed); err != nil {
		s.logger.Error("Shift report send failed", zap.Error(err))
		return
	}
	s.logger.Info("Shift report posted", zap.Int("employees", len(reports)))
}
