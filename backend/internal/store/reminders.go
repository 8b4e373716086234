package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	apperrors "shiftbot/backend/pkg/errors"
)

// Reminder statuses.
const (
	ReminderStatusPending   = "pending"
	ReminderStatusSent      = "sent"
	ReminderStatusCancelled = "cancelled"
)

// Reminder is a scheduled one-shot notification.
type Reminder struct {
	ID              int64
	CreatorUserID   string
	CreatorUsername string
	TargetUserID    string
	TargetUsername  string
	Text            string
	Time            time.Time
	ChannelID       string
	GuildID         string
	Status          string
	CreatedAt       time.Time
	SentAt          *time.Time
}

// CreateReminder inserts a pending reminder and returns its ID.
func (s *Store) CreateReminder(ctx context.Context, r *Reminder) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders
		 (creator_user_id, creator_username, target_user_id, target_username,
		  reminder_text, reminder_time, channel_id, guild_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CreatorUserID, r.CreatorUsername, r.TargetUserID, r.TargetUsername,
		r.Text, r.Time.UTC(), r.ChannelID, r.GuildID, ReminderStatusPending, time.Now().UTC(),
	)
	if err != nil {
		return 0, apperrors.NewStoreQueryFailed("create reminder", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStoreQueryFailed("create reminder", err)
	}

	s.logger.Info("Reminder created",
		zap.Int64("id", id),
		zap.String("creator", r.CreatorUsername),
		zap.String("target", r.TargetUsername),
		zap.Time("time", r.Time),
	)
	return id, nil
}

// DuePendingReminders returns pending reminders whose time has arrived,
// earliest first.
func (s *Store) DuePendingReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, creator_user_id, creator_username,
		        COALESCE(target_user_id, ''), target_username,
		        reminder_text, reminder_time, channel_id, COALESCE(guild_id, ''),
		        status, created_at, sent_at
		 FROM reminders
		 WHERE status = ? AND reminder_time <= ?
		 ORDER BY reminder_time`,
		ReminderStatusPending, now.UTC(),
	)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("due reminders", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// MarkReminderSent transitions a reminder to sent.
func (s *Store) MarkReminderSent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET status = ?, sent_at = ? WHERE id = ?`,
		ReminderStatusSent, time.Now().UTC(), id,
	)
	if err != nil {
		return apperrors.NewStoreQueryFailed("mark reminder sent", err)
	}
	return nil
}

// CancelReminder cancels a reminder when the requester created it or is
// its target.
func (s *Store) CancelReminder(ctx context.Context, id int64, username string) error {
	var creator, target string
	err := s.db.QueryRowContext(ctx,
		`SELECT creator_username, target_username FROM reminders WHERE id = ?`, id,
	).Scan(&creator, &target)
	if err == sql.ErrNoRows {
		return apperrors.NewReminderNotFound(id)
	}
	if err != nil {
		return apperrors.NewStoreQueryFailed("cancel reminder", err)
	}

	if creator != username && target != username {
		return apperrors.NewToolExecutionFailed("cancel_reminder",
			"only the creator or target can cancel a reminder", nil)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE reminders SET status = ? WHERE id = ?`,
		ReminderStatusCancelled, id,
	)
	if err != nil {
		return apperrors.NewStoreQueryFailed("cancel reminder", err)
	}

	s.logger.Info("Reminder cancelled", zap.Int64("id", id), zap.String("by", username))
	return nil
}

// UserReminders returns reminders created by or targeting the user,
// newest first. With includePast false only pending reminders are
// returned.
func (s *Store) UserReminders(ctx context.Context, username string, includePast bool) ([]Reminder, error) {
	query := `SELECT id, creator_user_id, creator_username,
	                 COALESCE(target_user_id, ''), target_username,
	                 reminder_text, reminder_time, channel_id, COALESCE(guild_id, ''),
	                 status, created_at, sent_at
	          FROM reminders
	          WHERE (creator_username = ? OR target_username = ?)`
	args := []interface{}{username, username}
	if !includePast {
		query += ` AND status = ?`
		args = append(args, ReminderStatusPending)
	}
	query += ` ORDER BY reminder_time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("user reminders", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// PendingReminderCount returns the number of pending reminders, used by
// the status endpoint.
func (s *Store) PendingReminderCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminders WHERE status = ?`,
		ReminderStatusPending,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewStoreQueryFailed("pending reminder count", err)
	}
	return count, nil
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		var sentAt sql.NullTime
		if err := rows.Scan(
			&r.ID, &r.CreatorUserID, &r.CreatorUsername,
			&r.TargetUserID, &r.TargetUsername,
			&r.Text, &r.Time, &r.ChannelID, &r.GuildID,
			&r.Status, &r.CreatedAt, &sentAt,
		); err != nil {
			return nil, apperrors.NewStoreQueryFailed("scan reminder", err)
		}
		if sentAt.Valid {
			t := sentAt.Time
			r.SentAt = &t
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("scan reminders", err)
	}
	return reminders, nil
}
