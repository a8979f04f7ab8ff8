// Package reminder posts the daily "due tomorrow" notification and
// reconciles previously posted notifications with the current task list.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/duebot/internal/taskboard"
)

const updateNotice = "There are updates! Please take note."

// TaskSource provides point-in-time copies of the shared task list.
type TaskSource interface {
	Snapshot(ctx context.Context) ([]taskboard.Task, error)
}

// PostedMessage is a message previously sent to a channel.
type PostedMessage struct {
	ID           int64
	ChannelID    int64
	AuthorID     int64
	CreatedAt    time.Time
	Content      string
	Notification *Notification
	// ReplyToID is the message this one replies to, or 0.
	ReplyToID int64
}

// IsFollowUp reports whether the message replies to another message.
func (m PostedMessage) IsFollowUp() bool {
	return m.ReplyToID != 0
}

// OutgoingMessage is a message to send.
type OutgoingMessage struct {
	ChannelID    int64
	Content      string
	Notification *Notification
	ReplyToID    int64
}

// Messenger sends messages and lists what was recently posted to a channel.
type Messenger interface {
	Send(ctx context.Context, msg OutgoingMessage) (*PostedMessage, error)
	Recent(ctx context.Context, channelID int64) ([]PostedMessage, error)
}

// Target is where reminders go and who they mention.
type Target struct {
	ChannelID int64
	Role      string
}

// NewTarget validates the reminder destination.
func NewTarget(channelID int64, role string) (*Target, error) {
	role = strings.TrimSpace(role)
	if channelID == 0 {
		return nil, fmt.Errorf("%w: channel id is not set", ErrConfigMissing)
	}
	if role == "" {
		return nil, fmt.Errorf("%w: role is not set", ErrConfigMissing)
	}
	return &Target{ChannelID: channelID, Role: role}, nil
}

// ReconcileResult summarizes a reconciliation pass.
type ReconcileResult struct {
	Checked int
	Updated int
	// Skipped counts changed reminders whose change was already announced.
	Skipped int
}

// Service publishes and reconciles reminders.
type Service struct {
	logger    *slog.Logger
	source    TaskSource
	messenger Messenger
	target    *Target
	botID     int64
	loc       *time.Location
	clock     clockwork.Clock
}

// NewService creates a reminder service. A nil target is allowed; every
// operation then fails with ErrConfigMissing. Nil loc means UTC and a nil
// clock means the real clock.
func NewService(
	logger *slog.Logger,
	source TaskSource,
	messenger Messenger,
	target *Target,
	botID int64,
	loc *time.Location,
	clock clockwork.Clock,
) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		logger:    logger.With("component", "reminder"),
		source:    source,
		messenger: messenger,
		target:    target,
		botID:     botID,
		loc:       loc,
		clock:     clock,
	}
}

// Publish posts the notification for tasks due tomorrow. The role is
// mentioned only when at least one task is due.
func (s *Service) Publish(ctx context.Context) error {
	if s.target == nil {
		return ErrConfigMissing
	}

	now := s.clock.Now().In(s.loc)
	from, to := tomorrowWindow(now, s.loc)
	s.logger.InfoContext(ctx, "Searching tasks", "from", from, "to", to)

	tasks, err := s.selectTasks(ctx, from, to)
	if err != nil {
		return err
	}
	notification := Render(tasks, s.loc)

	var content string
	if notification.HasTasks() {
		content = s.target.Role
	}

	posted, err := s.messenger.Send(ctx, OutgoingMessage{
		ChannelID:    s.target.ChannelID,
		Content:      content,
		Notification: &notification,
	})
	if errors.Is(err, ErrNotRecorded) {
		s.logger.WarnContext(ctx, "Reminder posted but not recorded", "channel_id", s.target.ChannelID, "error", err)
		return fmt.Errorf("reminder posted: %w", err)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish reminder", "channel_id", s.target.ChannelID, "error", err)
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	s.logger.InfoContext(ctx, "Reminder published",
		"channel_id", s.target.ChannelID, "message_id", posted.ID, "task_count", len(tasks))
	return nil
}

// Reconcile re-renders recent reminders and replies to each one whose
// content no longer matches the task list. The first error aborts the pass;
// replies already sent are kept.
func (s *Service) Reconcile(ctx context.Context) (ReconcileResult, error) {
	return s.reconcile(ctx, false)
}

// Refresh is Reconcile for unattended runs: a reminder whose latest
// follow-up already carries the current rendering is left alone, so a
// change is announced once no matter how often the pass runs.
func (s *Service) Refresh(ctx context.Context) (ReconcileResult, error) {
	return s.reconcile(ctx, true)
}

func (s *Service) reconcile(ctx context.Context, skipAnnounced bool) (ReconcileResult, error) {
	var result ReconcileResult
	if s.target == nil {
		return result, ErrConfigMissing
	}

	recent, err := s.messenger.Recent(ctx, s.target.ChannelID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch recent messages", "channel_id", s.target.ChannelID, "error", err)
		return result, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	candidates := s.candidates(recent, s.clock.Now())
	var announced map[int64]*Notification
	if skipAnnounced {
		announced = s.latestFollowUps(recent)
	}
	s.logger.InfoContext(ctx, "Reconciling reminders", "fetched", len(recent), "candidates", len(candidates))

	for _, prev := range candidates {
		from, to := tomorrowWindow(prev.CreatedAt, s.loc)
		tasks, err := s.selectTasks(ctx, from, to)
		if err != nil {
			return result, err
		}
		current := Render(tasks, s.loc)
		result.Checked++

		if current.Equal(*prev.Notification) {
			s.logger.InfoContext(ctx, "No changes; update not needed",
				"message_id", prev.ID, "created_at", prev.CreatedAt)
			continue
		}
		if last, ok := announced[prev.ID]; ok && current.Equal(*last) {
			result.Skipped++
			s.logger.InfoContext(ctx, "Changes already announced; update not needed",
				"message_id", prev.ID, "created_at", prev.CreatedAt)
			continue
		}

		_, err = s.messenger.Send(ctx, OutgoingMessage{
			ChannelID:    s.target.ChannelID,
			Content:      s.target.Role + "\n" + updateNotice,
			Notification: &current,
			ReplyToID:    prev.ID,
		})
		if errors.Is(err, ErrNotRecorded) {
			result.Updated++
			s.logger.WarnContext(ctx, "Reminder update posted but not recorded", "message_id", prev.ID, "error", err)
			return result, fmt.Errorf("reminder update posted: %w", err)
		}
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to post reminder update", "message_id", prev.ID, "error", err)
			return result, fmt.Errorf("%w: %w", ErrSend, err)
		}
		result.Updated++
		s.logger.InfoContext(ctx, "Reminder updated",
			"message_id", prev.ID, "created_at", prev.CreatedAt, "task_count", len(tasks))
	}

	return result, nil
}

// latestFollowUps maps each reminder ID to the rendering of the newest
// follow-up the bot posted for it.
func (s *Service) latestFollowUps(messages []PostedMessage) map[int64]*Notification {
	latest := make(map[int64]PostedMessage)
	for _, m := range messages {
		if m.AuthorID != s.botID || !m.IsFollowUp() || m.Notification == nil {
			continue
		}
		if prev, ok := latest[m.ReplyToID]; ok && !m.CreatedAt.After(prev.CreatedAt) {
			continue
		}
		latest[m.ReplyToID] = m
	}

	out := make(map[int64]*Notification, len(latest))
	for id, m := range latest {
		out[id] = m.Notification
	}
	return out
}

// candidates keeps the bot's own non-reply reminders created no earlier
// than yesterday, newest first.
func (s *Service) candidates(messages []PostedMessage, now time.Time) []PostedMessage {
	cutoff := startOfDay(now, -1, s.loc)

	var out []PostedMessage
	for _, m := range messages {
		if m.AuthorID != s.botID || m.IsFollowUp() || m.Notification == nil {
			continue
		}
		if m.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Service) selectTasks(ctx context.Context, from, to time.Time) ([]taskboard.Task, error) {
	tasks, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read task snapshot", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return SelectDue(tasks, from, to), nil
}
