package habit

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rowanhale/tally/internal/model"
	"github.com/rowanhale/tally/internal/period"
	"github.com/rowanhale/tally/internal/store"
)

// ErrNotFound is returned when a habit id does not exist or belongs to a
// different user. The two cases are deliberately indistinguishable so one
// user cannot probe for another user's habit ids.
var ErrNotFound = errors.New("habit not found")

// Service implements per-user habit operations: CRUD, completion recording
// with streak maintenance, and due computation. All period arithmetic is
// done in the observer location.
type Service struct {
	habits   *store.HabitStore
	observer *time.Location
	logger   *slog.Logger
}

func NewService(habits *store.HabitStore, observer *time.Location, logger *slog.Logger) *Service {
	if observer == nil {
		observer = time.Local
	}
	return &Service{habits: habits, observer: observer, logger: logger}
}

// Observer returns the location used for period computation.
func (s *Service) Observer() *time.Location {
	return s.observer
}

func (s *Service) Create(userID int64, title, description, periodicity string) (*model.Habit, error) {
	p, err := period.Normalize(periodicity)
	if err != nil {
		return nil, err
	}
	return s.habits.Create(userID, strings.TrimSpace(title), strings.TrimSpace(description), p, time.Now().In(s.observer))
}

func (s *Service) List(userID int64) ([]model.Habit, error) {
	return s.habits.ListForUser(userID)
}

func (s *Service) Get(userID, habitID int64) (*model.Habit, error) {
	h, err := s.habits.GetByID(habitID, userID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrNotFound
	}
	return h, nil
}

// Update carries the fields of a partial edit. A nil field leaves the
// attribute unchanged. A blank title or periodicity is also left unchanged,
// while a blank description clears the stored one.
type Update struct {
	Title       *string
	Description *string
	Periodicity *string
}

// Edit applies a partial update. When the edit changes the normalized
// periodicity, the streak and last-completion marker are reset: period
// boundaries under the old cadence are not comparable to the new one. The
// completion log itself is never touched.
func (s *Service) Edit(userID, habitID int64, u Update) (*model.Habit, error) {
	h, err := s.Get(userID, habitID)
	if err != nil {
		return nil, err
	}

	if u.Title != nil && strings.TrimSpace(*u.Title) != "" {
		h.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		h.Description = strings.TrimSpace(*u.Description)
	}

	p, err := period.Normalize(h.Periodicity)
	if err != nil {
		return nil, fmt.Errorf("stored periodicity: %w", err)
	}
	if u.Periodicity != nil && strings.TrimSpace(*u.Periodicity) != "" {
		newP, err := period.Normalize(*u.Periodicity)
		if err != nil {
			return nil, err
		}
		if newP != p {
			h.Streak = 0
			h.LastCompletedAt = nil
			s.logger.Info("periodicity changed, streak reset",
				"habit_id", h.ID, "from", string(p), "to", string(newP))
		}
		p = newP
	}

	return s.habits.Update(h.ID, userID, h.Title, h.Description, p, h.LastCompletedAt, h.Streak)
}

func (s *Service) Delete(userID, habitID int64) error {
	deleted, err := s.habits.Delete(habitID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Complete records a completion for the habit at the given time (zero means
// now) and returns the updated habit together with the new log entry.
//
// The streak transition is evaluated against period keys: first-ever
// completion starts at 1; a completion in the same period as the previous
// one leaves the streak unchanged; a completion in the immediately following
// period increments it; anything else resets it to 1. The log entry is
// appended unconditionally, so the log stays a complete history even for
// redundant same-period completions.
//
// Timestamps are taken as supplied: completing at a time earlier than the
// recorded last completion is evaluated with that reversed order and can
// legitimately reset the streak.
func (s *Service) Complete(userID, habitID int64, completedAt time.Time) (*model.Habit, *model.Completion, error) {
	h, err := s.Get(userID, habitID)
	if err != nil {
		return nil, nil, err
	}
	if completedAt.IsZero() {
		completedAt = time.Now().In(s.observer)
	}

	p, err := period.Normalize(h.Periodicity)
	if err != nil {
		return nil, nil, fmt.Errorf("stored periodicity: %w", err)
	}

	// The habit record caches the last completion. If the cache is empty,
	// consult the log directly: the record may be out of sync after a
	// partial failure, and the log is authoritative.
	lastDt := h.LastCompletedAt
	if lastDt == nil {
		last, err := s.habits.LastCompletion(h.ID)
		if err != nil {
			return nil, nil, err
		}
		if last != nil {
			lastDt = &last.CompletedAt
		}
	}

	var streak int
	switch {
	case lastDt == nil:
		streak = 1
	case period.Same(*lastDt, completedAt, p, s.observer):
		streak = h.Streak
	case period.Next(*lastDt, completedAt, p, s.observer):
		streak = h.Streak + 1
	default:
		streak = 1
	}

	completion, err := s.habits.RecordCompletion(h.ID, completedAt, streak)
	if err != nil {
		return nil, nil, err
	}

	h.LastCompletedAt = &completedAt
	h.Streak = streak
	return h, completion, nil
}

// Completions returns the full completion log for an owned habit, oldest first.
func (s *Service) Completions(userID, habitID int64) ([]model.Completion, error) {
	if _, err := s.Get(userID, habitID); err != nil {
		return nil, err
	}
	return s.habits.ListCompletions(habitID)
}

// Due returns the owned habits with no completion in the period containing
// now (zero means the current time). Habits whose stored periodicity no
// longer normalizes are skipped rather than failing the whole listing.
func (s *Service) Due(userID int64, now time.Time) ([]model.Habit, error) {
	if now.IsZero() {
		now = time.Now().In(s.observer)
	}

	habits, err := s.habits.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	var due []model.Habit
	for _, h := range habits {
		p, err := period.Normalize(h.Periodicity)
		if err != nil {
			s.logger.Warn("skipping habit with unknown periodicity",
				"habit_id", h.ID, "periodicity", h.Periodicity)
			continue
		}
		if period.IsDue(h.LastCompletedAt, now, p, s.observer) {
			due = append(due, h)
		}
	}
	return due, nil
}
