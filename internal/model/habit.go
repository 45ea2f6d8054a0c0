package model

import "time"

// Habit is a tracked habit owned by a single user. Streak holds the count of
// consecutive periods with at least one completion, ending at the most
// recent completion; it is maintained by the habit service, never recomputed
// from the log on read.
type Habit struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Periodicity     string     `json:"periodicity"`
	CreatedAt       time.Time  `json:"created_at"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
	Streak          int        `json:"streak"`
}

// Completion is one append-only entry in a habit's completion log. Entries
// are never updated; they are removed only when the owning habit is deleted.
type Completion struct {
	ID          int64     `json:"id"`
	HabitID     int64     `json:"habit_id"`
	CompletedAt time.Time `json:"completed_at"`
}
