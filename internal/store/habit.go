package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rowanhale/tally/internal/model"
	"github.com/rowanhale/tally/internal/period"
)

type HabitStore struct {
	db *sql.DB
}

func NewHabitStore(db *sql.DB) *HabitStore {
	return &HabitStore{db: db}
}

func scanHabit(scanner interface{ Scan(...any) error }) (*model.Habit, error) {
	var h model.Habit
	var createdAt string
	var lastCompletedAt sql.NullString

	err := scanner.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Description, &h.Periodicity,
		&createdAt, &lastCompletedAt, &h.Streak,
	)
	if err != nil {
		return nil, err
	}

	h.CreatedAt, err = period.DecodeStored(createdAt)
	if err != nil {
		return nil, fmt.Errorf("habit %d created_at: %w", h.ID, err)
	}
	if lastCompletedAt.Valid {
		t, err := period.DecodeStored(lastCompletedAt.String)
		if err != nil {
			return nil, fmt.Errorf("habit %d last_completed_at: %w", h.ID, err)
		}
		h.LastCompletedAt = &t
	}
	return &h, nil
}

const habitCols = `id, user_id, title, description, periodicity, created_at, last_completed_at, streak`

func (s *HabitStore) Create(userID int64, title, description string, periodicity period.Periodicity, createdAt time.Time) (*model.Habit, error) {
	result, err := s.db.Exec(
		`INSERT INTO habits (user_id, title, description, periodicity, created_at, last_completed_at, streak)
		 VALUES (?, ?, ?, ?, ?, NULL, 0)`,
		userID, title, description, string(periodicity), period.EncodeStored(createdAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, userID)
}

// GetByID returns the habit only when it belongs to userID; a habit owned by
// someone else is indistinguishable from one that does not exist.
func (s *HabitStore) GetByID(id, userID int64) (*model.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitCols+` FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

func (s *HabitStore) ListForUser(userID int64) ([]model.Habit, error) {
	rows, err := s.db.Query(
		`SELECT `+habitCols+` FROM habits WHERE user_id = ? ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (s *HabitStore) Update(id, userID int64, title, description string, periodicity period.Periodicity, lastCompletedAt *time.Time, streak int) (*model.Habit, error) {
	var last sql.NullString
	if lastCompletedAt != nil {
		last = sql.NullString{String: period.EncodeStored(*lastCompletedAt), Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE habits SET title = ?, description = ?, periodicity = ?, last_completed_at = ?, streak = ?
		 WHERE id = ? AND user_id = ?`,
		title, description, string(periodicity), last, streak, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return s.GetByID(id, userID)
}

// Delete removes the habit and, via cascade, its completion log. It reports
// whether a row was actually deleted.
func (s *HabitStore) Delete(id, userID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete habit: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return count > 0, nil
}

// DeleteForUser removes every habit owned by userID, cascading to completions.
func (s *HabitStore) DeleteForUser(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM habits WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete habits for user: %w", err)
	}
	return nil
}

// --- Completion methods ---

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.Completion, error) {
	var c model.Completion
	var completedAt string

	err := scanner.Scan(&c.ID, &c.HabitID, &completedAt)
	if err != nil {
		return nil, err
	}

	c.CompletedAt, err = period.DecodeStored(completedAt)
	if err != nil {
		return nil, fmt.Errorf("completion %d completed_at: %w", c.ID, err)
	}
	return &c, nil
}

const completionCols = `id, habit_id, completed_at`

// RecordCompletion appends a completion log entry and updates the habit's
// cached streak state in a single transaction, so a log entry can never be
// observed alongside a stale streak counter.
func (s *HabitStore) RecordCompletion(habitID int64, completedAt time.Time, streak int) (*model.Completion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	encoded := period.EncodeStored(completedAt)

	result, err := tx.Exec(
		`INSERT INTO completions (habit_id, completed_at) VALUES (?, ?)`,
		habitID, encoded,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE habits SET last_completed_at = ?, streak = ? WHERE id = ?`,
		encoded, streak, habitID,
	); err != nil {
		return nil, fmt.Errorf("update habit streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit completion: %w", err)
	}

	return &model.Completion{ID: id, HabitID: habitID, CompletedAt: completedAt}, nil
}

// LastCompletion returns the most recent completion for the habit, or nil if
// the log is empty.
func (s *HabitStore) LastCompletion(habitID int64) (*model.Completion, error) {
	row := s.db.QueryRow(
		`SELECT `+completionCols+` FROM completions WHERE habit_id = ? ORDER BY completed_at DESC, id DESC LIMIT 1`,
		habitID,
	)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last completion: %w", err)
	}
	return c, nil
}

func (s *HabitStore) ListCompletions(habitID int64) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM completions WHERE habit_id = ? ORDER BY completed_at ASC, id ASC`,
		habitID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}
