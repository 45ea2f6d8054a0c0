// Package seed loads a deterministic demo dataset: five predefined habits
// for a demo user with four weeks of completion history, covering increment,
// same-period, and reset streak transitions.
package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rowanhale/tally/internal/auth"
	"github.com/rowanhale/tally/internal/habit"
	"github.com/rowanhale/tally/internal/model"
	"github.com/rowanhale/tally/internal/store"
)

const (
	demoUsername = "demo"
	demoPassword = "demo"
)

// Run (re)creates the demo user's habits and completion history. Existing
// demo habits are deleted first so the dataset is reproducible; other users
// are untouched.
func Run(db *sql.DB, observer *time.Location, logger *slog.Logger) error {
	users := store.NewUserStore(db)
	habits := store.NewHabitStore(db)
	authService := auth.NewService(users)
	habitService := habit.NewService(habits, observer, logger)

	demo, err := authService.Register(demoUsername, demoPassword)
	if errors.Is(err, auth.ErrUsernameTaken) {
		demo, err = users.GetByUsername(demoUsername)
	}
	if err != nil {
		return fmt.Errorf("demo user: %w", err)
	}

	// Clean slate for reproducibility; cascade removes old completions.
	if err := habits.DeleteForUser(demo.ID); err != nil {
		return err
	}

	if observer == nil {
		observer = time.Local
	}
	now := time.Now().In(observer)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, observer).AddDate(0, 0, -28)

	definitions := []struct {
		title, description, periodicity string
	}{
		{"Drink Water", "At least 2 liters per day", "Daily"},
		{"Read 20 Pages", "Read a book for 20 pages", "Daily"},
		{"Morning Stretch", "10 minutes mobility", "Daily"},
		{"Gym Workout", "Full body workout", "Weekly"},
		{"Meal Prep", "Prepare meals for the week", "Weekly"},
	}

	created := make([]*model.Habit, 0, len(definitions))
	for _, d := range definitions {
		h, err := habitService.Create(demo.ID, d.title, d.description, d.periodicity)
		if err != nil {
			return fmt.Errorf("create %q: %w", d.title, err)
		}
		created = append(created, h)
	}

	dayAt := func(day, hour int) time.Time {
		return start.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
	}

	complete := func(h *model.Habit, at time.Time) error {
		if _, _, err := habitService.Complete(demo.ID, h.ID, at); err != nil {
			return fmt.Errorf("complete %q at %s: %w", h.Title, at, err)
		}
		return nil
	}

	// Drink Water: completed every day of the window.
	for i := 0; i < 28; i++ {
		if err := complete(created[0], dayAt(i, 9)); err != nil {
			return err
		}
	}

	// Read 20 Pages: most days, with roughly one miss per week.
	missed := map[int]bool{6: true, 13: true, 20: true}
	for i := 0; i < 28; i++ {
		if missed[i] {
			continue
		}
		if err := complete(created[1], dayAt(i, 21)); err != nil {
			return err
		}
	}

	// Morning Stretch: started halfway through the window.
	for i := 14; i < 28; i++ {
		if err := complete(created[2], dayAt(i, 7)); err != nil {
			return err
		}
	}

	// Weekly habits: once per week. Gym skips the third week, so its streak
	// resets and ends at 1; Meal Prep runs all four weeks.
	for w := 0; w < 4; w++ {
		if w != 2 {
			if err := complete(created[3], dayAt(7*w, 18)); err != nil {
				return err
			}
		}
		if err := complete(created[4], dayAt(7*w, 10)); err != nil {
			return err
		}
	}

	logger.Info("demo data loaded", "username", demoUsername, "habits", len(created))
	return nil
}
