// Package analytics aggregates over already-materialized habit lists. Every
// function is pure: no storage access, no mutation of its inputs.
package analytics

import (
	"github.com/rowanhale/tally/internal/model"
	"github.com/rowanhale/tally/internal/period"
)

// WithPeriodicity filters habits to those matching the given periodicity,
// which may be any form Normalize accepts ("Daily", "week", ...).
func WithPeriodicity(habits []model.Habit, periodicity string) ([]model.Habit, error) {
	p, err := period.Normalize(periodicity)
	if err != nil {
		return nil, err
	}

	var out []model.Habit
	for _, h := range habits {
		hp, err := period.Normalize(h.Periodicity)
		if err != nil {
			continue
		}
		if hp == p {
			out = append(out, h)
		}
	}
	return out, nil
}

// GroupByPeriodicity buckets habits by normalized periodicity, preserving
// input order within each bucket. Habits whose stored periodicity does not
// normalize are skipped.
func GroupByPeriodicity(habits []model.Habit) map[period.Periodicity][]model.Habit {
	groups := make(map[period.Periodicity][]model.Habit)
	for _, h := range habits {
		p, err := period.Normalize(h.Periodicity)
		if err != nil {
			continue
		}
		groups[p] = append(groups[p], h)
	}
	return groups
}

// LongestStreakOverall returns the habit with the greatest streak and its
// value. Only a strictly greater streak replaces the current best, so ties
// go to the earlier habit in iteration order. Empty input yields (nil, 0).
func LongestStreakOverall(habits []model.Habit) (*model.Habit, int) {
	var best *model.Habit
	max := 0
	for i := range habits {
		if habits[i].Streak > max {
			best = &habits[i]
			max = habits[i].Streak
		}
	}
	return best, max
}

// LongestStreakForHabit returns the habit's current streak. The model caches
// the streak engine's result; nothing is recomputed from the raw log.
func LongestStreakForHabit(h model.Habit) int {
	return h.Streak
}

// Titles projects the habit titles in input order.
func Titles(habits []model.Habit) []string {
	titles := make([]string, len(habits))
	for i, h := range habits {
		titles[i] = h.Title
	}
	return titles
}

// All returns a copy of the habit list.
func All(habits []model.Habit) []model.Habit {
	out := make([]model.Habit, len(habits))
	copy(out, habits)
	return out
}
