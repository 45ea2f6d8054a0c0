package analytics

import (
	"errors"
	"testing"

	"github.com/rowanhale/tally/internal/model"
	"github.com/rowanhale/tally/internal/period"
)

func sample() []model.Habit {
	return []model.Habit{
		{ID: 1, Title: "Water", Periodicity: "daily", Streak: 3},
		{ID: 2, Title: "Gym", Periodicity: "weekly", Streak: 7},
		{ID: 3, Title: "Read", Periodicity: "daily", Streak: 5},
	}
}

func TestWithPeriodicity(t *testing.T) {
	got, err := WithPeriodicity(sample(), "Daily")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Water" || got[1].Title != "Read" {
		t.Errorf("daily filter = %+v", got)
	}

	got, err = WithPeriodicity(sample(), "week")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Gym" {
		t.Errorf("weekly filter = %+v", got)
	}

	if _, err := WithPeriodicity(sample(), "fortnightly"); !errors.Is(err, period.ErrInvalidPeriodicity) {
		t.Errorf("error = %v, want ErrInvalidPeriodicity", err)
	}
}

func TestWithPeriodicitySkipsMalformedRows(t *testing.T) {
	habits := append(sample(), model.Habit{ID: 4, Title: "Broken", Periodicity: "???"})
	got, err := WithPeriodicity(habits, "daily")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	for _, h := range got {
		if h.Title == "Broken" {
			t.Error("malformed periodicity row leaked through the filter")
		}
	}
}

func TestGroupByPeriodicity(t *testing.T) {
	habits := append(sample(), model.Habit{ID: 4, Title: "Broken", Periodicity: "???"})
	groups := GroupByPeriodicity(habits)

	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	daily := groups[period.Daily]
	if len(daily) != 2 || daily[0].Title != "Water" || daily[1].Title != "Read" {
		t.Errorf("daily group = %+v (input order must be preserved)", daily)
	}
	if len(groups[period.Weekly]) != 1 {
		t.Errorf("weekly group = %+v", groups[period.Weekly])
	}
}

func TestLongestStreakOverall(t *testing.T) {
	best, streak := LongestStreakOverall(sample())
	if best == nil || best.Title != "Gym" || streak != 7 {
		t.Errorf("best = %+v streak = %d, want Gym/7", best, streak)
	}
}

func TestLongestStreakOverallEmpty(t *testing.T) {
	best, streak := LongestStreakOverall(nil)
	if best != nil || streak != 0 {
		t.Errorf("got (%+v, %d), want (nil, 0)", best, streak)
	}
}

func TestLongestStreakOverallTieBreaksToFirst(t *testing.T) {
	habits := []model.Habit{
		{ID: 1, Title: "A", Periodicity: "daily", Streak: 4},
		{ID: 2, Title: "B", Periodicity: "daily", Streak: 4},
	}
	best, streak := LongestStreakOverall(habits)
	if best == nil || best.Title != "A" || streak != 4 {
		t.Errorf("best = %+v streak = %d, want first habit on a tie", best, streak)
	}
}

func TestTitles(t *testing.T) {
	titles := Titles(sample())
	want := []string{"Water", "Gym", "Read"}
	if len(titles) != len(want) {
		t.Fatalf("len = %d, want %d", len(titles), len(want))
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	habits := sample()
	got := All(habits)
	got[0].Title = "mutated"
	if habits[0].Title != "Water" {
		t.Error("All must not alias the input slice")
	}
}
