package handler

import (
	"log/slog"
	"net/http"

	"github.com/rowanhale/tally/internal/analytics"
	"github.com/rowanhale/tally/internal/auth"
	"github.com/rowanhale/tally/internal/habit"
	"github.com/rowanhale/tally/internal/model"
)

// AnalyticsHandler serves aggregate views over the caller's habits. The
// aggregation itself happens in the analytics package over the materialized
// list; only the listing touches storage.
type AnalyticsHandler struct {
	service *habit.Service
	logger  *slog.Logger
}

func NewAnalyticsHandler(service *habit.Service, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger}
}

func (h *AnalyticsHandler) LongestStreak(w http.ResponseWriter, r *http.Request) {
	habits, err := h.service.List(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("longest streak", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute longest streak")
		return
	}

	best, streak := analytics.LongestStreakOverall(habits)
	writeJSON(w, http.StatusOK, map[string]any{
		"habit":  best,
		"streak": streak,
	})
}

func (h *AnalyticsHandler) ByPeriodicity(w http.ResponseWriter, r *http.Request) {
	habits, err := h.service.List(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("group by periodicity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to group habits")
		return
	}

	groups := analytics.GroupByPeriodicity(habits)
	out := make(map[string][]model.Habit, len(groups))
	for p, hs := range groups {
		out[string(p)] = hs
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AnalyticsHandler) Titles(w http.ResponseWriter, r *http.Request) {
	habits, err := h.service.List(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list titles", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list titles")
		return
	}

	titles := analytics.Titles(habits)
	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, titles)
}

func filterByPeriodicity(habits []model.Habit, periodicity string) ([]model.Habit, error) {
	return analytics.WithPeriodicity(habits, periodicity)
}
