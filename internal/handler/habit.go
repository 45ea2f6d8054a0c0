package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rowanhale/tally/internal/auth"
	"github.com/rowanhale/tally/internal/habit"
	"github.com/rowanhale/tally/internal/model"
	"github.com/rowanhale/tally/internal/period"
	"github.com/rowanhale/tally/internal/websocket"
)

type HabitHandler struct {
	service *habit.Service
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewHabitHandler(service *habit.Service, hub *websocket.Hub, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{service: service, hub: hub, logger: logger}
}

func (h *HabitHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// respondError maps service errors onto HTTP statuses: caller mistakes are
// 4xx, everything else is a logged 500.
func (h *HabitHandler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, habit.ErrNotFound):
		writeError(w, http.StatusNotFound, "habit not found")
	case errors.Is(err, period.ErrInvalidPeriodicity):
		writeError(w, http.StatusBadRequest, "periodicity must be daily or weekly")
	case errors.Is(err, period.ErrMissingZone):
		writeError(w, http.StatusBadRequest, "timestamp must include a UTC offset")
	default:
		h.logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

type habitRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Periodicity *string `json:"periodicity"`
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	title := ""
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	periodicity := ""
	if req.Periodicity != nil {
		periodicity = *req.Periodicity
	}

	created, err := h.service.Create(auth.UserID(r.Context()), title, description, periodicity)
	if err != nil {
		h.respondError(w, err, "create habit")
		return
	}

	h.broadcast(websocket.NewMessage("habit", "created", created.ID, 0))
	writeJSON(w, http.StatusCreated, created)
}

// List returns the caller's habits. An optional ?periodicity= filter narrows
// to one cadence.
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	habits, err := h.service.List(auth.UserID(r.Context()))
	if err != nil {
		h.respondError(w, err, "list habits")
		return
	}

	if filter := r.URL.Query().Get("periodicity"); filter != "" {
		habits, err = filterByPeriodicity(habits, filter)
		if err != nil {
			h.respondError(w, err, "list habits")
			return
		}
	}

	if habits == nil {
		habits = []model.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	habit, err := h.service.Get(auth.UserID(r.Context()), id)
	if err != nil {
		h.respondError(w, err, "get habit")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	updated, err := h.service.Edit(auth.UserID(r.Context()), id, habit.Update{
		Title:       req.Title,
		Description: req.Description,
		Periodicity: req.Periodicity,
	})
	if err != nil {
		h.respondError(w, err, "update habit")
		return
	}

	h.broadcast(websocket.NewMessage("habit", "updated", id, updated.Streak))
	writeJSON(w, http.StatusOK, updated)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(auth.UserID(r.Context()), id); err != nil {
		h.respondError(w, err, "delete habit")
		return
	}

	h.broadcast(websocket.NewMessage("habit", "deleted", id, 0))
	w.WriteHeader(http.StatusNoContent)
}

func (h *HabitHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	// The body is optional: an empty one means "complete now".
	var req struct {
		CompletedAt string `json:"completed_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var completedAt time.Time
	if req.CompletedAt != "" {
		completedAt, err = period.ParseTimestamp(req.CompletedAt)
		if err != nil {
			h.respondError(w, err, "complete habit")
			return
		}
	}

	updated, completion, err := h.service.Complete(auth.UserID(r.Context()), id, completedAt)
	if err != nil {
		h.respondError(w, err, "complete habit")
		return
	}

	h.broadcast(websocket.NewMessage("habit", "completed", id, updated.Streak))
	writeJSON(w, http.StatusCreated, map[string]any{
		"habit":      updated,
		"completion": completion,
	})
}

func (h *HabitHandler) Completions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	completions, err := h.service.Completions(auth.UserID(r.Context()), id)
	if err != nil {
		h.respondError(w, err, "list completions")
		return
	}
	if completions == nil {
		completions = []model.Completion{}
	}
	writeJSON(w, http.StatusOK, completions)
}

// Due lists habits with no completion in the current period. An optional
// ?now= RFC 3339 timestamp evaluates dueness at another instant.
func (h *HabitHandler) Due(w http.ResponseWriter, r *http.Request) {
	var now time.Time
	if nowStr := r.URL.Query().Get("now"); nowStr != "" {
		var err error
		now, err = period.ParseTimestamp(nowStr)
		if err != nil {
			h.respondError(w, err, "list due habits")
			return
		}
	}

	due, err := h.service.Due(auth.UserID(r.Context()), now)
	if err != nil {
		h.respondError(w, err, "list due habits")
		return
	}
	if due == nil {
		due = []model.Habit{}
	}
	writeJSON(w, http.StatusOK, due)
}
