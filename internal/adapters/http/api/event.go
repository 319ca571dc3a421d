package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/sor/internal/adapters/repository"
	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/sor"
)

// EventDependencies defines the interface for per-event rankings.
type EventDependencies interface {
	Event(ctx context.Context, code string, metric model.Metric) ([]ResultRow, error)
}

// EventHandler handles per-event ranking requests.
type EventHandler struct {
	deps EventDependencies
}

// NewEventHandler creates a new event handler.
func NewEventHandler(deps EventDependencies) *EventHandler {
	return &EventHandler{deps: deps}
}

type eventResponse struct {
	Event  string      `json:"event"`
	Label  string      `json:"label"`
	Metric string      `json:"metric"`
	Ranked bool        `json:"ranked"`
	Rows   []ResultRow `json:"rows"`
}

// HandleGetEvent handles GET /events/{event_code}?metric=M requests.
func (h *EventHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	idx, ok := event.Lookup(r.PathValue("event_code"))
	if !ok {
		writeFailure(w, WrapKind(op, repository.ErrUnknownEvent, errors.New(r.PathValue("event_code"))))
		return
	}
	d := event.Get(idx)
	metric, err := metricParam(op, r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := h.deps.Event(r.Context(), d.Code, metric)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	if rows == nil {
		rows = []ResultRow{}
	}
	writeJSON(w, http.StatusOK, eventResponse{
		Event:  d.Code,
		Label:  d.Label,
		Metric: metric.String(),
		Ranked: sor.Ranked(idx, metric),
		Rows:   rows,
	})
}
