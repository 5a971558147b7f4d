// internal/app/features/groups/events.go
package groups

import (
	"net/http"

	"github.com/dalemusser/surveyhub/internal/app/store/audit"
	"github.com/dalemusser/surveyhub/internal/app/system/paging"
	"github.com/dalemusser/surveyhub/internal/app/system/timeouts"
)

type eventsResponse struct {
	Events  []audit.Event `json:"events"`
	Total   int64         `json:"total"`
	Range   paging.Range  `json:"range"`
	HasNext bool          `json:"has_next"`
}

// ServeEvents handles GET /groups/{ref}/events?start=&size=. Events are
// listed newest first. Soft-deleted groups keep their history visible.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "group events")
	defer cancel()

	g := h.resolve(ctx, w, r, true)
	if g == nil {
		return
	}
	if h.Events == nil {
		writeJSON(w, http.StatusOK, eventsResponse{Events: []audit.Event{}, Range: paging.ComputeRange(page, 0)})
		return
	}

	events, err := h.Events.GetByGroup(ctx, g.ID, page.LimitPlusOne(), page.Offset())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	total, err := h.Events.CountByFilter(ctx, audit.QueryFilter{GroupID: &g.ID})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	hasNext := paging.TrimPage(&events, page)
	if events == nil {
		events = []audit.Event{}
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:  events,
		Total:   total,
		Range:   paging.ComputeRange(page, len(events)),
		HasNext: hasNext,
	})
}
