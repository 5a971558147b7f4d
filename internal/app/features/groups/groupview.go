// internal/app/features/groups/groupview.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dalemusser/surveyhub/internal/app/system/timeouts"
	"github.com/dalemusser/surveyhub/internal/domain/models"
)

// resolve looks up {ref}; it writes the error response and returns nil when
// the group cannot be produced.
func (h *Handler) resolve(ctx context.Context, w http.ResponseWriter, r *http.Request, includeDeleted bool) *models.Group {
	g, err := h.Repo.Resolve(ctx, refParam(r), includeDeleted)
	if err != nil {
		h.writeError(w, r, err)
		return nil
	}
	if g == nil {
		badRequest(w, "group reference is required")
		return nil
	}
	return g
}

// ServeGroup handles GET /groups/{ref}.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g := h.resolve(ctx, w, r, withDeleted(r))
	if g == nil {
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// ServeQuestions handles GET /groups/{ref}/questions.
func (h *Handler) ServeQuestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	includeDeleted := withDeleted(r)
	g := h.resolve(ctx, w, r, includeDeleted)
	if g == nil {
		return
	}
	qs, err := h.Repo.Questions(ctx, g, includeDeleted)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if qs == nil {
		qs = []models.Question{}
	}
	writeJSON(w, http.StatusOK, qs)
}

// ServeList handles GET /groups?section=<id>.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	sectionID, err := strconv.ParseInt(r.URL.Query().Get("section"), 10, 64)
	if err != nil {
		badRequest(w, "section query parameter must be an integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	groups, err := h.Repo.ListBySection(ctx, sectionID, withDeleted(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

type createRequest struct {
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	SectionID int64          `json:"section_id"`
	TeamID    *int64         `json:"team_id"`
	Options   models.Options `json:"options"`
}

// HandleCreate handles POST /groups.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body must be a JSON object")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Repo.Create(ctx, models.Group{
		Name:      req.Name,
		Slug:      req.Slug,
		SectionID: req.SectionID,
		TeamID:    req.TeamID,
		Options:   req.Options,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

type updateRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// HandleUpdate handles PATCH /groups/{ref}. Omitted fields are unchanged.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body must be a JSON object")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g := h.resolve(ctx, w, r, false)
	if g == nil {
		return
	}
	if err := h.Repo.UpdateInfo(ctx, g, req.Name, req.Slug); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
