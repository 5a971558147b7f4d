// internal/app/features/groups/options.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/surveyhub/internal/app/system/timeouts"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type setOptionRequest struct {
	Value interface{} `json:"value"`
}

// HandleSetOption handles PUT /groups/{ref}/options/{key}.
func (h *Handler) HandleSetOption(w http.ResponseWriter, r *http.Request) {
	var req setOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, `request body must be {"value": ...}`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g := h.resolve(ctx, w, r, false)
	if g == nil {
		return
	}
	if _, err := h.Repo.SetOption(ctx, g, chi.URLParam(r, "key"), req.Value); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleUnsetOption handles DELETE /groups/{ref}/options/{key}.
func (h *Handler) HandleUnsetOption(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g := h.resolve(ctx, w, r, false)
	if g == nil {
		return
	}
	if _, err := h.Repo.UnsetOption(ctx, g, chi.URLParam(r, "key")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleSyncOptions handles PUT /groups/{ref}/options. The body replaces the
// whole options map.
func (h *Handler) HandleSyncOptions(w http.ResponseWriter, r *http.Request) {
	var target models.Options
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil || target == nil {
		badRequest(w, "request body must be a JSON object")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g := h.resolve(ctx, w, r, false)
	if g == nil {
		return
	}
	if _, err := h.Repo.SyncOptions(ctx, g, target); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// ServeEffectiveOptions handles GET /groups/{ref}/options/effective.
func (h *Handler) ServeEffectiveOptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g := h.resolve(ctx, w, r, withDeleted(r))
	if g == nil {
		return
	}
	writeJSON(w, http.StatusOK, h.Repo.EffectiveOptions(g))
}
