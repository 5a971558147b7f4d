// internal/app/features/groups/groupdelete.go
package groups

import (
	"net/http"

	"github.com/dalemusser/surveyhub/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /groups/{ref}. The group and its active
// questions are soft-deleted together.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "group delete")
	defer cancel()

	g := h.resolve(ctx, w, r, false)
	if g == nil {
		return
	}
	if err := h.Repo.Delete(ctx, g); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRestore handles POST /groups/{ref}/restore. Soft-deleted groups are
// eligible; restoring an active group returns it unchanged.
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "group restore")
	defer cancel()

	g := h.resolve(ctx, w, r, true)
	if g == nil {
		return
	}
	if err := h.Repo.Restore(ctx, g); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
