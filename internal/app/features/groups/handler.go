// internal/app/features/groups/handler.go
package groups

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/surveyhub/internal/app/store/audit"
	groupstore "github.com/dalemusser/surveyhub/internal/app/store/groups"
	"github.com/dalemusser/surveyhub/internal/app/system/grouprepo"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups JSON API.
type Handler struct {
	Repo   *grouprepo.Repository
	Events *audit.Store
	Log    *zap.Logger
}

// NewHandler constructs a groups Handler. It is called from the bootstrap
// BuildHandler function once the repository is wired.
func NewHandler(repo *grouprepo.Repository, events *audit.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Repo:   repo,
		Events: events,
		Log:    logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, grouprepo.ErrGroupNotFound), errors.Is(err, groupstore.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, grouprepo.ErrInvalidOptionKey), errors.Is(err, grouprepo.ErrNameRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, groupstore.ErrDuplicateSlug):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.Log.Error("group request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// refParam reads the {ref} URL segment.
func refParam(r *http.Request) grouprepo.Ref {
	return grouprepo.ParseRef(chi.URLParam(r, "ref"))
}

func withDeleted(r *http.Request) bool {
	switch r.URL.Query().Get("with_deleted") {
	case "1", "true", "yes":
		return true
	}
	return false
}
