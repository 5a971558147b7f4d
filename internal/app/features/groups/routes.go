// internal/app/features/groups/routes.go
package groups

import (
	"net/http"

	"github.com/dalemusser/surveyhub/internal/app/system/auditlog"
	"github.com/go-chi/chi/v5"
)

// ActorHeader names the caller recorded on audit events.
const ActorHeader = "X-Actor"

func withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := r.Header.Get(ActorHeader); actor != "" {
			r = r.WithContext(auditlog.WithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(withActor)

	// LIST / CREATE
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	// VIEW
	r.Get("/{ref}", h.ServeGroup)
	r.Get("/{ref}/questions", h.ServeQuestions)
	r.Get("/{ref}/events", h.ServeEvents)

	// EDIT
	r.Patch("/{ref}", h.HandleUpdate)

	// DELETE / RESTORE (cascading)
	r.Delete("/{ref}", h.HandleDelete)
	r.Post("/{ref}/restore", h.HandleRestore)

	// OPTIONS
	r.Get("/{ref}/options/effective", h.ServeEffectiveOptions)
	r.Put("/{ref}/options", h.HandleSyncOptions)
	r.Put("/{ref}/options/{key}", h.HandleSetOption)
	r.Delete("/{ref}/options/{key}", h.HandleUnsetOption)

	return r
}
