package http

import (
	"context"
	"net/http"

	"github.com/sagarc03/tasker"
	"github.com/sagarc03/tasker/auth"
)

// Authorizer turns an Authorization header into an access decision.
type Authorizer interface {
	Authorize(ctx context.Context, header string) auth.Decision
}

// AuthMiddleware rejects requests the authorizer denies with 403 and stores
// the allowed principal in the request context. A nil authorizer denies
// everything.
func AuthMiddleware(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authorizer == nil {
				HandleError(w, tasker.ErrUnauthorized)
				return
			}

			decision := authorizer.Authorize(r.Context(), r.Header.Get("Authorization"))
			if !decision.Allowed() {
				HandleError(w, tasker.ErrUnauthorized)
				return
			}

			ctx := auth.ContextWithUserID(r.Context(), decision.PrincipalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireTask answers 404 unless the {taskId} route param names a task
// owned by the caller.
func (h *Handler) requireTask(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			HandleError(w, tasker.ErrUnauthorized)
			return
		}

		exists, err := h.service.TaskExists(r.Context(), taskIDParam(r), uid)
		if err != nil {
			HandleError(w, err)
			return
		}
		if !exists {
			HandleError(w, tasker.ErrNotFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
