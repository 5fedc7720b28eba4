package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/handler/http/response"
)

// RequireReviewer admits admins and department managers.
func RequireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !actor.IsReviewer() {
			response.HandleError(w, auth.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireEmployee admits accounts linked to an employee record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if actor.EmployeeID == "" {
			response.HandleError(w, auth.ErrNoEmployeeLink)
			return
		}

		next.ServeHTTP(w, r)
	})
}
