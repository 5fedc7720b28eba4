package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !actor.IsAdmin {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
