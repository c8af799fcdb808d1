package middleware

import (
	"net/http"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
	"github.com/wanderlog/traveldiary-backend/pkg/ctxutil"
)

// RequireModerator gates the review and admin routes: 401 for
// anonymous callers, 403 for authenticated accounts without moderation
// rights. Place after Auth.
func RequireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.AccountIDFromCtx(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		role := domain.Role(ctxutil.RoleFromCtx(r.Context()))
		if !role.CanModerate() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
