package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-swipe/httpx"
	"github.com/mbolis/quick-swipe/log"
)

// Admin validates the bearer token signed with secret and requires the
// 'admin' role among its claims.
func Admin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), admin).Handler(next)
	}
}

func admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)

		if !hasRole(claims, httpx.RoleAdmin) {
			httpx.LogStatus(w, r, http.StatusForbidden, log.DebugLevel, "admin.missing_role")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func hasRole(claims map[string]string, role string) bool {
	rolesClaim, ok := claims["roles"]
	if !ok {
		return false
	}
	for _, r := range strings.Split(rolesClaim, ",") {
		if strings.TrimSpace(r) == role {
			return true
		}
	}
	return false
}
