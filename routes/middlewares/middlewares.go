package middlewares

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
)

// SessionAuth guards the admin surface: it verifies the signed session
// token (cookie or bearer header) and bounces anyone without an admin
// session to the login page, preserving the originally requested path
// for the post-login redirect.
func SessionAuth(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(jwtauth.Verifier(ja), redirectUnlessAdmin).Handler(next)
	}
}

func redirectUnlessAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		isAdmin, _ := claims["admin"].(bool)
		if err != nil || token == nil || !isAdmin {
			loginLocation := "/login?goto=" + url.QueryEscape(r.RequestURI)
			http.Redirect(w, r, loginLocation, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}
