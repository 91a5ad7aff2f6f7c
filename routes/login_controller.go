package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"

	"survey-collector/app"
	"survey-collector/httpx"
	"survey-collector/log"
	"survey-collector/templates"
)

const (
	sessionCookie = "jwt"
	sessionTTL    = 12 * time.Hour
)

type loginPage struct {
	Msg string
}

func LoginForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hasAdminSession(app, r) {
			http.Redirect(w, r, "/records", http.StatusFound)
			return
		}
		templates.Render(w, "login.html", loginPage{})
	}
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "login.parse_form")
			return
		}

		user := strings.TrimSpace(r.PostFormValue("username"))
		pass := r.PostFormValue("password")

		if !app.CheckCredentials(user, pass) {
			log.Debugf("login.failed: %q", user)
			templates.Render(w, "login.html", loginPage{Msg: "Invalid username or password."})
			return
		}

		_, token, err := app.TokenAuth.Encode(map[string]any{
			"user":  user,
			"admin": true,
			"exp":   jwtauth.ExpireIn(sessionTTL),
		})
		if err != nil {
			httpx.LogInternalError(w, "login.encode_token", err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Path:     "/",
			Name:     sessionCookie,
			Value:    token,
			MaxAge:   int(sessionTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		log.Infof("admin login: %s", user)
		http.Redirect(w, r, safeRedirectTarget(r.URL.Query().Get("goto")), http.StatusFound)
	}
}

func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Path:     "/",
			Name:     sessionCookie,
			Value:    "",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func hasAdminSession(app app.App, r *http.Request) bool {
	token, err := jwtauth.VerifyRequest(app.TokenAuth, r, jwtauth.TokenFromCookie)
	if err != nil || token == nil {
		return false
	}
	claims, err := token.AsMap(r.Context())
	if err != nil {
		return false
	}
	isAdmin, _ := claims["admin"].(bool)
	return isAdmin
}

// safeRedirectTarget only honors local paths, anything else falls back
// to the records page.
func safeRedirectTarget(target string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}
	return "/records"
}
