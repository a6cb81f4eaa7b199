package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// registerPages mounts the server-rendered page shells. The SPA owns the real
// markup; these handlers exist so the access middleware has routes to guard
// and smoke tests have bodies to assert on.
func registerPages(app *echo.Echo) {
	pages := map[string]string{
		"/":                "Welcome to ArkaMed",
		"/about":           "About ArkaMed",
		"/pricing":         "Pricing",
		"/contact":         "Contact",
		"/privacy":         "Privacy Policy",
		"/terms":           "Terms of Service",
		"/login":           "Sign in",
		"/register":        "Create your account",
		"/forgot-password": "Forgot password",
		"/reset-password":  "Reset password",
		"/cases":           "Case Library",
		"/progress":        "Your Progress",
		"/assessments":     "Assessments",
		"/specialty":       "Specialty Tracks",
		"/achievements":    "Achievements",
		"/settings":        "Settings",
		"/onboarding":      "Welcome! Let's set up your account",
		"/admin":           "Admin Console",
	}
	for path, body := range pages {
		body := body
		app.GET(path, func(ctx echo.Context) error {
			return ctx.String(http.StatusOK, body)
		})
	}
}
