package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core/access"
	"github.com/ArKa3003/arkamed/core/user"
)

// accessControlMiddleware runs the access controller on every request before
// routing. Redirect decisions short-circuit the handler chain. Page requests
// get their session cookie rotated when due, redirects included, so an active
// session stays fresh while the user is bounced through onboarding.
func accessControlMiddleware(ctrl *access.Controller, smgr *sessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			dec := ctrl.Check(req.Context(), req)

			if dec.Kind != access.DecisionPassThrough {
				smgr.rotateCookie(ctx)
			}
			if dec.Kind == access.DecisionRedirect {
				return ctx.Redirect(http.StatusFound, dec.Location)
			}
			return next(ctx)
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.Role == user.RoleAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
