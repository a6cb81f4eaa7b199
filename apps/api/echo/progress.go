package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core/progress"
)

type progressApi struct {
	svc progress.Service
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := progressApi{svc: deps.ProgressSvc}

	pg := g.Group("/progress", jwt)
	pg.GET("/me", api.me)
	pg.GET("/:id", api.retrieve, adminMiddleware())
}

func (api *progressApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return api.respond(ctx, claims.Subject)
}

func (api *progressApi) retrieve(ctx echo.Context) error {
	return api.respond(ctx, ctx.Param("id"))
}

func (api *progressApi) respond(ctx echo.Context, userID string) error {
	snap, ms, err := api.svc.Get(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "getting progress")
	}
	return ctx.JSON(http.StatusOK, ProgressResponse{Snapshot: snap, Milestones: ms})
}

type ProgressResponse struct {
	Snapshot   progress.Snapshot   `json:"snapshot"`
	Milestones progress.Milestones `json:"milestones"`
}
