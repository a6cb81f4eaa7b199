package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core/casebank"
	"github.com/ArKa3003/arkamed/core/progress"
	"github.com/ArKa3003/arkamed/core/user"
)

type caseApi struct {
	svc         casebank.Service
	progressSvc progress.Service
	userSvc     user.Service
	validate    *validator.Validate
}

func registerCaseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := caseApi{
		svc:         deps.CaseSvc,
		progressSvc: deps.ProgressSvc,
		userSvc:     deps.UserSvc,
		validate:    deps.Validate,
	}

	cg := g.Group("/cases", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, adminMiddleware())
	cg.DELETE("", api.destroyMultiple, adminMiddleware())
	cg.GET("/:id", api.retrieve)
	cg.POST("/:id/submit", api.submit)
}

// Handlers

func (api *caseApi) create(ctx echo.Context) error {
	var data casebank.NewCase
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCase")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cs, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating case")
	}
	return ctx.JSON(http.StatusCreated, cs)
}

func (api *caseApi) query(ctx echo.Context) error {
	filter := new(casebank.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []casebank.Case{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	var cases []casebank.Case
	var err error
	if filter.IsEmpty() {
		cases, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		cases, err = api.svc.Filter(ctx.Request().Context(), *filter, ordering.Orderings...)
	}
	if err != nil {
		return errors.Wrap(err, "querying cases")
	}
	if cases == nil {
		cases = []casebank.Case{}
	}
	return ctx.JSON(http.StatusOK, cases)
}

func (api *caseApi) retrieve(ctx echo.Context) error {
	cs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == casebank.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding case by ID")
	}
	return ctx.JSON(http.StatusOK, cs)
}

// submit scores an answer and folds the outcome into the user's progress; the
// response reveals the correct option and teaching point alongside the updated
// snapshot and milestone levels.
func (api *caseApi) submit(ctx echo.Context) error {
	var data SubmitRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == casebank.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding case by ID")
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	ev := casebank.Evaluate(cs, data.Choice, data.HintsUsed)

	snap, ms, err := api.progressSvc.Record(ctx.Request().Context(), ctxUsr, progress.Submission{
		CaseID:      cs.ID,
		Category:    cs.Category,
		Specialties: cs.Specialties,
		Correct:     ev.Correct,
		Score:       ev.Score,
		TimeSpent:   time.Duration(data.TimeSpentSec) * time.Second,
		HintsUsed:   data.HintsUsed,
	})
	if err != nil {
		return errors.Wrap(err, "recording submission")
	}

	return ctx.JSON(http.StatusOK, SubmitResponse{
		Evaluation: ev,
		Snapshot:   snap,
		Milestones: ms,
	})
}

func (api *caseApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting cases")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	SubmitRequest struct {
		Choice       string `json:"choice" validate:"required"`
		HintsUsed    int    `json:"hints_used" validate:"gte=0"`
		TimeSpentSec int    `json:"time_spent_sec" validate:"gte=0"`
	}

	SubmitResponse struct {
		casebank.Evaluation
		Snapshot   progress.Snapshot   `json:"snapshot"`
		Milestones progress.Milestones `json:"milestones"`
	}
)

func (sr *SubmitRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(sr)
}
