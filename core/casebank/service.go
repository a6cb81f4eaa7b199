package casebank

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core"
)

var ErrNotFound = errors.New("case not found")

type (
	Repository interface {
		CreateCase(ctx context.Context, cs Case) (Case, error)
		QueryAllCases(ctx context.Context) ([]Case, error)
		GetCaseByID(ctx context.Context, id string) (Case, error)
		// FilterCases applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Case.Title or Case.Vignette.
		FilterCases(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Case, error)
		DeleteCasesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, nc NewCase) (Case, error)
		GetByID(ctx context.Context, id string) (Case, error)
		QueryAll(ctx context.Context) ([]Case, error)
		Filter(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Case, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nc NewCase) (Case, error) {
	now := time.Now().UTC()
	cs := Case{
		ID:            uuid.New().String(),
		Title:         nc.Title,
		Vignette:      nc.Vignette,
		Category:      nc.Category,
		Specialties:   nc.Specialties,
		Options:       nc.Options,
		CorrectOption: nc.CorrectOption,
		TeachingPoint: nc.TeachingPoint,
		Difficulty:    nc.Difficulty,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateCase(ctx, cs)
}

func (svc *service) GetByID(ctx context.Context, id string) (Case, error) {
	return svc.repo.GetCaseByID(ctx, id)
}

func (svc *service) QueryAll(ctx context.Context) ([]Case, error) {
	return svc.repo.QueryAllCases(ctx)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Case, error) {
	return svc.repo.FilterCases(ctx, filter, orderings...)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCasesByID(ctx, ids...)
}
