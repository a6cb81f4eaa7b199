package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/casebank"
)

type caseRepository struct {
	db *caseTable
}

var _ casebank.Repository = (*caseRepository)(nil) // interface compliance check

func NewCaseRepository(db *DB) casebank.Repository {
	return &caseRepository{db: db.casebank}
}

func (repo *caseRepository) query() []casebank.Case {
	cases := make([]casebank.Case, 0, len(repo.db.table))
	for _, cs := range repo.db.table {
		cases = append(cases, *cs)
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].CreatedAt.Before(cases[j].CreatedAt) })
	return cases
}

func (repo *caseRepository) CreateCase(ctx context.Context, cs casebank.Case) (casebank.Case, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[cs.ID] = &cs
	return cs, nil
}

func (repo *caseRepository) QueryAllCases(ctx context.Context) ([]casebank.Case, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *caseRepository) GetCaseByID(ctx context.Context, id string) (casebank.Case, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cs, ok := repo.db.table[id]; ok {
		return *cs, nil
	}
	return casebank.Case{}, casebank.ErrNotFound
}

func (repo *caseRepository) FilterCases(ctx context.Context, filter casebank.QueryFilter, orderings ...core.DBOrdering) ([]casebank.Case, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cases := repo.query()

	if filter.Search != "" {
		var filtered []casebank.Case
		search := strings.ToLower(filter.Search)
		for _, cs := range cases {
			if strings.Contains(strings.ToLower(cs.Title), search) ||
				strings.Contains(strings.ToLower(cs.Vignette), search) {
				filtered = append(filtered, cs)
			}
		}
		cases = filtered
	}
	if cases != nil && filter.Category != "" {
		var filtered []casebank.Case
		for _, cs := range cases {
			if cs.Category == filter.Category {
				filtered = append(filtered, cs)
			}
		}
		cases = filtered
	}
	if cases != nil && filter.Specialty != "" {
		var filtered []casebank.Case
		for _, cs := range cases {
			if cs.HasSpecialty(filter.Specialty) {
				filtered = append(filtered, cs)
			}
		}
		cases = filtered
	}
	if cases != nil && filter.Difficulty != "" {
		var filtered []casebank.Case
		for _, cs := range cases {
			if cs.Difficulty == filter.Difficulty {
				filtered = append(filtered, cs)
			}
		}
		cases = filtered
	}

	return cases, nil
}

func (repo *caseRepository) DeleteCasesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
