package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/casebank"
)

type caseRepository struct {
	db *sqlx.DB
}

var _ casebank.Repository = (*caseRepository)(nil)

func NewCaseRepository(db *sql.DB) casebank.Repository {
	return &caseRepository{db: sqlx.NewDb(db, "postgres")}
}

type dbCase struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	Vignette      string    `db:"vignette"`
	Category      string    `db:"category"`
	Specialties   []byte    `db:"specialties"` // JSONB
	Options       []byte    `db:"options"`     // JSONB
	CorrectOption string    `db:"correct_option"`
	TeachingPoint string    `db:"teaching_point"`
	Difficulty    string    `db:"difficulty"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (dc dbCase) toCase() (casebank.Case, error) {
	cs := casebank.Case{
		ID:            dc.ID,
		Title:         dc.Title,
		Vignette:      dc.Vignette,
		Category:      dc.Category,
		CorrectOption: dc.CorrectOption,
		TeachingPoint: dc.TeachingPoint,
		Difficulty:    dc.Difficulty,
		CreatedAt:     dc.CreatedAt,
		UpdatedAt:     dc.UpdatedAt,
	}
	if len(dc.Specialties) > 0 {
		if err := json.Unmarshal(dc.Specialties, &cs.Specialties); err != nil {
			return casebank.Case{}, errors.Wrap(err, "unmarshalling specialties")
		}
	}
	if len(dc.Options) > 0 {
		if err := json.Unmarshal(dc.Options, &cs.Options); err != nil {
			return casebank.Case{}, errors.Wrap(err, "unmarshalling options")
		}
	}
	return cs, nil
}

func toDBCase(cs casebank.Case) (dbCase, error) {
	specialties, err := json.Marshal(cs.Specialties)
	if err != nil {
		return dbCase{}, errors.Wrap(err, "marshalling specialties")
	}
	options, err := json.Marshal(cs.Options)
	if err != nil {
		return dbCase{}, errors.Wrap(err, "marshalling options")
	}
	return dbCase{
		ID:            cs.ID,
		Title:         cs.Title,
		Vignette:      cs.Vignette,
		Category:      cs.Category,
		Specialties:   specialties,
		Options:       options,
		CorrectOption: cs.CorrectOption,
		TeachingPoint: cs.TeachingPoint,
		Difficulty:    cs.Difficulty,
		CreatedAt:     cs.CreatedAt,
		UpdatedAt:     cs.UpdatedAt,
	}, nil
}

func toCases(dcs []dbCase) ([]casebank.Case, error) {
	cases := make([]casebank.Case, 0, len(dcs))
	for _, dc := range dcs {
		cs, err := dc.toCase()
		if err != nil {
			return nil, err
		}
		cases = append(cases, cs)
	}
	return cases, nil
}

func (repo *caseRepository) CreateCase(ctx context.Context, cs casebank.Case) (casebank.Case, error) {
	dc, err := toDBCase(cs)
	if err != nil {
		return casebank.Case{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO "case" (id, title, vignette, category, specialties, options,
		                    correct_option, teaching_point, difficulty, created_at, updated_at)
		VALUES (:id, :title, :vignette, :category, :specialties, :options,
		        :correct_option, :teaching_point, :difficulty, :created_at, :updated_at)`, dc)
	if err != nil {
		return casebank.Case{}, errors.Wrap(err, "creating case")
	}
	return cs, nil
}

func (repo *caseRepository) QueryAllCases(ctx context.Context) ([]casebank.Case, error) {
	var dcs []dbCase
	if err := repo.db.SelectContext(ctx, &dcs, `SELECT * FROM "case" ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying cases")
	}
	return toCases(dcs)
}

func (repo *caseRepository) GetCaseByID(ctx context.Context, id string) (casebank.Case, error) {
	var dc dbCase
	if err := repo.db.GetContext(ctx, &dc, `SELECT * FROM "case" WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return casebank.Case{}, casebank.ErrNotFound
		}
		return casebank.Case{}, errors.Wrap(err, "getting case by ID")
	}
	return dc.toCase()
}

func (repo *caseRepository) FilterCases(ctx context.Context, filter casebank.QueryFilter, orderings ...core.DBOrdering) ([]casebank.Case, error) {
	query := `SELECT * FROM "case" WHERE 1=1`
	var args []interface{}

	if filter.Search != "" {
		query += ` AND (title ILIKE ? OR vignette ILIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Specialty != "" {
		query += ` AND specialties @> ?`
		tag, err := json.Marshal([]string{filter.Specialty})
		if err != nil {
			return nil, errors.Wrap(err, "marshalling specialty filter")
		}
		args = append(args, tag)
	}
	if filter.Difficulty != "" {
		query += ` AND difficulty = ?`
		args = append(args, filter.Difficulty)
	}
	query += orderBy(orderings, "created_at ASC")

	var dcs []dbCase
	if err := repo.db.SelectContext(ctx, &dcs, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering cases")
	}
	return toCases(dcs)
}

func (repo *caseRepository) DeleteCasesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM "case" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting cases")
	}
	return nil
}
