package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ArKa3003/arkamed/core/progress"
)

type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *sql.DB) progress.Repository {
	return &progressRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *progressRepository) GetSnapshot(ctx context.Context, userID string) (progress.Snapshot, error) {
	var raw []byte
	err := repo.db.GetContext(ctx, &raw, `SELECT snapshot FROM progress_snapshot WHERE user_id = $1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return progress.Snapshot{}, progress.ErrNotFound
		}
		return progress.Snapshot{}, errors.Wrap(err, "getting snapshot")
	}

	var snap progress.Snapshot
	if err = json.Unmarshal(raw, &snap); err != nil {
		return progress.Snapshot{}, errors.Wrap(err, "unmarshalling snapshot")
	}
	return snap, nil
}

// UpdateSnapshot serializes concurrent updates for the same user by holding a
// row lock on the user's snapshot for the duration of the transaction.
func (repo *progressRepository) UpdateSnapshot(ctx context.Context, userID string, apply func(progress.Snapshot) progress.Snapshot) (progress.Snapshot, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return progress.Snapshot{}, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	// Ensure the row exists so FOR UPDATE has something to lock on first submission.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO progress_snapshot (user_id, snapshot, updated_at)
		VALUES ($1, '{}'::jsonb, $2)
		ON CONFLICT (user_id) DO NOTHING`, userID, time.Now().UTC())
	if err != nil {
		return progress.Snapshot{}, errors.Wrap(err, "initializing snapshot row")
	}

	var raw []byte
	err = tx.GetContext(ctx, &raw, `SELECT snapshot FROM progress_snapshot WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		return progress.Snapshot{}, errors.Wrap(err, "locking snapshot row")
	}

	var prev progress.Snapshot
	if err = json.Unmarshal(raw, &prev); err != nil {
		return progress.Snapshot{}, errors.Wrap(err, "unmarshalling snapshot")
	}

	next := apply(prev)

	raw, err = json.Marshal(next)
	if err != nil {
		return progress.Snapshot{}, errors.Wrap(err, "marshalling snapshot")
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE progress_snapshot SET snapshot = $1, updated_at = $2 WHERE user_id = $3`,
		raw, time.Now().UTC(), userID)
	if err != nil {
		return progress.Snapshot{}, errors.Wrap(err, "updating snapshot")
	}

	if err = tx.Commit(); err != nil {
		return progress.Snapshot{}, errors.Wrap(err, "committing transaction")
	}
	return next, nil
}
