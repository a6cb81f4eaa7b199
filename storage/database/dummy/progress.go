package dummydb

import (
	"context"

	"github.com/ArKa3003/arkamed/core/progress"
)

type progressRepository struct {
	db *progressTable
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.progress}
}

func (repo *progressRepository) GetSnapshot(ctx context.Context, userID string) (progress.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if snap, ok := repo.db.table[userID]; ok {
		return *snap, nil
	}
	return progress.Snapshot{}, progress.ErrNotFound
}

// UpdateSnapshot serializes updates for all users behind the table write lock,
// which trivially satisfies the per-user serialization contract.
func (repo *progressRepository) UpdateSnapshot(ctx context.Context, userID string, apply func(progress.Snapshot) progress.Snapshot) (progress.Snapshot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var prev progress.Snapshot
	if snap, ok := repo.db.table[userID]; ok {
		prev = *snap
	}
	next := apply(prev)
	repo.db.table[userID] = &next
	return next, nil
}
