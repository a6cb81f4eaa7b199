package dummydb

import (
	"sync"

	"github.com/ArKa3003/arkamed/core/casebank"
	"github.com/ArKa3003/arkamed/core/progress"
	"github.com/ArKa3003/arkamed/core/user"
)

type (
	DB struct {
		user     *userTable
		casebank *caseTable
		progress *progressTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	caseTable struct {
		sync.RWMutex
		table map[string]*casebank.Case
	}

	progressTable struct {
		sync.RWMutex
		table map[string]*progress.Snapshot
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		casebank: &caseTable{table: make(map[string]*casebank.Case)},
		progress: &progressTable{table: make(map[string]*progress.Snapshot)},
	}
	return db, nil
}
