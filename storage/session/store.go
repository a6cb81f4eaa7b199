// Package session tracks issued browser sessions so that tokens can be
// revoked server-side before they expire on their own.
package session

import (
	"context"
	"time"
)

type Store interface {
	// Touch records that sessionID was seen for userID, extending its
	// bookkeeping entry to ttl.
	Touch(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Revoke blacklists sessionID for ttl; IsRevoked reports it until then.
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	// RevokeAll blacklists every session previously Touched for userID.
	RevokeAll(ctx context.Context, userID string, ttl time.Duration) error
}
