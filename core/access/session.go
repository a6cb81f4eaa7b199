package access

import (
	"context"
	"net/http"
)

// Session identifies one authenticated principal for the duration of a request.
// Role and OnboardingCompleted carry the metadata embedded in the session
// itself; they are the fallback tier when the profile store is unreachable.
type Session struct {
	Subject             string
	Email               string
	Role                string
	OnboardingCompleted bool
}

type (
	// SessionResolver resolves the current session from a request, talking to
	// the external auth collaborator. It returns nil when the request is
	// anonymous. Resolution includes any cookie refresh/rotation side effects.
	SessionResolver interface {
		Resolve(ctx context.Context, r *http.Request) (*Session, error)
	}

	// ProfileStore fetches role and onboarding-completion by subject id.
	ProfileStore interface {
		FetchProfile(ctx context.Context, subject string) (role string, onboardingCompleted bool, err error)
	}
)
