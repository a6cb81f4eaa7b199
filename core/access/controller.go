package access

import (
	"context"
	"net/http"
)

// Controller decides, for every inbound page request, whether to serve it and
// if not where to redirect. Collaborators are injected at construction; the
// controller has no state of its own beyond the route table.
type Controller struct {
	routes   RouteTable
	sessions SessionResolver
	profiles ProfileStore
}

func NewController(routes RouteTable, sessions SessionResolver, profiles ProfileStore) *Controller {
	return &Controller{
		routes:   routes,
		sessions: sessions,
		profiles: profiles,
	}
}

// Check runs the access algorithm for one request. It never fails: a session
// resolution error degrades to anonymous, a profile lookup error falls back
// to the session's embedded metadata, defaulting to a non-onboarded student.
func (c *Controller) Check(ctx context.Context, r *http.Request) Decision {
	path := r.URL.Path

	if c.routes.Bypassed(path) {
		return PassThrough()
	}

	sess, err := c.sessions.Resolve(ctx, r)
	if err != nil {
		sess = nil // treat as anonymous
	}

	class := c.routes.Classify(path)

	role := roleStudent
	onboarded := false
	if sess != nil {
		// embedded metadata tier
		if sess.Role != "" {
			role = sess.Role
		}
		onboarded = sess.OnboardingCompleted

		// primary tier: profile store; on failure keep the embedded values
		if pRole, pOnboarded, err := c.profiles.FetchProfile(ctx, sess.Subject); err == nil {
			if pRole != "" {
				role = pRole
			}
			onboarded = pOnboarded
		}
	}

	return Decide(path, class, sess, role, onboarded)
}
