package access

import "net/url"

type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionPassThrough
	DecisionRedirect
)

// Decision is the outcome of the access check for one request.
type Decision struct {
	Kind DecisionKind
	// Location is the redirect target; empty unless Kind is DecisionRedirect.
	Location string
}

func Allow() Decision       { return Decision{Kind: DecisionAllow} }
func PassThrough() Decision { return Decision{Kind: DecisionPassThrough} }

// RedirectLogin sends the user to the login page, carrying the original path
// so the login flow can return them afterward.
func RedirectLogin(origPath string) Decision {
	return Decision{
		Kind:     DecisionRedirect,
		Location: LoginPath + "?redirect=" + url.QueryEscape(origPath),
	}
}

func RedirectLanding() Decision {
	return Decision{Kind: DecisionRedirect, Location: DefaultLandingPath}
}

func RedirectOnboarding() Decision {
	return Decision{Kind: DecisionRedirect, Location: OnboardingPath}
}

// Decide applies the access rules in fixed order; the first matching rule
// wins. role and onboarded are the resolved profile values (already defaulted
// by the caller when the session or profile lookup failed).
func Decide(path string, class Classification, sess *Session, role string, onboarded bool) Decision {
	authed := sess != nil

	switch {
	case !authed && (class == RouteProtected || class == RouteAdmin):
		return RedirectLogin(path)

	case authed && class == RouteAuthOnly:
		if !onboarded {
			return RedirectOnboarding()
		}
		return RedirectLanding()

	case authed && class == RouteAdmin && role != roleAdmin:
		return RedirectLanding()

	case authed && class == RouteProtected && !matchPrefix(path, OnboardingPath) && !onboarded:
		return RedirectOnboarding()
	}

	// public routes, and the fallthrough-allow for unclassified paths
	return Allow()
}

const (
	roleStudent = "student"
	roleAdmin   = "admin"
)
