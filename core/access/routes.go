package access

import "strings"

// Classification is the access tier of a URL path.
type Classification int

const (
	RouteOther Classification = iota // matched none of the lists; implicitly allowed
	RoutePublic
	RouteAuthOnly
	RouteProtected
	RouteAdmin
)

func (c Classification) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteAuthOnly:
		return "auth-only"
	case RouteProtected:
		return "protected"
	case RouteAdmin:
		return "admin"
	default:
		return "other"
	}
}

// RouteTable is the static route configuration the access controller is built
// with. It is evaluated in declaration order: Bypass first, then Public,
// AuthOnly, Protected, Admin; within a list the first matching prefix wins.
// The zero value classifies everything as RouteOther.
type RouteTable struct {
	// Bypass lists prefixes served untouched, with no session resolution:
	// static assets and API routes (the API carries its own auth).
	Bypass []string

	Public    []string
	AuthOnly  []string
	Protected []string
	Admin     []string
}

// DefaultRouteTable returns the product's route configuration.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		Bypass: []string{"/api", "/static", "/assets", "/favicon.ico"},
		Public: []string{"/", "/about", "/pricing", "/contact", "/privacy", "/terms"},
		AuthOnly: []string{
			"/login",
			"/register",
			"/forgot-password",
			"/reset-password",
		},
		Protected: []string{
			"/cases",
			"/progress",
			"/assessments",
			"/specialty",
			"/achievements",
			"/settings",
			OnboardingPath,
		},
		Admin: []string{"/admin"},
	}
}

// OnboardingPath is where incomplete users are sent; it is itself a protected
// route but exempt from the onboarding redirect.
const OnboardingPath = "/onboarding"

// DefaultLandingPath is where authenticated, onboarded users land.
const DefaultLandingPath = "/cases"

// LoginPath receives unauthenticated users, with the original path attached
// as a `redirect` query parameter.
const LoginPath = "/login"

// matchPrefix reports whether path falls under prefix.
// The root prefix "/" only matches the root path exactly; any other prefix
// matches itself and any path nested under it.
func matchPrefix(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func matchAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if matchPrefix(path, p) {
			return true
		}
	}
	return false
}

// Bypassed reports whether path matches a static-asset or API pattern and
// must be passed through with no further checks.
func (rt RouteTable) Bypassed(path string) bool {
	return matchAny(path, rt.Bypass)
}

// Classify derives the access tier for path. Paths matching none of the lists
// fall through to RouteOther, which the decision step allows regardless of
// auth state.
func (rt RouteTable) Classify(path string) Classification {
	switch {
	case matchAny(path, rt.Public):
		return RoutePublic
	case matchAny(path, rt.AuthOnly):
		return RouteAuthOnly
	case matchAny(path, rt.Protected):
		return RouteProtected
	case matchAny(path, rt.Admin):
		return RouteAdmin
	}
	return RouteOther
}
