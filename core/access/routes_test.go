package access

import "testing"

func TestRouteTableClassify(t *testing.T) {
	rt := DefaultRouteTable()

	tests := []struct {
		path string
		want Classification
	}{
		{"/", RoutePublic},
		{"/about", RoutePublic},
		{"/pricing", RoutePublic},
		{"/login", RouteAuthOnly},
		{"/register", RouteAuthOnly},
		{"/forgot-password", RouteAuthOnly},
		{"/cases", RouteProtected},
		{"/cases/42", RouteProtected},
		{"/progress", RouteProtected},
		{"/assessments/weekly", RouteProtected},
		{"/specialty/em", RouteProtected},
		{"/achievements", RouteProtected},
		{"/settings/profile", RouteProtected},
		{"/onboarding", RouteProtected},
		{"/admin", RouteAdmin},
		{"/admin/users", RouteAdmin},

		// root prefix requires an exact match; these must not inherit "/"
		{"/blog", RouteOther},
		{"/casesandbox", RouteOther}, // prefix match is segment-aware
		{"/administrator", RouteOther},
		{"/whatever/nested", RouteOther},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := rt.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRouteTableBypassed(t *testing.T) {
	rt := DefaultRouteTable()

	tests := []struct {
		path string
		want bool
	}{
		{"/api/v1/cases", true},
		{"/api", true},
		{"/static/css/app.css", true},
		{"/assets/logo.svg", true},
		{"/favicon.ico", true},
		{"/cases", false},
		{"/", false},
		{"/apiary", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := rt.Bypassed(tt.path); got != tt.want {
				t.Errorf("Bypassed(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestZeroRouteTableClassifiesOther(t *testing.T) {
	var rt RouteTable
	if got := rt.Classify("/cases"); got != RouteOther {
		t.Errorf("Classify() = %v, want %v", got, RouteOther)
	}
}
