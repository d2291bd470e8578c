package auth

// RouteKind classifies a route for the navigation guard.
type RouteKind int

const (
	// RoutePublic renders for everyone.
	RoutePublic RouteKind = iota
	// RoutePublicOnly renders only for signed-out visitors (login, register).
	RoutePublicOnly
	// RouteProtected requires a live session.
	RouteProtected
)

// GuardState is the guard's view of the current visitor. Checking means the
// session backend could not be consulted yet (transient store failure); it is
// never collapsed into "signed out".
type GuardState struct {
	Checking      bool
	Authenticated bool
}

// GuardDecision is the single outcome of a guard evaluation.
type GuardDecision int

const (
	DecideAllow GuardDecision = iota
	DecideRedirectLogin
	DecideRedirectDashboard
	DecideShowLoader
)

// Decide evaluates the guard for one navigation. It is pure: every
// combination of state and route kind yields exactly one decision, and the
// decision is made before any view data fetching runs.
func Decide(st GuardState, route RouteKind) GuardDecision {
	if route == RoutePublic {
		return DecideAllow
	}
	if st.Checking {
		return DecideShowLoader
	}
	switch route {
	case RoutePublicOnly:
		if st.Authenticated {
			return DecideRedirectDashboard
		}
	case RouteProtected:
		if !st.Authenticated {
			return DecideRedirectLogin
		}
	}
	return DecideAllow
}
