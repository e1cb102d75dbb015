package spaces

// GuardAction is the rendering decision for a protected destination.
type GuardAction string

const (
	// GuardActionLoading holds rendering while the session is hydrating.
	GuardActionLoading GuardAction = "loading"
	// GuardActionRedirect sends the visitor to Decision.Target.
	GuardActionRedirect GuardAction = "redirect"
	// GuardActionAllow renders the protected content.
	GuardActionAllow GuardAction = "allow"
)

// GuardDecision is the outcome of evaluating a snapshot against a guard.
type GuardDecision struct {
	Action GuardAction
	Target string
}

// RouteGuard gates protected destinations on session state and an optional
// required role. It is a pure decision function: no side effects, no
// navigation of its own. Anonymous visitors are sent to the login view;
// authenticated visitors whose role does not match the requirement are
// sent to the dashboard rather than shown an error.
type RouteGuard struct {
	loginPath     string
	dashboardPath string
}

// RouteGuardOption customizes guard construction.
type RouteGuardOption func(*RouteGuard)

// WithGuardLoginPath overrides the anonymous redirect target.
func WithGuardLoginPath(path string) RouteGuardOption {
	return func(g *RouteGuard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithGuardDashboardPath overrides the role-mismatch redirect target.
func WithGuardDashboardPath(path string) RouteGuardOption {
	return func(g *RouteGuard) {
		if path != "" {
			g.dashboardPath = path
		}
	}
}

// NewRouteGuard returns a guard with the default redirect targets.
func NewRouteGuard(opts ...RouteGuardOption) *RouteGuard {
	g := &RouteGuard{
		loginPath:     PathLogin,
		dashboardPath: PathDashboard,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Evaluate decides how a protected destination should render for the given
// session snapshot. An empty requiredRole only requires authentication.
func (g *RouteGuard) Evaluate(snapshot Snapshot, requiredRole Role) GuardDecision {
	if snapshot.Loading() {
		return GuardDecision{Action: GuardActionLoading}
	}

	if !snapshot.IsAuthenticated() {
		return GuardDecision{Action: GuardActionRedirect, Target: g.loginPath}
	}

	if requiredRole != "" && snapshot.Role() != requiredRole {
		return GuardDecision{Action: GuardActionRedirect, Target: g.dashboardPath}
	}

	return GuardDecision{Action: GuardActionAllow}
}
