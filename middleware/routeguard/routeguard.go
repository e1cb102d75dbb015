// Package routeguard wraps session-aware access decisions as Fiber
// middleware. It never inspects tokens itself; it asks the configured
// snapshot source for the current session state and translates the
// guard's decision into an HTTP response.
package routeguard

import (
	"github.com/gofiber/fiber/v2"

	spaces "github.com/spacehaven/go-spaces"
)

// SnapshotSource provides the current session snapshot. The session
// manager satisfies this.
type SnapshotSource interface {
	Snapshot() spaces.Snapshot
}

// Config defines the middleware configuration.
type Config struct {
	// Filter defines a function to skip the middleware.
	// Optional. Default: nil
	Filter func(*fiber.Ctx) bool

	// Source provides session snapshots. Required.
	Source SnapshotSource

	// Guard evaluates snapshots against route requirements.
	// Optional. Default: spaces.NewRouteGuard()
	Guard *spaces.RouteGuard

	// RequiredRole restricts the route to a single role.
	// Optional. Default: "" (any authenticated user)
	RequiredRole spaces.Role

	// LoadingHandler runs while session restoration is still in flight.
	// Optional. Default: 503 with a Retry-After header.
	LoadingHandler fiber.Handler
}

// New creates a Fiber handler that enforces the guard's decision:
// pass-through on allow, a see-other redirect on deny, and the loading
// handler while the session is still being restored.
func New(config ...Config) fiber.Handler {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Source == nil {
		panic("routeguard: Source is required")
	}

	if cfg.Guard == nil {
		cfg.Guard = spaces.NewRouteGuard()
	}

	if cfg.LoadingHandler == nil {
		cfg.LoadingHandler = func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}
	}

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		decision := cfg.Guard.Evaluate(cfg.Source.Snapshot(), cfg.RequiredRole)

		switch decision.Action {
		case spaces.GuardActionLoading:
			return cfg.LoadingHandler(c)
		case spaces.GuardActionRedirect:
			return c.Redirect(decision.Target, fiber.StatusSeeOther)
		default:
			return c.Next()
		}
	}
}
