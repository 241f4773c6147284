// Package routeguard is the first filter in front of protected areas.
//
// The guard looks only at the request path and at whether the session cookie
// is present. It makes no network call and never inspects the cookie value, so
// a present-but-stale cookie passes; the auth backend rejects it on the next
// protected call.
package routeguard

import (
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/reading.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/reading.space/internal/services/web/platform/metrics"
	"github.com/louisbranch/reading.space/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/reading.space/internal/services/web/routepath"
)

// Action is the outcome of a guard decision.
type Action int

const (
	Allow Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "allow"
}

// Decision is what the guard wants done with a request.
type Decision struct {
	Action Action
	// Target is the sign-in location when Action is Redirect.
	Target string
}

// Guard decides access to a fixed set of path prefixes.
type Guard struct {
	prefixes []string
	metrics  *metrics.Metrics
	logger   *log.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithMetrics records each decision.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) { g.metrics = m }
}

// WithLogger sets the logger used for redirect decisions.
func WithLogger(logger *log.Logger) Option {
	return func(g *Guard) { g.logger = logger }
}

// New builds a guard for prefixes. Empty prefixes and trailing slashes are
// dropped; "/" is never treated as protected.
func New(prefixes []string, opts ...Option) *Guard {
	g := &Guard{}
	for _, p := range prefixes {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		g.prefixes = append(g.prefixes, p)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Default returns a guard over routepath.ProtectedPrefixes.
func Default(opts ...Option) *Guard {
	return New(routepath.ProtectedPrefixes, opts...)
}

// Protected reports whether path is one of the prefixes or lies below one.
// Matching is case-sensitive and segment-exact: "/dashboard2" is not under
// "/dashboard".
func (g *Guard) Protected(path string) bool {
	for _, prefix := range g.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Decide returns Redirect to the sign-in page, carrying path as the return
// destination, when path is protected and hasSession is false.
func (g *Guard) Decide(path string, hasSession bool) Decision {
	if hasSession || !g.Protected(path) {
		return Decision{Action: Allow}
	}
	return Decision{Action: Redirect, Target: routepath.LoginWithNext(path)}
}

// Decide evaluates path against routepath.ProtectedPrefixes.
func Decide(path string, hasSession bool) Decision {
	return defaultGuard.Decide(path, hasSession)
}

var defaultGuard = Default()

// Middleware applies the guard ahead of next.
func (g *Guard) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Decide(r.URL.Path, sessioncookie.Present(r))
			g.metrics.GuardDecision(d.Action.String())
			if d.Action == Redirect {
				if g.logger != nil {
					g.logger.Printf("web: guard redirect path=%s request_id=%s", r.URL.Path, httpx.RequestIDFromContext(r.Context()))
				}
				httpx.WriteRedirect(w, r, d.Target)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
