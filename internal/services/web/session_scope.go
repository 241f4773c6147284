package web

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/louisbranch/reading.space/internal/services/web/authclient"
	"github.com/louisbranch/reading.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/reading.space/internal/services/web/platform/metrics"
	"github.com/louisbranch/reading.space/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/reading.space/internal/services/web/session"
)

// errNoSessionCookie short-circuits identity lookups for anonymous requests.
var errNoSessionCookie = errors.New("web: no session cookie")

type backendKey struct{}

// withSessionState gives every request its own auth backend conversation and
// Session State Provider. Both live only as long as the request.
func withSessionState(auth *authclient.Client, m *metrics.Metrics, debug *log.Logger) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			backend := auth.ForRequest(r)
			hasCookie := sessioncookie.Present(r)
			fetcher := session.IdentityFetcherFunc(func(ctx context.Context) (session.Identity, error) {
				if !hasCookie {
					return session.Identity{}, errNoSessionCookie
				}
				return backend.Me(ctx)
			})
			provider := session.NewProvider(fetcher,
				session.WithLogger(debug),
				session.WithObserver(func(c session.Change) {
					if c.Cause == session.CauseRefreshFinished {
						m.Refresh(c.Snapshot.SignedIn())
					}
				}),
			)
			ctx := context.WithValue(r.Context(), backendKey{}, backend)
			ctx = session.WithState(ctx, provider)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func backendFromRequest(r *http.Request) (*authclient.Session, bool) {
	if r == nil {
		return nil, false
	}
	backend, ok := r.Context().Value(backendKey{}).(*authclient.Session)
	return backend, ok && backend != nil
}

// mountSession runs the request Provider's initial refresh. The verification
// page never calls it: the Verifier publishes the identity itself.
func mountSession(r *http.Request) session.Snapshot {
	state, ok := session.FromContext(r.Context())
	if !ok {
		return session.Snapshot{}
	}
	return state.Mount(r.Context())
}
