// Package session holds the per-page-load cache of who is signed in.
//
// A Provider is consulted for personalization only. Access decisions are made
// by the route guard from the session cookie and never from a Provider.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/louisbranch/reading.space/internal/services/web/session"

// IdentityFetcher asks the auth backend who owns the ambient session cookie.
type IdentityFetcher interface {
	Me(ctx context.Context) (Identity, error)
}

// IdentityFetcherFunc adapts a function to IdentityFetcher.
type IdentityFetcherFunc func(ctx context.Context) (Identity, error)

// Me calls f.
func (f IdentityFetcherFunc) Me(ctx context.Context) (Identity, error) {
	return f(ctx)
}

// Snapshot is a consistent read of a Provider.
type Snapshot struct {
	Identity *Identity
	Loading  bool
	// Settled is true once any refresh has completed or SetUser has run.
	Settled bool
}

// SignedIn reports whether the snapshot carries an identity.
func (s Snapshot) SignedIn() bool {
	return s.Identity != nil
}

// State is the capability the UI tree depends on.
type State interface {
	// Mount performs the automatic initial refresh, at most once.
	Mount(ctx context.Context) Snapshot
	Refresh(ctx context.Context) Snapshot
	SetUser(identity *Identity)
	Snapshot() Snapshot
}

// Cause says why a Change was published.
type Cause int

const (
	CauseRefreshStarted Cause = iota
	CauseRefreshFinished
	CauseSetUser
)

// Change is delivered to observers after every state transition.
type Change struct {
	Cause    Cause
	Snapshot Snapshot
	// Err is the fetch failure for CauseRefreshFinished, if any.
	Err error
}

// Observer receives changes. It is called without the Provider lock held.
type Observer func(Change)

// Provider is the State implementation backed by an IdentityFetcher.
type Provider struct {
	fetcher   IdentityFetcher
	observers []Observer
	logger    *log.Logger

	mountOnce sync.Once

	mu       sync.Mutex
	identity *Identity
	inflight int
	settled  bool
	// generation advances on SetUser so that refreshes started earlier do not
	// overwrite an identity set while they were in flight.
	generation uint64
}

var _ State = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithObserver registers fn to receive every change.
func WithObserver(fn Observer) Option {
	return func(p *Provider) {
		if fn != nil {
			p.observers = append(p.observers, fn)
		}
	}
}

// WithLogger enables debug logging of refresh failures.
func WithLogger(logger *log.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// WithIdentity seeds the provider with a known identity.
func WithIdentity(identity *Identity) Option {
	return func(p *Provider) {
		p.identity = identity.clone()
		p.settled = identity != nil
	}
}

// NewProvider returns a signed-out Provider that resolves identities with
// fetcher.
func NewProvider(fetcher IdentityFetcher, opts ...Option) *Provider {
	p := &Provider{fetcher: fetcher}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mount performs the automatic initial refresh. Only the first call on a
// Provider does any work; later calls return the current snapshot.
func (p *Provider) Mount(ctx context.Context) Snapshot {
	ran := false
	var snap Snapshot
	p.mountOnce.Do(func() {
		ran = true
		snap = p.Refresh(ctx)
	})
	if !ran {
		return p.Snapshot()
	}
	return snap
}

// Refresh asks the backend for the current identity. Success stores it; any
// failure, including a panicking fetcher, leaves the Provider signed out.
// Loading is true for the duration of the call and false again on every exit
// path.
func (p *Provider) Refresh(ctx context.Context) Snapshot {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "session.Refresh")
	defer span.End()

	p.mu.Lock()
	p.inflight++
	gen := p.generation
	started := p.snapshotLocked()
	p.mu.Unlock()
	p.publish(Change{Cause: CauseRefreshStarted, Snapshot: started})

	identity, err := p.fetch(ctx)

	p.mu.Lock()
	p.inflight--
	p.settled = true
	if gen == p.generation {
		if err != nil {
			p.identity = nil
		} else {
			p.identity = &identity
		}
	}
	finished := p.snapshotLocked()
	p.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "identity unavailable")
		if p.logger != nil {
			p.logger.Printf("web: session refresh signed out err=%v", err)
		}
	}
	span.SetAttributes(attribute.Bool("session.signed_in", finished.SignedIn()))
	p.publish(Change{Cause: CauseRefreshFinished, Snapshot: finished, Err: err})
	return finished
}

func (p *Provider) fetch(ctx context.Context) (identity Identity, err error) {
	if p.fetcher == nil {
		return Identity{}, ErrNoFetcher
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			identity = Identity{}
			err = fmt.Errorf("identity fetch panicked: %v", recovered)
		}
	}()
	return p.fetcher.Me(ctx)
}

// SetUser replaces the identity synchronously. nil signs the Provider out.
func (p *Provider) SetUser(identity *Identity) {
	p.mu.Lock()
	p.identity = identity.clone()
	p.settled = true
	p.generation++
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.publish(Change{Cause: CauseSetUser, Snapshot: snap})
}

// Snapshot returns the current state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Provider) snapshotLocked() Snapshot {
	return Snapshot{
		Identity: p.identity.clone(),
		Loading:  p.inflight > 0,
		Settled:  p.settled,
	}
}

func (p *Provider) publish(c Change) {
	for _, fn := range p.observers {
		fn(c)
	}
}
