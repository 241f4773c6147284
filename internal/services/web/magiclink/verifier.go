// Package magiclink completes a passwordless sign-in from an emailed link.
//
// A Verifier runs once per page load. It exchanges the one-time token with
// the auth backend exactly once, publishes the resulting identity to the
// page's session state and schedules navigation to the signed-in landing
// page after a short delay. Every failure collapses to one generic reason.
package magiclink

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/reading.space/internal/platform/timeouts"
	"github.com/louisbranch/reading.space/internal/services/web/routepath"
	"github.com/louisbranch/reading.space/internal/services/web/session"
)

// User-facing failure reasons.
const (
	ReasonMissingToken = "no token provided"
	ReasonInvalidLink  = "invalid or expired link"
)

// Exchanger trades a one-time link token for the signed-in identity.
type Exchanger interface {
	Exchange(ctx context.Context, token string) (session.Identity, error)
}

// ExchangerFunc adapts a function to Exchanger.
type ExchangerFunc func(ctx context.Context, token string) (session.Identity, error)

// Exchange calls f.
func (f ExchangerFunc) Exchange(ctx context.Context, token string) (session.Identity, error) {
	return f(ctx, token)
}

// Navigator moves the user to another location. The web tier leaves it unset
// and has the browser navigate from Outcome.Redirect instead.
type Navigator interface {
	Navigate(to string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(to string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(to string) { f(to) }

// Timer is a scheduled call that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Redirect describes the navigation that follows a successful verification.
type Redirect struct {
	To    string
	After time.Duration
}

// Outcome is a read of the verification.
type Outcome struct {
	State State
	// Identity is set when State is StateSucceeded.
	Identity *session.Identity
	// Reason is set when State is StateFailed.
	Reason string
	// Redirect is set when State is StateSucceeded.
	Redirect *Redirect
}

// Verifier drives one verification from pending to a terminal state.
type Verifier struct {
	exchanger Exchanger
	state     session.State
	landing   string
	delay     time.Duration
	navigator Navigator
	afterFunc AfterFunc
	logger    *log.Logger
	observers []func(Outcome)

	mu      sync.Mutex
	started bool
	outcome Outcome
	timer   Timer
	done    chan struct{}
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLanding sets the post-sign-in destination.
func WithLanding(path string) Option {
	return func(v *Verifier) {
		if path != "" {
			v.landing = path
		}
	}
}

// WithDelay sets the pause before navigation.
func WithDelay(d time.Duration) Option {
	return func(v *Verifier) {
		if d >= 0 {
			v.delay = d
		}
	}
}

// WithNavigator schedules n.Navigate(landing) after a successful exchange.
func WithNavigator(n Navigator) Option {
	return func(v *Verifier) { v.navigator = n }
}

// WithAfterFunc replaces the scheduler used for delayed navigation.
func WithAfterFunc(fn AfterFunc) Option {
	return func(v *Verifier) {
		if fn != nil {
			v.afterFunc = fn
		}
	}
}

// WithLogger sets the logger for exchange failures.
func WithLogger(logger *log.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithOutcomeObserver calls fn once with the terminal outcome.
func WithOutcomeObserver(fn func(Outcome)) Option {
	return func(v *Verifier) {
		if fn != nil {
			v.observers = append(v.observers, fn)
		}
	}
}

// NewVerifier returns a pending Verifier. state receives the identity on
// success and may be nil.
func NewVerifier(exchanger Exchanger, state session.State, opts ...Option) *Verifier {
	v := &Verifier{
		exchanger: exchanger,
		state:     state,
		landing:   routepath.Landing,
		delay:     timeouts.VerifyRedirect,
		afterFunc: realAfterFunc,
		logger:    log.Default(),
		outcome:   Outcome{State: StatePending},
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run verifies token and returns the terminal outcome. Only the first Run or
// Start call does any work; later calls wait for it and return its outcome.
func (v *Verifier) Run(ctx context.Context, token string) Outcome {
	if v.claim() {
		v.verify(ctx, token)
	}
	<-v.done
	return v.Outcome()
}

// Start runs the verification on its own goroutine. Use Done and Outcome to
// observe it.
func (v *Verifier) Start(ctx context.Context, token string) {
	if !v.claim() {
		return
	}
	go v.verify(ctx, token)
}

// Done is closed once the Verifier reaches a terminal state.
func (v *Verifier) Done() <-chan struct{} {
	return v.done
}

// Outcome returns the current outcome.
func (v *Verifier) Outcome() Outcome {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.outcome
	if out.Redirect != nil {
		r := *out.Redirect
		out.Redirect = &r
	}
	if out.Identity != nil {
		id := *out.Identity
		out.Identity = &id
	}
	return out
}

// Cancel stops a scheduled navigation that has not fired yet.
func (v *Verifier) Cancel() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.timer == nil {
		return false
	}
	stopped := v.timer.Stop()
	v.timer = nil
	return stopped
}

func (v *Verifier) claim() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.started {
		return false
	}
	v.started = true
	return true
}

func (v *Verifier) verify(ctx context.Context, token string) {
	defer v.finish()
	if ctx == nil {
		ctx = context.Background()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		v.settle(Outcome{State: StateFailed, Reason: ReasonMissingToken})
		return
	}
	identity, err := v.exchange(ctx, token)
	if err != nil {
		v.logger.Printf("web: magic link exchange failed err=%v", err)
		v.settle(Outcome{State: StateFailed, Reason: ReasonInvalidLink})
		return
	}

	redirect := &Redirect{To: v.landing, After: v.delay}
	if !v.settle(Outcome{State: StateSucceeded, Identity: &identity, Redirect: redirect}) {
		return
	}
	// The identity is published before navigation is scheduled so the next
	// render already shows the signed-in user.
	if v.state != nil {
		v.state.SetUser(&identity)
	}
	if v.navigator != nil {
		to := redirect.To
		timer := v.afterFunc(redirect.After, func() { v.navigator.Navigate(to) })
		v.mu.Lock()
		v.timer = timer
		v.mu.Unlock()
	}
}

func (v *Verifier) exchange(ctx context.Context, token string) (identity session.Identity, err error) {
	if v.exchanger == nil {
		return session.Identity{}, fmt.Errorf("magiclink: exchanger is not configured")
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			identity = session.Identity{}
			err = fmt.Errorf("magiclink: exchange panicked: %v", recovered)
		}
	}()
	return v.exchanger.Exchange(ctx, token)
}

// settle moves to out.State when the transition table allows it.
func (v *Verifier) settle(out Outcome) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := transition(v.outcome.State, out.State); err != nil {
		v.logger.Printf("web: magic link %v", err)
		return false
	}
	v.outcome = out
	return true
}

func (v *Verifier) finish() {
	out := v.Outcome()
	close(v.done)
	for _, fn := range v.observers {
		fn(out)
	}
}
