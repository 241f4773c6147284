package session

import (
	"context"
	"errors"
)

// ErrNoFetcher is reported by Refresh on a Provider built without a fetcher.
var ErrNoFetcher = errors.New("session: identity fetcher is not configured")

type stateKey struct{}

// WithState returns a context carrying state for the rest of the request.
func WithState(ctx context.Context, state State) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, stateKey{}, state)
}

// FromContext returns the State stored by WithState.
func FromContext(ctx context.Context) (State, bool) {
	if ctx == nil {
		return nil, false
	}
	state, ok := ctx.Value(stateKey{}).(State)
	return state, ok && state != nil
}

// Current returns the snapshot of the request's State, or a signed-out
// snapshot when none is attached.
func Current(ctx context.Context) Snapshot {
	state, ok := FromContext(ctx)
	if !ok {
		return Snapshot{}
	}
	return state.Snapshot()
}
