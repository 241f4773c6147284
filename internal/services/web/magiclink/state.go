package magiclink

import (
	"errors"
	"fmt"
)

// State is the verification progress.
type State string

const (
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

var (
	// ErrTerminalState is returned when a transition leaves a terminal state.
	ErrTerminalState = errors.New("magiclink: state is terminal")
	// ErrInvalidTransition is returned for transitions the table does not allow.
	ErrInvalidTransition = errors.New("magiclink: invalid transition")
)

var transitions = map[State][]State{
	StatePending: {StateSucceeded, StateFailed},
}

// Terminal reports whether no transition may leave s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func transition(from, to State) error {
	if from.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrTerminalState, from, to)
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
