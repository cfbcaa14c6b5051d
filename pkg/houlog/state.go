package houlog

import (
	"fmt"

	"github.com/bft-labs/houlog/pkg/log"
)

// State is the lifecycle state of a Session.
type State int

const (
	// StateUninitialized is the zero value: the session was not created with New.
	StateUninitialized State = iota
	// StateInitialized means the session is ready and nothing has been logged.
	StateInitialized
	// StateLogging means entries or frames were added since the last send.
	StateLogging
	// StateSent means the last Flush delivered the recording.
	StateSent
	// StateClosed is terminal.
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInitialized:
		return "Initialized"
	case StateLogging:
		return "Logging"
	case StateSent:
		return "Sent"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// canTransition reports whether from -> to is allowed.
func canTransition(from, to State) bool {
	switch from {
	case StateUninitialized:
		return to == StateInitialized
	case StateInitialized:
		return to == StateLogging || to == StateSent || to == StateClosed
	case StateLogging:
		return to == StateLogging || to == StateSent || to == StateClosed
	case StateSent:
		return to == StateLogging || to == StateSent || to == StateClosed
	default:
		return false
	}
}

// transition moves the session to next, logging the change. Callers hold s.mu.
func (s *Session) transition(next State, reason string) error {
	prev := s.state
	if !canTransition(prev, next) {
		switch prev {
		case StateUninitialized:
			return ErrUninitialized
		case StateClosed:
			return ErrClosed
		default:
			return fmt.Errorf("houlog: invalid transition %s -> %s", prev, next)
		}
	}
	s.state = next
	if prev != next {
		s.logger.Debug("state transition",
			log.String("from", prev.String()),
			log.String("to", next.String()),
			log.String("reason", reason),
		)
	}
	return nil
}
