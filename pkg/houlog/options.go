package houlog

import "github.com/bft-labs/houlog/pkg/log"

// Option configures optional behavior of a Session.
type Option func(*options)

type options struct {
	logger    log.Logger
	sessionID string
	hostname  string
}

// WithLogger sets the logger. Without it the session logs nothing.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSessionID fixes the session identifier instead of generating one.
func WithSessionID(id string) Option {
	return func(o *options) {
		o.sessionID = id
	}
}

// WithHostname overrides the hostname reported to the sink.
func WithHostname(name string) Option {
	return func(o *options) {
		o.hostname = name
	}
}
