// Package log provides the logging abstraction used by houlog sessions and
// sinks.
//
// A zerolog adapter is provided for applications and a no-op logger is the
// default, so an embedded session is silent unless a logger is injected:
//
//	logger := log.NewZerologAdapter()
//	s, err := houlog.New(cfg, snk, houlog.WithLogger(logger))
//
// Implement [Logger] to route messages into an existing logging setup.
package log
