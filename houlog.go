// Package houlog records per-frame 3D debugging data and inspects it in a
// host application through a live session.
//
// Example usage:
//
//	s, err := houlog.NewLive(houlog.DefaultBridgeURL, houlog.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close(context.Background())
//
//	_ = s.Log("origin", geom.Point{})
//	_ = s.NextFrame()
//	if err := s.Flush(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// The session types live in pkg/houlog; this package wires them to the
// standard sinks.
package houlog

import (
	"net/http"
	"time"

	session "github.com/bft-labs/houlog/pkg/houlog"
	"github.com/bft-labs/houlog/pkg/sink"
)

// DefaultBridgeURL is where the live-session bridge listens by default.
const DefaultBridgeURL = "http://127.0.0.1:9090"

// DefaultTimeout bounds a single push to the bridge.
const DefaultTimeout = 15 * time.Second

// Session is the explicit logging context.
type Session = session.Session

// Config holds session settings.
type Config = session.Config

// Option configures optional behavior of a Session.
type Option = session.Option

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return session.DefaultConfig()
}

// NewLive creates a session that pushes to the live-session bridge at
// bridgeURL.
func NewLive(bridgeURL string, cfg Config, opts ...Option) (*Session, error) {
	client := &http.Client{Timeout: DefaultTimeout}
	return session.New(cfg, sink.NewHTTPSink(bridgeURL, client, nil), opts...)
}

// NewFile creates a session that writes the recording to path on every
// flush.
func NewFile(path string, cfg Config, opts ...Option) (*Session, error) {
	return session.New(cfg, sink.NewFileSink(path, nil), opts...)
}

// Re-exported session errors.
var (
	ErrUninitialized = session.ErrUninitialized
	ErrClosed        = session.ErrClosed
)
