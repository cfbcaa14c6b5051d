// Package houlog records per-frame 3D debugging data and pushes it to a live
// session in a host application.
//
// A Session is the explicit context every operation goes through. It owns
// the recording, the sink it flushes to and the encoding policies:
//
//	s, err := houlog.New(houlog.DefaultConfig(), sink.NewHTTPSink(url, client, logger))
//	if err != nil {
//	    return err
//	}
//	defer s.Close(ctx)
//
//	for step := range steps {
//	    _ = s.Log("target", geom.Point(target))
//	    _ = s.Log("path", geom.Polyline{Points: path})
//	    _ = s.NextFrame()
//	}
//	if err := s.Flush(ctx); err != nil {
//	    return err
//	}
//
// Methods are safe to call from multiple goroutines. Flush holds the session
// for the duration of the send.
package houlog

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/houlog/pkg/encode"
	"github.com/bft-labs/houlog/pkg/geom"
	"github.com/bft-labs/houlog/pkg/log"
	"github.com/bft-labs/houlog/pkg/recording"
	"github.com/bft-labs/houlog/pkg/sink"
)

// Session accumulates a recording and flushes it to a sink. The zero value
// is uninitialized; use New.
type Session struct {
	mu       sync.Mutex
	cfg      Config
	sink     sink.Sink
	logger   log.Logger
	id       string
	hostname string

	rec      *recording.Recording
	state    State
	modified bool
}

// New creates a session that flushes to snk.
func New(cfg Config, snk sink.Sink, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if snk == nil {
		return nil, fmt.Errorf("%w: sink is required", ErrInvalidConfig)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.sessionID == "" {
		o.sessionID = uuid.NewString()
	}
	if o.hostname == "" {
		o.hostname = hostname()
	}

	s := &Session{
		cfg:      cfg,
		sink:     snk,
		logger:   o.logger,
		id:       o.sessionID,
		hostname: o.hostname,
		rec:      recording.New(),
		// A fresh session always sends on the first flush, even if empty, so
		// the host node is (re)created.
		modified: true,
	}
	if err := s.transition(StateInitialized, "New() called"); err != nil {
		return nil, err
	}

	s.logger.Info("session initialized",
		log.String("session", s.id),
		log.String("node", cfg.NodePath+"/"+cfg.NodeName),
		log.String("retention", cfg.Retention.String()),
		log.String("non_finite", cfg.NonFinite.String()),
	)
	return s, nil
}

// ID returns the session identifier sent with every flush.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	if s == nil {
		return StateUninitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Log converts v to its canonical shape and appends it to the current frame
// under name.
func (s *Session) Log(name string, v geom.Loggable) error {
	if s == nil {
		return ErrUninitialized
	}
	if v == nil {
		return fmt.Errorf("houlog: nil value logged as %q", name)
	}
	shape := v.Shape()
	if shape == nil {
		return fmt.Errorf("houlog: %T converted to a nil shape", v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.transition(StateLogging, "Log() called"); err != nil {
		return err
	}
	s.rec.Log(name, shape)
	s.modified = true
	return nil
}

// NextFrame closes the current frame and starts a new one.
func (s *Session) NextFrame() error {
	if s == nil {
		return ErrUninitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.transition(StateLogging, "NextFrame() called"); err != nil {
		return err
	}
	s.rec.Advance()
	s.modified = true
	return nil
}

// Replace swaps the session's recording for a copy of rec. Logging resumes
// in rec's last frame.
func (s *Session) Replace(rec *recording.Recording) error {
	if s == nil {
		return ErrUninitialized
	}
	if rec == nil {
		rec = recording.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.transition(StateLogging, "Replace() called"); err != nil {
		return err
	}
	s.rec = rec.Clone()
	s.modified = true
	return nil
}

// Frame returns the index of the frame Log currently writes into.
func (s *Session) Frame() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return 0
	}
	return s.rec.Current()
}

// Snapshot returns a copy of the recording.
func (s *Session) Snapshot() (*recording.Recording, error) {
	if s == nil {
		return nil, ErrUninitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return nil, err
	}
	return s.rec.Clone(), nil
}

// Encode returns the document the next Flush would send.
func (s *Session) Encode() (encode.Document, error) {
	if s == nil {
		return nil, ErrUninitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return nil, err
	}
	return encode.Encode(s.rec, encode.WithNonFinite(s.cfg.NonFinite))
}

// Flush encodes the recording and sends it. It does nothing if nothing
// changed since the last successful send. Under RetainClearOnSend the
// recording is reset after a successful send; on failure it is kept.
func (s *Session) Flush(ctx context.Context) error {
	if s == nil {
		return ErrUninitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	return s.flushLocked(ctx)
}

// Close flushes any pending data and moves the session to its terminal
// state. The session is closed even if the final flush fails; that error is
// returned.
func (s *Session) Close(ctx context.Context) error {
	if s == nil {
		return ErrUninitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}

	err := s.flushLocked(ctx)
	if err != nil {
		s.logger.Error("final flush failed", log.String("session", s.id), log.Err(err))
	}
	_ = s.transition(StateClosed, "Close() called")
	return err
}

func (s *Session) flushLocked(ctx context.Context) error {
	if !s.modified {
		s.logger.Debug("flush skipped, nothing changed", log.String("session", s.id))
		return nil
	}

	opts := []encode.Option{encode.WithNonFinite(s.cfg.NonFinite)}
	doc, err := encode.Encode(s.rec, opts...)
	if err != nil {
		return err
	}
	geo, err := sink.BuildGeometry(s.rec, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	frames, entries := s.rec.Len(), s.rec.EntryCount()
	if err := s.sink.Send(ctx, doc, geo, s.metadata()); err != nil {
		s.logger.Warn("send failed",
			log.String("session", s.id),
			log.Frames(frames),
			log.Entries(entries),
			log.Err(err),
		)
		return fmt.Errorf("send recording: %w", err)
	}

	s.modified = false
	if s.cfg.Retention == RetainClearOnSend {
		s.rec.Reset()
	}
	if err := s.transition(StateSent, "Flush() succeeded"); err != nil {
		return err
	}

	s.logger.Info("recording sent",
		log.String("session", s.id),
		log.Frames(frames),
		log.Entries(entries),
		log.Bytes(len(doc)),
		log.Duration("took", time.Since(start)),
	)
	return nil
}

// usable reports ErrUninitialized or ErrClosed. Callers hold s.mu.
func (s *Session) usable() error {
	switch {
	case s.state == StateClosed:
		return ErrClosed
	case s.state == StateUninitialized || s.rec == nil || s.sink == nil:
		return ErrUninitialized
	}
	return nil
}

func (s *Session) metadata() sink.Metadata {
	return sink.Metadata{
		SessionID:   s.id,
		NodePath:    s.cfg.NodePath,
		NodeName:    s.cfg.NodeName,
		HostInstall: s.cfg.HostInstall,
		Hostname:    s.hostname,
		OSArch:      runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// hostname returns the current hostname.
func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
