// Package watch republishes a recording document every time its file
// changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/houlog/pkg/encode"
	"github.com/bft-labs/houlog/pkg/log"
	"github.com/bft-labs/houlog/pkg/recording"
	"github.com/bft-labs/houlog/pkg/sink"
)

// Handler publishes a decoded recording.
type Handler func(ctx context.Context, rec *recording.Recording) error

// Config holds watcher timing.
type Config struct {
	// DebounceDelay is how long to wait after the last change before
	// publishing. Default: 200 milliseconds
	DebounceDelay time.Duration

	// RetryInitial and RetryMax bound the backoff between attempts while the
	// session is unavailable.
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// DefaultConfig returns a Config with default timing.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 200 * time.Millisecond,
		RetryInitial:  DefaultRetryInitial,
		RetryMax:      DefaultRetryMax,
	}
}

// Watcher monitors one document file.
type Watcher struct {
	path    string
	handler Handler
	cfg     Config
	logger  log.Logger

	mu       sync.Mutex
	debounce *time.Timer

	// publishMu serializes publishes so a slow retry loop and a new change
	// never interleave.
	publishMu sync.Mutex
	wg        sync.WaitGroup
}

// New creates a watcher for the document at path.
func New(path string, h Handler, cfg Config, logger log.Logger) *Watcher {
	if cfg.DebounceDelay < 0 {
		cfg.DebounceDelay = 0
	}
	if cfg.RetryInitial <= 0 {
		cfg.RetryInitial = DefaultRetryInitial
	}
	if cfg.RetryMax < cfg.RetryInitial {
		cfg.RetryMax = cfg.RetryInitial
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		path:    filepath.Clean(path),
		handler: h,
		cfg:     cfg,
		logger:  logger,
	}
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run publishes the current document, then republishes on every change
// until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Editors and FileSink replace the file by rename, so watch the
	// directory rather than the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.logger.Info("watching recording", log.String("path", w.path))
	w.publish(ctx)

	defer w.wg.Wait()
	defer w.stopDebounce()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.logger.Debug("recording changed", log.String("op", ev.Op.String()))
				w.schedule(ctx)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

// schedule publishes after the debounce delay, restarting the delay on
// every call.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil && w.debounce.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.debounce = time.AfterFunc(w.cfg.DebounceDelay, func() {
		defer w.wg.Done()
		w.publish(ctx)
	})
}

func (w *Watcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil && w.debounce.Stop() {
		w.wg.Done()
	}
	w.debounce = nil
}

// publish loads the document and hands it to the handler, retrying with
// backoff while the session is unavailable.
func (w *Watcher) publish(ctx context.Context) {
	w.publishMu.Lock()
	defer w.publishMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	rec, err := Load(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.logger.Debug("recording not present yet", log.String("path", w.path))
			return
		}
		w.logger.Error("load recording", log.String("path", w.path), log.Err(err))
		return
	}

	b := newBackoff(w.cfg.RetryInitial, w.cfg.RetryMax)
	for attempt := 1; ; attempt++ {
		err := w.handler(ctx, rec)
		if err == nil {
			w.logger.Info("recording published",
				log.String("path", w.path),
				log.Frames(rec.Len()),
				log.Entries(rec.EntryCount()),
				log.Int("attempt", attempt),
			)
			return
		}
		if !errors.Is(err, sink.ErrSessionUnavailable) {
			w.logger.Error("publish failed", log.Err(err))
			return
		}

		w.logger.Warn("session unavailable, retrying",
			log.Duration("backoff", b.Current()),
			log.Err(err),
		)
		if !b.Wait(ctx) {
			return
		}
	}
}

// Load reads and decodes the document at path.
func Load(path string) (*recording.Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return encode.Decode(encode.Document(data))
}
