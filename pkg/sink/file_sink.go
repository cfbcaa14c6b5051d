package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/houlog/pkg/encode"
	"github.com/bft-labs/houlog/pkg/log"
)

// GeometrySuffix is appended to the document path for the geometry file.
const GeometrySuffix = ".geo.json"

// FileSink writes each recording to disk, replacing the previous one. The
// document goes to path and the geometry payload to path + GeometrySuffix.
type FileSink struct {
	path   string
	logger log.Logger
}

// NewFileSink creates a sink writing to path.
func NewFileSink(path string, logger log.Logger) *FileSink {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &FileSink{path: path, logger: logger}
}

// Path returns the document path.
func (s *FileSink) Path() string {
	return s.path
}

// GeometryPath returns the geometry payload path.
func (s *FileSink) GeometryPath() string {
	return s.path + GeometrySuffix
}

// Send writes the document and geometry atomically.
func (s *FileSink) Send(ctx context.Context, doc encode.Document, geo Geometry, meta Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	geoJSON, err := json.MarshalIndent(geo, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal geometry: %w", err)
	}

	if err := writeAtomic(s.GeometryPath(), geoJSON); err != nil {
		return fmt.Errorf("write geometry: %w", err)
	}
	if err := writeAtomic(s.path, doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	s.logger.Debug("recording written",
		log.String("path", s.path),
		log.Bytes(len(doc)),
		log.Int("points", geo.PointCount),
	)
	return nil
}

// writeAtomic writes to a temp file and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
