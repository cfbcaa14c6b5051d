package sink

import (
	"context"
	"errors"

	"github.com/bft-labs/houlog/pkg/encode"
)

// Defaults for where the recording node is placed in the host scene.
const (
	DefaultNodePath = "/obj/recordings"
	DefaultNodeName = "recording"
)

// ErrSessionUnavailable is returned when the live session cannot be reached.
var ErrSessionUnavailable = errors.New("houlog: session unavailable")

// Sink transmits an encoded recording to its destination.
type Sink interface {
	// Send delivers doc and its geometry payload. Implementations must not
	// retry; failures are returned to the caller.
	Send(ctx context.Context, doc encode.Document, geo Geometry, meta Metadata) error
}

// Metadata describes the session a recording belongs to and where the host
// should place it.
type Metadata struct {
	// SessionID identifies the logging session across sends
	SessionID string

	// NodePath is the parent network the recording node is created under
	NodePath string

	// NodeName is the label of the recording node, replaced on every send
	NodeName string

	// HostInstall is the host application's install location, passed through as-is
	HostInstall string

	// Hostname is the machine the recording was made on
	Hostname string

	// OSArch is the operating system and architecture (e.g., "linux/amd64")
	OSArch string
}

// Func adapts a function to the Sink interface.
type Func func(ctx context.Context, doc encode.Document, geo Geometry, meta Metadata) error

// Send calls f.
func (f Func) Send(ctx context.Context, doc encode.Document, geo Geometry, meta Metadata) error {
	return f(ctx, doc, geo, meta)
}
