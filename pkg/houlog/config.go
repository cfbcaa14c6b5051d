package houlog

import (
	"fmt"

	"github.com/bft-labs/houlog/pkg/encode"
	"github.com/bft-labs/houlog/pkg/sink"
)

// RetentionPolicy decides what happens to the recording after a send.
type RetentionPolicy int

const (
	// RetainAccumulate keeps every frame; each send carries the full history.
	RetainAccumulate RetentionPolicy = iota
	// RetainClearOnSend starts a fresh recording after every successful send.
	RetainClearOnSend
)

// String returns the policy name as used in configuration.
func (p RetentionPolicy) String() string {
	switch p {
	case RetainAccumulate:
		return "accumulate"
	case RetainClearOnSend:
		return "clear-on-send"
	default:
		return "unknown"
	}
}

// Config holds session settings. Use DefaultConfig and override fields.
type Config struct {
	// NodePath is the host network the recording node is created under.
	NodePath string

	// NodeName labels the recording node; it is replaced on every send.
	NodeName string

	// HostInstall is the host application's install location (HFS).
	// It is forwarded to the sink untouched.
	HostInstall string

	Retention RetentionPolicy
	NonFinite encode.NonFinitePolicy
}

// DefaultConfig returns a Config with the standard node placement,
// accumulating retention and fail-fast encoding.
func DefaultConfig() Config {
	return Config{
		NodePath:  sink.DefaultNodePath,
		NodeName:  sink.DefaultNodeName,
		Retention: RetainAccumulate,
		NonFinite: encode.NonFiniteFail,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.NodePath == "" {
		return fmt.Errorf("%w: node path is required", ErrInvalidConfig)
	}
	if c.NodeName == "" {
		return fmt.Errorf("%w: node name is required", ErrInvalidConfig)
	}
	if c.Retention != RetainAccumulate && c.Retention != RetainClearOnSend {
		return fmt.Errorf("%w: unknown retention policy %d", ErrInvalidConfig, c.Retention)
	}
	if c.NonFinite != encode.NonFiniteFail && c.NonFinite != encode.NonFiniteNull {
		return fmt.Errorf("%w: unknown non-finite policy %d", ErrInvalidConfig, c.NonFinite)
	}
	return nil
}
