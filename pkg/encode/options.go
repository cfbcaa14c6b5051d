package encode

import "fmt"

// NonFinitePolicy selects how NaN and infinite values are written.
type NonFinitePolicy int

const (
	// NonFiniteFail makes Encode return an error wrapping ErrEncoding.
	NonFiniteFail NonFinitePolicy = iota
	// NonFiniteNull writes JSON null in place of the value.
	NonFiniteNull
)

// String returns the policy name as used in configuration.
func (p NonFinitePolicy) String() string {
	switch p {
	case NonFiniteFail:
		return "fail"
	case NonFiniteNull:
		return "null"
	default:
		return "unknown"
	}
}

// ParseNonFinitePolicy parses "fail" or "null".
func ParseNonFinitePolicy(s string) (NonFinitePolicy, error) {
	switch s {
	case "", "fail":
		return NonFiniteFail, nil
	case "null":
		return NonFiniteNull, nil
	default:
		return NonFiniteFail, fmt.Errorf("unknown non-finite policy %q (want fail or null)", s)
	}
}

// Option configures Encode.
type Option func(*options)

type options struct {
	nonFinite NonFinitePolicy
	prefix    string
	indent    string
}

// WithNonFinite sets the policy for NaN and infinite values.
func WithNonFinite(p NonFinitePolicy) Option {
	return func(o *options) {
		o.nonFinite = p
	}
}

// WithIndent makes Encode produce an indented document, as json.Indent does.
func WithIndent(prefix, indent string) Option {
	return func(o *options) {
		o.prefix = prefix
		o.indent = indent
	}
}
