package channel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/isunspot/chankit/pkg/units"
)

// Channel represents one named, typed, physically quantified data source.
//
// The name is the single source of truth for identity: the derived Name
// components are recomputed atomically whenever the name is set and cannot
// be changed independently. Attribute setters validate on every assignment.
//
// Channel is a plain value with no internal locking; callers mutating one
// instance from multiple goroutines must synchronize externally.
type Channel struct {
	name   string
	parsed Name

	sampleRate *units.Quantity
	unit       *units.Unit
	dtype      DType
	model      string
}

// Option configures a Channel during construction. Option values pass
// through the same validation as the corresponding setters.
type Option func(*Channel) error

// WithSampleRate sets the sampling rate. It accepts a numeric value (any Go
// integer or float type, taken as hertz), a numeric string, or a
// units.Quantity with frequency dimension.
func WithSampleRate(v any) Option {
	return func(c *Channel) error { return c.SetSampleRate(v) }
}

// WithUnit sets the data unit from a unit symbol.
func WithUnit(symbol string) Option {
	return func(c *Channel) error { return c.SetUnit(symbol) }
}

// WithDType sets the numeric type.
func WithDType(d DType) Option {
	return func(c *Channel) error { return c.SetDType(d) }
}

// WithDTypeName sets the numeric type from its string descriptor.
func WithDTypeName(s string) Option {
	return func(c *Channel) error {
		d, err := ParseDType(s)
		if err != nil {
			return err
		}
		return c.SetDType(d)
	}
}

// WithModel sets the producer model identifier.
func WithModel(m string) Option {
	return func(c *Channel) error {
		c.SetModel(m)
		return nil
	}
}

// WithName overrides the channel name (and therefore the derived
// components).
func WithName(name string) Option {
	return func(c *Channel) error {
		c.SetName(name)
		return nil
	}
}

// New creates a Channel with the given name and optional attributes.
func New(name string, opts ...Option) (Channel, error) {
	var c Channel
	c.SetName(name)
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return Channel{}, err
		}
	}
	return c, nil
}

// From creates a Channel as a copy of other with selective overrides: every
// field not overridden by an option is taken from the source, including its
// name.
func From(other Channel, opts ...Option) (Channel, error) {
	c := other
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return Channel{}, err
		}
	}
	return c, nil
}

// Name returns the canonical channel name.
func (c Channel) Name() string { return c.name }

// Components returns the derived name components. They are always
// consistent with Name.
func (c Channel) Components() Name { return c.parsed }

// Observatory returns the site prefix, e.g. "H1", or "" if absent.
func (c Channel) Observatory() string { return c.parsed.Observatory }

// System returns the instrumental system, e.g. "PSL", or "" if absent.
func (c Channel) System() string { return c.parsed.System }

// Subsystem returns the instrumental subsystem, or "" if absent.
func (c Channel) Subsystem() string { return c.parsed.Subsystem }

// Signal returns the instrumental signal, or "" if absent.
func (c Channel) Signal() string { return c.parsed.Signal }

// SetName stores the name and recomputes the derived components in one
// step. This is the only way the derived components change.
func (c *Channel) SetName(name string) {
	c.name = name
	c.parsed = ParseName(name)
}

// SampleRate returns the sampling rate and whether it is known.
func (c Channel) SampleRate() (units.Quantity, bool) {
	if c.sampleRate == nil {
		return units.Quantity{}, false
	}
	return *c.sampleRate, true
}

// SetSampleRate sets the sampling rate. A units.Quantity is stored as-is
// after a dimension check; nil clears the rate; any numeric value or
// numeric string is wrapped as hertz. Anything else, a negative rate, or a
// non-frequency quantity returns an error wrapping ErrInvalidSampleRate.
func (c *Channel) SetSampleRate(v any) error {
	switch rate := v.(type) {
	case nil:
		c.sampleRate = nil
		return nil
	case units.Quantity:
		if _, err := rate.Hz(); err != nil {
			return fmt.Errorf("%w: %s is not a frequency", ErrInvalidSampleRate, rate)
		}
		return c.storeRate(rate)
	case float64:
		return c.storeRate(units.Hertz(rate))
	case float32:
		return c.storeRate(units.Hertz(float64(rate)))
	case int:
		return c.storeRate(units.Hertz(float64(rate)))
	case int32:
		return c.storeRate(units.Hertz(float64(rate)))
	case int64:
		return c.storeRate(units.Hertz(float64(rate)))
	case uint:
		return c.storeRate(units.Hertz(float64(rate)))
	case string:
		f, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not numeric", ErrInvalidSampleRate, rate)
		}
		return c.storeRate(units.Hertz(f))
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidSampleRate, v)
	}
}

func (c *Channel) storeRate(q units.Quantity) error {
	if q.Value < 0 {
		return fmt.Errorf("%w: rate must be non-negative, got %s", ErrInvalidSampleRate, q)
	}
	c.sampleRate = &q
	return nil
}

// Unit returns the data unit and whether it is known.
func (c Channel) Unit() (units.Unit, bool) {
	if c.unit == nil {
		return units.Unit{}, false
	}
	return *c.unit, true
}

// SetUnit resolves a unit symbol through the units capability. An empty
// symbol clears the unit; parse errors propagate unchanged.
func (c *Channel) SetUnit(symbol string) error {
	if symbol == "" {
		c.unit = nil
		return nil
	}
	u, err := units.Parse(symbol)
	if err != nil {
		return err
	}
	c.unit = &u
	return nil
}

// DType returns the numeric type, DTypeUnknown when not set.
func (c Channel) DType() DType { return c.dtype }

// SetDType sets the numeric type. Descriptors outside the known set return
// an error wrapping ErrInvalidDType.
func (c *Channel) SetDType(d DType) error {
	if d != DTypeUnknown {
		if _, ok := dtypeNames[d]; !ok {
			return fmt.Errorf("%w: %d", ErrInvalidDType, d)
		}
	}
	c.dtype = d
	return nil
}

// Model returns the producer model identifier, "" when not set.
func (c Channel) Model() string { return c.model }

// SetModel stores the model identifier lower-cased. Empty passes through
// unchanged.
func (c *Channel) SetModel(m string) {
	c.model = strings.ToLower(m)
}

func (c Channel) String() string { return c.name }
