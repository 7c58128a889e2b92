// Package units provides the small physical-units capability consumed by
// the channel domain: parsing unit symbols, building quantities, and
// converting between compatible units. It covers the symbols that appear in
// instrumentation channel metadata rather than a full units system.
package units

import (
	"errors"
	"fmt"
	"strconv"
)

// Dimension identifies the physical dimension of a Unit.
type Dimension uint8

const (
	Dimensionless Dimension = iota
	Frequency
	Time
	Voltage
	Length
)

func (d Dimension) String() string {
	switch d {
	case Dimensionless:
		return "dimensionless"
	case Frequency:
		return "frequency"
	case Time:
		return "time"
	case Voltage:
		return "voltage"
	case Length:
		return "length"
	default:
		return "unknown"
	}
}

// Unit is a named physical unit. Scale is the multiplier to the base unit
// of its dimension (Hz, s, V, m).
type Unit struct {
	Symbol string
	Dim    Dimension
	Scale  float64
}

// IsZero reports whether u is the zero Unit (no unit at all, as opposed to
// an explicitly dimensionless unit such as "counts").
func (u Unit) IsZero() bool {
	return u.Symbol == "" && u.Scale == 0
}

func (u Unit) String() string {
	return u.Symbol
}

var (
	// ErrUnknownUnit is returned by Parse for unit symbols outside the table.
	ErrUnknownUnit = errors.New("units: unknown unit")

	// ErrIncompatibleDimensions is returned when converting or comparing
	// quantities of different dimensions.
	ErrIncompatibleDimensions = errors.New("units: incompatible dimensions")
)

// Symbols are case-sensitive: "mHz" and "MHz" differ by nine orders of
// magnitude.
var table = map[string]Unit{
	"Hz":  {Symbol: "Hz", Dim: Frequency, Scale: 1},
	"mHz": {Symbol: "mHz", Dim: Frequency, Scale: 1e-3},
	"kHz": {Symbol: "kHz", Dim: Frequency, Scale: 1e3},
	"MHz": {Symbol: "MHz", Dim: Frequency, Scale: 1e6},
	"GHz": {Symbol: "GHz", Dim: Frequency, Scale: 1e9},

	"s":  {Symbol: "s", Dim: Time, Scale: 1},
	"ms": {Symbol: "ms", Dim: Time, Scale: 1e-3},
	"us": {Symbol: "us", Dim: Time, Scale: 1e-6},

	"V":  {Symbol: "V", Dim: Voltage, Scale: 1},
	"mV": {Symbol: "mV", Dim: Voltage, Scale: 1e-3},
	"uV": {Symbol: "uV", Dim: Voltage, Scale: 1e-6},

	"m":  {Symbol: "m", Dim: Length, Scale: 1},
	"mm": {Symbol: "mm", Dim: Length, Scale: 1e-3},
	"um": {Symbol: "um", Dim: Length, Scale: 1e-6},
	"nm": {Symbol: "nm", Dim: Length, Scale: 1e-9},
	"km": {Symbol: "km", Dim: Length, Scale: 1e3},

	"counts": {Symbol: "counts", Dim: Dimensionless, Scale: 1},
	"ct":     {Symbol: "ct", Dim: Dimensionless, Scale: 1},
	"strain": {Symbol: "strain", Dim: Dimensionless, Scale: 1},
}

// Parse resolves a unit symbol to a Unit. Unrecognized symbols return an
// error wrapping ErrUnknownUnit.
func Parse(s string) (Unit, error) {
	u, ok := table[s]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
	return u, nil
}

// Quantity is a numeric value with a unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Hertz builds a frequency quantity in hertz.
func Hertz(v float64) Quantity {
	return Quantity{Value: v, Unit: table["Hz"]}
}

// Hz converts a frequency quantity to a plain hertz value. Quantities of
// any other dimension return an error wrapping ErrIncompatibleDimensions.
func (q Quantity) Hz() (float64, error) {
	if q.Unit.Dim != Frequency {
		return 0, fmt.Errorf("%w: cannot express %s as Hz", ErrIncompatibleDimensions, q.Unit.Dim)
	}
	return q.Value * q.Unit.Scale, nil
}

// Convert re-expresses q in the target unit. The dimensions must match.
func (q Quantity) Convert(to Unit) (Quantity, error) {
	if q.Unit.Dim != to.Dim {
		return Quantity{}, fmt.Errorf("%w: %s to %s", ErrIncompatibleDimensions, q.Unit.Dim, to.Dim)
	}
	return Quantity{Value: q.Value * q.Unit.Scale / to.Scale, Unit: to}, nil
}

func (q Quantity) String() string {
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit.Symbol
}
