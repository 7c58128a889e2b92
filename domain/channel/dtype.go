package channel

import "fmt"

// DType describes the numeric type of the samples a channel produces.
type DType uint8

const (
	DTypeUnknown DType = iota
	DTypeInt16
	DTypeInt32
	DTypeInt64
	DTypeUInt32
	DTypeFloat32
	DTypeFloat64
	DTypeComplex64
)

var dtypeNames = map[DType]string{
	DTypeInt16:     "int16",
	DTypeInt32:     "int32",
	DTypeInt64:     "int64",
	DTypeUInt32:    "uint32",
	DTypeFloat32:   "float32",
	DTypeFloat64:   "float64",
	DTypeComplex64: "complex64",
}

var dtypeValues = map[string]DType{
	"int16":     DTypeInt16,
	"int32":     DTypeInt32,
	"int64":     DTypeInt64,
	"uint32":    DTypeUInt32,
	"float32":   DTypeFloat32,
	"float64":   DTypeFloat64,
	"complex64": DTypeComplex64,
}

func (d DType) String() string {
	if s, ok := dtypeNames[d]; ok {
		return s
	}
	return "unknown"
}

// Size returns the width of one sample in bytes, or 0 when unknown.
func (d DType) Size() int {
	switch d {
	case DTypeInt16:
		return 2
	case DTypeInt32, DTypeUInt32, DTypeFloat32:
		return 4
	case DTypeInt64, DTypeFloat64, DTypeComplex64:
		return 8
	default:
		return 0
	}
}

// ParseDType resolves a type descriptor string such as "float64" or
// "int32". Unrecognized descriptors return an error wrapping
// ErrInvalidDType.
func ParseDType(s string) (DType, error) {
	d, ok := dtypeValues[s]
	if !ok {
		return DTypeUnknown, fmt.Errorf("%w: %q", ErrInvalidDType, s)
	}
	return d, nil
}
