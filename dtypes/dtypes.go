// Package dtypes defines the runtime element types supported by feedline
// containers and the generic dispatch machinery that bridges a runtime
// DataType tag to compile-time typed kernels.
package dtypes

import (
	"fmt"
	"strings"

	"github.com/x448/float16"
)

// DataType is the runtime tag for a container element type. Every tag maps to
// exactly one Go type, and every supported Go type has exactly one tag.
type DataType int

const (
	NoType DataType = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Int64
	Float16
	Float32
	Float64
)

// Native is the constraint for element types that Go can convert directly.
type Native interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 |
		float32 | float64
}

// Element is the constraint covering all supported element types, including
// the half-precision extension.
type Element interface {
	Native | float16.Float16
}

func (t DataType) String() string {
	switch t {
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Uint32:
		return "uint32"
	case Int32:
		return "int32"
	case Uint64:
		return "uint64"
	case Int64:
		return "int64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Size returns the element size in bytes.
func (t DataType) Size() int {
	switch t {
	case Uint8, Int8:
		return 1
	case Uint16, Int16, Float16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	default:
		return 0
	}
}

// Parse returns the DataType named by s, e.g. "float32".
func Parse(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uint8":
		return Uint8, nil
	case "int8":
		return Int8, nil
	case "uint16":
		return Uint16, nil
	case "int16":
		return Int16, nil
	case "uint32":
		return Uint32, nil
	case "int32":
		return Int32, nil
	case "uint64":
		return Uint64, nil
	case "int64":
		return Int64, nil
	case "float16":
		return Float16, nil
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	default:
		return NoType, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
}

// All lists every supported tag in declaration order.
func All() []DataType {
	return []DataType{Uint8, Int8, Uint16, Int16, Uint32, Int32, Uint64, Int64, Float16, Float32, Float64}
}

// TagOf returns the runtime tag for the compile-time element type T.
func TagOf[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Uint8
	case int8:
		return Int8
	case uint16:
		return Uint16
	case int16:
		return Int16
	case uint32:
		return Uint32
	case int32:
		return Int32
	case uint64:
		return Uint64
	case int64:
		return Int64
	case float16.Float16:
		return Float16
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		return NoType
	}
}

// MakeSlice allocates a backing slice of n elements for the given tag.
func MakeSlice(t DataType, n int) (any, error) {
	switch t {
	case Uint8:
		return make([]uint8, n), nil
	case Int8:
		return make([]int8, n), nil
	case Uint16:
		return make([]uint16, n), nil
	case Int16:
		return make([]int16, n), nil
	case Uint32:
		return make([]uint32, n), nil
	case Int32:
		return make([]int32, n), nil
	case Uint64:
		return make([]uint64, n), nil
	case Int64:
		return make([]int64, n), nil
	case Float16:
		return make([]float16.Float16, n), nil
	case Float32:
		return make([]float32, n), nil
	case Float64:
		return make([]float64, n), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

// SliceLen returns the length of a backing slice previously produced by
// MakeSlice for the given tag.
func SliceLen(t DataType, data any) (int, error) {
	switch t {
	case Uint8:
		return lenOf[uint8](data)
	case Int8:
		return lenOf[int8](data)
	case Uint16:
		return lenOf[uint16](data)
	case Int16:
		return lenOf[int16](data)
	case Uint32:
		return lenOf[uint32](data)
	case Int32:
		return lenOf[int32](data)
	case Uint64:
		return lenOf[uint64](data)
	case Int64:
		return lenOf[int64](data)
	case Float16:
		return lenOf[float16.Float16](data)
	case Float32:
		return lenOf[float32](data)
	case Float64:
		return lenOf[float64](data)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func lenOf[T Element](data any) (int, error) {
	s, err := SliceOf[T](data)
	if err != nil {
		return 0, err
	}
	return len(s), nil
}

// SliceOf asserts that data is a []T backing slice.
func SliceOf[T Element](data any) ([]T, error) {
	s, ok := data.([]T)
	if !ok {
		return nil, fmt.Errorf("backing slice is %T, expected %T", data, []T(nil))
	}
	return s, nil
}
