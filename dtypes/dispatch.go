package dtypes

import (
	"errors"
	"fmt"

	"github.com/x448/float16"
)

// ErrUnsupportedType is returned when a DataType tag falls outside the
// supported set. This is a caller contract violation, not a data error.
var ErrUnsupportedType = errors.New("unsupported type")

// CastSlice converts every element of in (tagged inType) into out (tagged
// outType). The (output, input) pair is resolved with two nested single-level
// dispatches: the outer switch instantiates the kernel for the output type,
// the inner switch for the input type. The element loop itself carries no
// runtime branching. Both slices must have equal length.
//
// Conversions follow Go semantics: float to int truncates toward zero,
// narrowing integer conversions wrap. Half precision converts through float32
// with round-to-nearest-even.
func CastSlice(outType DataType, out any, inType DataType, in any) error {
	switch outType {
	case Uint8:
		return castInto[uint8](out, inType, in)
	case Int8:
		return castInto[int8](out, inType, in)
	case Uint16:
		return castInto[uint16](out, inType, in)
	case Int16:
		return castInto[int16](out, inType, in)
	case Uint32:
		return castInto[uint32](out, inType, in)
	case Int32:
		return castInto[int32](out, inType, in)
	case Uint64:
		return castInto[uint64](out, inType, in)
	case Int64:
		return castInto[int64](out, inType, in)
	case Float32:
		return castInto[float32](out, inType, in)
	case Float64:
		return castInto[float64](out, inType, in)
	case Float16:
		return castIntoFloat16(out, inType, in)
	default:
		return fmt.Errorf("%w: output %s", ErrUnsupportedType, outType)
	}
}

// castInto resolves the input tag for a native output type O. Written once,
// instantiated once per output type by CastSlice.
func castInto[O Native](out any, inType DataType, in any) error {
	outSlice, err := SliceOf[O](out)
	if err != nil {
		return err
	}
	switch inType {
	case Uint8:
		return convertAny[O, uint8](outSlice, in)
	case Int8:
		return convertAny[O, int8](outSlice, in)
	case Uint16:
		return convertAny[O, uint16](outSlice, in)
	case Int16:
		return convertAny[O, int16](outSlice, in)
	case Uint32:
		return convertAny[O, uint32](outSlice, in)
	case Int32:
		return convertAny[O, int32](outSlice, in)
	case Uint64:
		return convertAny[O, uint64](outSlice, in)
	case Int64:
		return convertAny[O, int64](outSlice, in)
	case Float32:
		return convertAny[O, float32](outSlice, in)
	case Float64:
		return convertAny[O, float64](outSlice, in)
	case Float16:
		inSlice, inErr := SliceOf[float16.Float16](in)
		if inErr != nil {
			return inErr
		}
		return convertFromFloat16(outSlice, inSlice)
	default:
		return fmt.Errorf("%w: input %s", ErrUnsupportedType, inType)
	}
}

func castIntoFloat16(out any, inType DataType, in any) error {
	outSlice, err := SliceOf[float16.Float16](out)
	if err != nil {
		return err
	}
	switch inType {
	case Uint8:
		return convertAnyToFloat16[uint8](outSlice, in)
	case Int8:
		return convertAnyToFloat16[int8](outSlice, in)
	case Uint16:
		return convertAnyToFloat16[uint16](outSlice, in)
	case Int16:
		return convertAnyToFloat16[int16](outSlice, in)
	case Uint32:
		return convertAnyToFloat16[uint32](outSlice, in)
	case Int32:
		return convertAnyToFloat16[int32](outSlice, in)
	case Uint64:
		return convertAnyToFloat16[uint64](outSlice, in)
	case Int64:
		return convertAnyToFloat16[int64](outSlice, in)
	case Float32:
		return convertAnyToFloat16[float32](outSlice, in)
	case Float64:
		return convertAnyToFloat16[float64](outSlice, in)
	case Float16:
		inSlice, inErr := SliceOf[float16.Float16](in)
		if inErr != nil {
			return inErr
		}
		if len(outSlice) != len(inSlice) {
			return lengthMismatch(len(outSlice), len(inSlice))
		}
		copy(outSlice, inSlice)
		return nil
	default:
		return fmt.Errorf("%w: input %s", ErrUnsupportedType, inType)
	}
}

func convertAny[O, I Native](out []O, in any) error {
	inSlice, err := SliceOf[I](in)
	if err != nil {
		return err
	}
	return convertSlice(out, inSlice)
}

func convertAnyToFloat16[I Native](out []float16.Float16, in any) error {
	inSlice, err := SliceOf[I](in)
	if err != nil {
		return err
	}
	return convertToFloat16(out, inSlice)
}

// convertSlice is the per-element kernel, written once over the two resolved
// native types.
func convertSlice[O, I Native](out []O, in []I) error {
	if len(out) != len(in) {
		return lengthMismatch(len(out), len(in))
	}
	for i, v := range in {
		out[i] = O(v)
	}
	return nil
}

func convertFromFloat16[O Native](out []O, in []float16.Float16) error {
	if len(out) != len(in) {
		return lengthMismatch(len(out), len(in))
	}
	for i, v := range in {
		out[i] = O(v.Float32())
	}
	return nil
}

func convertToFloat16[I Native](out []float16.Float16, in []I) error {
	if len(out) != len(in) {
		return lengthMismatch(len(out), len(in))
	}
	for i, v := range in {
		out[i] = float16.Fromfloat32(float32(v))
	}
	return nil
}

func lengthMismatch(out, in int) error {
	return fmt.Errorf("output length %d does not match input length %d", out, in)
}
