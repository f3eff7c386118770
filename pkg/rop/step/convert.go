package step

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrInputType is wrapped by conversion failures of step inputs and lambda
// parameters or results.
var ErrInputType = errors.New("step: unexpected value type")

// As converts v to T. Values already of type T pass through; numeric values
// convert between numeric types when no precision is lost.
func As[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}

	var zero T
	target := reflect.TypeOf((*T)(nil)).Elem()
	if v == nil && target.Kind() == reflect.Interface {
		return zero, nil
	}

	out, err := Convert(v, target)
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// Convert converts v to the target type following the rules of As.
func Convert(v any, target reflect.Type) (any, error) {
	if v == nil {
		if target.Kind() == reflect.Interface {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: want %s, got nil", ErrInputType, target)
	}

	src := reflect.ValueOf(v)
	if src.Type() == target {
		return v, nil
	}
	if target.Kind() == reflect.Interface && src.Type().Implements(target) {
		return v, nil
	}

	if isNumeric(src.Kind()) && isNumeric(target.Kind()) {
		out, ok := convertNumber(src, target)
		if !ok {
			return nil, fmt.Errorf("%w: %v does not fit %s", ErrInputType, v, target)
		}
		return out.Interface(), nil
	}

	if src.Kind() == target.Kind() && src.Type().ConvertibleTo(target) {
		return src.Convert(target).Interface(), nil
	}

	return nil, fmt.Errorf("%w: want %s, got %T", ErrInputType, target, v)
}

// Bounds of the int64 and uint64 ranges as float64; both are exact powers
// of two.
const (
	minInt64Float  = -(1 << 63)
	maxInt64Float  = 1 << 63
	maxUint64Float = 1 << 64
)

// convertNumber converts src to target when the value is representable
// exactly. Sign changes, overflow and truncated fractions are rejected.
// NaN and infinities survive float to float conversions only.
func convertNumber(src reflect.Value, target reflect.Type) (reflect.Value, bool) {
	out := reflect.New(target).Elem()

	switch {
	case isInt(src.Kind()):
		n := src.Int()
		switch {
		case isInt(target.Kind()):
			if out.OverflowInt(n) {
				return out, false
			}
			out.SetInt(n)
		case isUint(target.Kind()):
			if n < 0 || out.OverflowUint(uint64(n)) {
				return out, false
			}
			out.SetUint(uint64(n))
		default:
			f := float64(n)
			if f >= maxInt64Float || int64(f) != n || !exactFloat(out, f) {
				return out, false
			}
			out.SetFloat(f)
		}

	case isUint(src.Kind()):
		u := src.Uint()
		switch {
		case isInt(target.Kind()):
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return out, false
			}
			out.SetInt(int64(u))
		case isUint(target.Kind()):
			if out.OverflowUint(u) {
				return out, false
			}
			out.SetUint(u)
		default:
			f := float64(u)
			if f >= maxUint64Float || uint64(f) != u || !exactFloat(out, f) {
				return out, false
			}
			out.SetFloat(f)
		}

	default:
		f := src.Float()
		switch {
		case isInt(target.Kind()):
			if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
				f < minInt64Float || f >= maxInt64Float || out.OverflowInt(int64(f)) {
				return out, false
			}
			out.SetInt(int64(f))
		case isUint(target.Kind()):
			if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
				f < 0 || f >= maxUint64Float || out.OverflowUint(uint64(f)) {
				return out, false
			}
			out.SetUint(uint64(f))
		default:
			if !math.IsNaN(f) && !math.IsInf(f, 0) && !exactFloat(out, f) {
				return out, false
			}
			out.SetFloat(f)
		}
	}
	return out, true
}

// exactFloat reports whether f survives storage in the float kind of out.
func exactFloat(out reflect.Value, f float64) bool {
	if out.Kind() == reflect.Float32 {
		return float64(float32(f)) == f
	}
	return true
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

var valueTypes = map[string]reflect.Type{
	"any":     reflect.TypeOf((*any)(nil)).Elem(),
	"int":     reflect.TypeOf(int(0)),
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"string":  reflect.TypeOf(""),
	"bool":    reflect.TypeOf(false),
}

// TypeOf resolves a type name usable in lambda annotations.
func TypeOf(name string) (reflect.Type, bool) {
	t, ok := valueTypes[name]
	return t, ok
}
