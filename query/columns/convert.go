package columns

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
)

// Convert coerces a driver value into V.
//
// nil becomes the zero value of V. Pointer types receive a pointer to the
// converted element, so *string and friends model NULL-able columns. Types
// implementing sql.Scanner receive the raw value through Scan.
func Convert[V any](raw interface{}) (V, error) {
	var zero V
	if v, ok := raw.(V); ok {
		return v, nil
	}

	rt := reflect.TypeOf((*V)(nil)).Elem()
	rv, err := convertTo(raw, rt)
	if err != nil {
		return zero, err
	}
	out, _ := rv.Interface().(V)
	return out, nil
}

func convertTo(raw interface{}, rt reflect.Type) (reflect.Value, error) {
	if reflect.PointerTo(rt).Implements(scannerType) {
		ptr := reflect.New(rt)
		if err := ptr.Interface().(sql.Scanner).Scan(raw); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}

	if raw == nil {
		return reflect.Zero(rt), nil
	}

	if rt.Kind() == reflect.Pointer {
		elem, err := convertTo(raw, rt.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(rt.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	src := reflect.ValueOf(raw)
	if src.Type().AssignableTo(rt) {
		return src, nil
	}

	// Drivers hand back text columns as []byte.
	if b, ok := raw.([]byte); ok && rt.Kind() != reflect.Slice {
		raw = string(b)
	}

	var (
		out interface{}
		err error
	)

	if rt == timeType {
		out, err = cast.ToTimeE(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(out), nil
	}

	switch rt.Kind() {
	case reflect.String:
		out, err = cast.ToStringE(raw)
	case reflect.Bool:
		out, err = cast.ToBoolE(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if err := integral(raw, rt); err != nil {
			return reflect.Value{}, err
		}
		var n int64
		if n, err = cast.ToInt64E(raw); err == nil && reflect.Zero(rt).OverflowInt(n) {
			return reflect.Value{}, overflow(raw, rt)
		}
		out = n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if err := integral(raw, rt); err != nil {
			return reflect.Value{}, err
		}
		var n uint64
		if n, err = cast.ToUint64E(raw); err == nil && reflect.Zero(rt).OverflowUint(n) {
			return reflect.Value{}, overflow(raw, rt)
		}
		out = n
	case reflect.Float32, reflect.Float64:
		var f float64
		if f, err = cast.ToFloat64E(raw); err == nil && reflect.Zero(rt).OverflowFloat(f) {
			return reflect.Value{}, overflow(raw, rt)
		}
		out = f
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			if s, ok := raw.(string); ok {
				return reflect.ValueOf([]byte(s)).Convert(rt), nil
			}
		}
		return convertible(src, rt)
	default:
		return convertible(src, rt)
	}
	if err != nil {
		return reflect.Value{}, err
	}

	// Narrow to the exact kind (int32, named string types, ...).
	return reflect.ValueOf(out).Convert(rt), nil
}

// integral rejects floats with a fractional part headed for an integer kind.
func integral(raw interface{}, rt reflect.Type) error {
	var f float64
	switch v := raw.(type) {
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("cannot convert %v to %s without losing its fraction", raw, rt)
	}
	return nil
}

func overflow(raw interface{}, rt reflect.Type) error {
	return fmt.Errorf("value %v overflows %s", raw, rt)
}

func convertible(src reflect.Value, rt reflect.Type) (reflect.Value, error) {
	if src.Type().ConvertibleTo(rt) {
		return src.Convert(rt), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", src.Type(), rt)
}
