package storage

import (
	"encoding/json"
	"fmt"

	"github.com/cougar-robotics/cougarlog/pkg/wpilog"
)

// decodeStoredValue rebuilds a typed value from its stored JSON form. The
// type name travels with the sample (see storedSample), so the decode is a
// closed dispatch like the wire-level one.
func decodeStoredValue(typeName string, raw json.RawMessage) (wpilog.Value, error) {
	t := wpilog.ParseValueType(typeName)
	switch t {
	case wpilog.TypeBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Bool: b}, nil
	case wpilog.TypeInt64:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Int: n}, nil
	case wpilog.TypeFloat:
		var f float32
		if err := json.Unmarshal(raw, &f); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Float32: f}, nil
	case wpilog.TypeDouble:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Float64: f}, nil
	case wpilog.TypeString, wpilog.TypeJSON:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Str: s}, nil
	case wpilog.TypeBooleanArray:
		var bs []bool
		if err := json.Unmarshal(raw, &bs); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Bools: bs}, nil
	case wpilog.TypeInt64Array:
		var ns []int64
		if err := json.Unmarshal(raw, &ns); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Ints: ns}, nil
	case wpilog.TypeFloatArray:
		var fs []float32
		if err := json.Unmarshal(raw, &fs); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Float32s: fs}, nil
	case wpilog.TypeDoubleArray:
		var fs []float64
		if err := json.Unmarshal(raw, &fs); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Float64s: fs}, nil
	case wpilog.TypeStringArray:
		var ss []string
		if err := json.Unmarshal(raw, &ss); err != nil {
			return wpilog.Value{}, err
		}
		return wpilog.Value{Type: t, Strs: ss}, nil
	default:
		return wpilog.Value{}, fmt.Errorf("stored sample has unrecognized type %q", typeName)
	}
}
