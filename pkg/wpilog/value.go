package wpilog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the closed set of stream value types a declare record can
// name. Dispatching over a closed enum instead of the raw type string gives
// an exhaustive switch with a hard error for unrecognized declarations.
type ValueType int

const (
	TypeUnknown ValueType = iota
	TypeBoolean
	TypeInt64
	TypeFloat
	TypeDouble
	TypeString
	TypeJSON
	TypeBooleanArray
	TypeInt64Array
	TypeFloatArray
	TypeDoubleArray
	TypeStringArray
)

var valueTypeNames = map[ValueType]string{
	TypeBoolean:      "boolean",
	TypeInt64:        "int64",
	TypeFloat:        "float",
	TypeDouble:       "double",
	TypeString:       "string",
	TypeJSON:         "json",
	TypeBooleanArray: "boolean[]",
	TypeInt64Array:   "int64[]",
	TypeFloatArray:   "float[]",
	TypeDoubleArray:  "double[]",
	TypeStringArray:  "string[]",
}

// ParseValueType maps a declared type string onto the closed enum. Strings
// outside the vocabulary return TypeUnknown.
func ParseValueType(s string) ValueType {
	for t, name := range valueTypeNames {
		if name == s {
			return t
		}
	}
	return TypeUnknown
}

func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Value is a tagged union over every stream value type. Exactly one case is
// populated, selected by Type.
type Value struct {
	Type     ValueType
	Bool     bool
	Int      int64
	Float32  float32
	Float64  float64
	Str      string
	Bools    []bool
	Ints     []int64
	Float32s []float32
	Float64s []float64
	Strs     []string
}

// DecodeValue decodes the record payload as the given declared type. The
// payload carries no self-description; the stream's declaration alone
// selects the case.
func (r Record) DecodeValue(t ValueType) (Value, error) {
	switch t {
	case TypeBoolean:
		b, err := r.Bool()
		return Value{Type: TypeBoolean, Bool: b}, err
	case TypeInt64:
		n, err := r.Int64()
		return Value{Type: TypeInt64, Int: n}, err
	case TypeFloat:
		f, err := r.Float32()
		return Value{Type: TypeFloat, Float32: f}, err
	case TypeDouble:
		f, err := r.Float64()
		return Value{Type: TypeDouble, Float64: f}, err
	case TypeString, TypeJSON:
		s, err := r.Str()
		return Value{Type: t, Str: s}, err
	case TypeBooleanArray:
		bs, err := r.BoolArray()
		return Value{Type: TypeBooleanArray, Bools: bs}, err
	case TypeInt64Array:
		ns, err := r.Int64Array()
		return Value{Type: TypeInt64Array, Ints: ns}, err
	case TypeFloatArray:
		fs, err := r.Float32Array()
		return Value{Type: TypeFloatArray, Float32s: fs}, err
	case TypeDoubleArray:
		fs, err := r.Float64Array()
		return Value{Type: TypeDoubleArray, Float64s: fs}, err
	case TypeStringArray:
		ss, err := r.StringArray()
		return Value{Type: TypeStringArray, Strs: ss}, err
	default:
		return Value{}, fmt.Errorf("cannot decode value of unrecognized type %q: %w", t, ErrShapeMismatch)
	}
}

// StringValue builds a string-typed Value directly. The session layer uses
// it for values rendered outside the wire format, such as systemTime.
func StringValue(s string) Value {
	return Value{Type: TypeString, Str: s}
}

// Interface returns the populated case as a plain Go value, suitable for
// JSON responses.
func (v Value) Interface() interface{} {
	switch v.Type {
	case TypeBoolean:
		return v.Bool
	case TypeInt64:
		return v.Int
	case TypeFloat:
		return v.Float32
	case TypeDouble:
		return v.Float64
	case TypeString, TypeJSON:
		return v.Str
	case TypeBooleanArray:
		return v.Bools
	case TypeInt64Array:
		return v.Ints
	case TypeFloatArray:
		return v.Float32s
	case TypeDoubleArray:
		return v.Float64s
	case TypeStringArray:
		return v.Strs
	default:
		return nil
	}
}

// Numeric returns the value as a float64 when the type is a numeric scalar.
func (v Value) Numeric() (float64, bool) {
	switch v.Type {
	case TypeInt64:
		return float64(v.Int), true
	case TypeFloat:
		return float64(v.Float32), true
	case TypeDouble:
		return v.Float64, true
	default:
		return 0, false
	}
}

// Text renders the value for line-oriented output such as CSV.
func (v Value) Text() string {
	switch v.Type {
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	case TypeInt64:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(float64(v.Float32), 'g', -1, 32)
	case TypeDouble:
		return strconv.FormatFloat(v.Float64, 'g', -1, 64)
	case TypeString, TypeJSON:
		return v.Str
	case TypeBooleanArray:
		parts := make([]string, len(v.Bools))
		for i, b := range v.Bools {
			parts[i] = strconv.FormatBool(b)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case TypeInt64Array:
		parts := make([]string, len(v.Ints))
		for i, n := range v.Ints {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case TypeFloatArray:
		parts := make([]string, len(v.Float32s))
		for i, f := range v.Float32s {
			parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case TypeDoubleArray:
		parts := make([]string, len(v.Float64s))
		for i, f := range v.Float64s {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case TypeStringArray:
		parts := make([]string, len(v.Strs))
		for i, s := range v.Strs {
			parts[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return ""
	}
}

// MarshalJSON emits the populated case only.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
