// Package column provides the typed column storage for Prism tables.
//
// A column is a closed set of variants over the supported element kinds:
// integer, floating-point, text, boolean, plus a fully-dynamic fallback.
// Every variant carries a packed validity bitmap so any cell can hold the
// missing value (NA). The missing value surfaces as untyped nil: Get returns
// nil for NA cells and Set(i, nil) marks a cell missing.
//
// Columns validate nothing about positions; callers are expected to
// bounds-check before indexing, the same way they would with a slice.
package column

import (
	"math"
	"reflect"
	"time"

	"github.com/ajitpratap0/prism/pkg/errors"
)

// Type identifies the element type of a column.
type Type int

const (
	TypeInt Type = iota
	TypeFloat
	TypeString
	TypeBool
	TypeAny
)

// String returns the lower-case type name.
func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeAny:
		return "any"
	default:
		return "invalid"
	}
}

// ParseType maps a type name to its Type. Used by the configuration layer,
// which stores the default element type as a string.
func ParseType(s string) (Type, error) {
	switch s {
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "string":
		return TypeString, nil
	case "bool":
		return TypeBool, nil
	case "any":
		return TypeAny, nil
	default:
		return TypeAny, errors.Newf(errors.ErrorTypeConfig, "unknown element type %q", s)
	}
}

// Tri is the outcome of a comparison that may involve missing values.
// A comparison against NA is neither true nor false; it is unknown, and
// unknown is falsy wherever a definite answer is required.
type Tri int8

const (
	TriFalse Tri = iota
	TriTrue
	TriUnknown
)

// Bool collapses the tri-state to a boolean: only TriTrue is true.
func (t Tri) Bool() bool {
	return t == TriTrue
}

func (t Tri) String() string {
	switch t {
	case TriFalse:
		return "false"
	case TriTrue:
		return "true"
	default:
		return "unknown"
	}
}

// Column is the storage contract the table layer builds on. Positions are
// the caller's responsibility: the table layer validates bounds before
// delegating, and columns index their backing arrays directly.
type Column interface {
	// Type returns the element type.
	Type() Type
	// Len returns the number of cells.
	Len() int
	// Get returns the cell value, or nil when the cell is NA.
	Get(i int) interface{}
	// IsNA reports whether the cell is missing.
	IsNA(i int) bool
	// Set assigns a cell. A nil value marks the cell NA. A value that cannot
	// be converted to the element type degrades the cell to NA.
	Set(i int, value interface{})
	// Append adds one cell, with the same conversion policy as Set.
	Append(value interface{})
	// AppendNA adds n missing cells.
	AppendNA(n int)
	// Gather returns a new column holding the cells at the given positions,
	// in order. Positions may repeat.
	Gather(positions []int) Column
	// Scatter assigns values[k] to cell positions[k] for every k, with the
	// same per-cell conversion policy as Set.
	Scatter(positions []int, values []interface{})
	// Copy returns a deep copy sharing no storage.
	Copy() Column
	// Hash returns an order-sensitive hash of the cell values. Columns with
	// equivalent cells hash equal regardless of variant.
	Hash() uint64
	// MemoryUsage returns the approximate heap footprint in bytes.
	MemoryUsage() int64
}

// Promote returns the least element type that both operands widen to.
// Numeric kinds widen Bool -> Int -> Float; text is incompatible with
// numerics, so mixing falls back to the dynamic type.
func Promote(a, b Type) Type {
	if a == b {
		return a
	}
	if a == TypeAny || b == TypeAny {
		return TypeAny
	}
	if a == TypeString || b == TypeString {
		return TypeAny
	}
	// Both numeric-ish: Bool < Int < Float
	if a == TypeFloat || b == TypeFloat {
		return TypeFloat
	}
	if a == TypeInt || b == TypeInt {
		return TypeInt
	}
	return TypeBool
}

// Infer classifies a single value. Nil (the missing value) infers the
// dynamic type; callers that can do better pass their own fallback to
// InferValues instead.
func Infer(v interface{}) Type {
	switch v.(type) {
	case nil:
		return TypeAny
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	case string:
		return TypeString
	case bool:
		return TypeBool
	default:
		return TypeAny
	}
}

// InferValues returns the promoted type over all non-missing values.
// When every value is missing, fallback is returned.
func InferValues(values []interface{}, fallback Type) Type {
	seen := false
	var t Type
	for _, v := range values {
		if v == nil {
			continue
		}
		vt := Infer(v)
		if !seen {
			t = vt
			seen = true
			continue
		}
		t = Promote(t, vt)
		if t == TypeAny {
			return TypeAny
		}
	}
	if !seen {
		return fallback
	}
	return t
}

// New returns an empty column of the given type.
func New(t Type) Column {
	switch t {
	case TypeInt:
		return NewIntColumn(0)
	case TypeFloat:
		return NewFloatColumn(0)
	case TypeString:
		return NewStringColumn(0)
	case TypeBool:
		return NewBoolColumn(0)
	default:
		return NewAnyColumn(0)
	}
}

// NewNA returns a column of the given type with n missing cells. This is
// the building block for auto-grown tables and concat fill.
func NewNA(t Type, n int) Column {
	c := New(t)
	c.AppendNA(n)
	return c
}

// FromSlice builds a column from a typed Go slice. Supported element types
// are int, int64, float64, string, bool, time.Time and interface{}; an
// interface{} slice is routed through FromValues with type inference.
func FromSlice(v interface{}) (Column, error) {
	switch s := v.(type) {
	case []int:
		c := NewIntColumn(len(s))
		for _, x := range s {
			c.appendValue(int64(x))
		}
		return c, nil
	case []int64:
		c := NewIntColumn(len(s))
		for _, x := range s {
			c.appendValue(x)
		}
		return c, nil
	case []float64:
		c := NewFloatColumn(len(s))
		for _, x := range s {
			c.appendValue(x)
		}
		return c, nil
	case []string:
		c := NewStringColumn(len(s))
		for _, x := range s {
			c.appendValue(x)
		}
		return c, nil
	case []bool:
		c := NewBoolColumn(len(s))
		for _, x := range s {
			c.appendValue(x)
		}
		return c, nil
	case []time.Time:
		c := NewAnyColumn(len(s))
		for _, x := range s {
			c.Append(x)
		}
		return c, nil
	case []interface{}:
		return FromValues(s, TypeAny), nil
	case Column:
		return s, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "cannot build column from %T", v)
	}
}

// FromValues builds a column from loosely typed values, inferring the
// narrowest element type that holds all of them. Values that are all
// missing produce a column of the fallback type.
func FromValues(values []interface{}, fallback Type) Column {
	t := InferValues(values, fallback)
	c := New(t)
	for _, v := range values {
		c.Append(v)
	}
	return c
}

// Convert returns a copy of c with the given element type. Cells that do
// not fit the target type degrade to NA; converting to the same type is a
// plain copy.
func Convert(c Column, t Type) Column {
	if c.Type() == t {
		return c.Copy()
	}
	out := New(t)
	n := c.Len()
	for i := 0; i < n; i++ {
		if c.IsNA(i) {
			out.AppendNA(1)
		} else {
			out.Append(c.Get(i))
		}
	}
	return out
}

// coerce converts v to the representation the element type stores.
// The bool result reports success; failure means the caller should
// store NA instead.
func coerce(v interface{}, t Type) (interface{}, bool) {
	switch t {
	case TypeInt:
		return coerceInt(v)
	case TypeFloat:
		return coerceFloat(v)
	case TypeString:
		s, ok := v.(string)
		return s, ok
	case TypeBool:
		return coerceBool(v)
	default:
		return normalize(v), true
	}
}

func coerceInt(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x <= math.MaxInt64 {
			return int64(x), true
		}
		return 0, false
	case float32:
		return coerceInt(float64(x))
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func coerceFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func coerceBool(v interface{}) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int64:
		if x == 0 || x == 1 {
			return x == 1, true
		}
		return false, false
	case int:
		return coerceBool(int64(x))
	case float64:
		if x == 0 || x == 1 {
			return x == 1, true
		}
		return false, false
	default:
		return false, false
	}
}

// normalize widens numeric values to the canonical widths the dynamic
// column stores, so comparison and hashing see one representation.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return float64(x)
		}
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// asNumeric reduces a value to float64 for cross-type comparison,
// with booleans counting as 0 and 1.
func asNumeric(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Compare applies equality semantics to two cell values: a missing operand
// yields TriUnknown, numerics compare across variants, and everything else
// compares by value.
func Compare(a, b interface{}) Tri {
	if a == nil || b == nil {
		return TriUnknown
	}

	if an, aok := asNumeric(a); aok {
		if bn, bok := asNumeric(b); bok {
			// Exact integer compare when both sides are integers, so large
			// int64 values outside float64's exact range compare correctly.
			ai, aInt := coerceIntExact(a)
			bi, bInt := coerceIntExact(b)
			if aInt && bInt {
				if ai == bi {
					return TriTrue
				}
				return TriFalse
			}
			if an == bn {
				return TriTrue
			}
			return TriFalse
		}
		return TriFalse
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			if av == bv {
				return TriTrue
			}
		}
		return TriFalse
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			if av.Equal(bv) {
				return TriTrue
			}
		}
		return TriFalse
	}

	if reflect.DeepEqual(a, b) {
		return TriTrue
	}
	return TriFalse
}

// coerceIntExact is the integer view used by Compare: ints and bools pass
// through, whole floats convert, everything else fails.
func coerceIntExact(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case float64:
		if x == math.Trunc(x) && x >= -9007199254740992 && x <= 9007199254740992 {
			return int64(x), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// EqualCells compares two columns element-wise under Compare semantics.
// The columns must have equal length.
func EqualCells(a, b Column) ([]Tri, error) {
	if a.Len() != b.Len() {
		return nil, errors.Newf(errors.ErrorTypeLengthMismatch,
			"cannot compare columns of length %d and %d", a.Len(), b.Len())
	}
	out := make([]Tri, a.Len())
	for i := range out {
		out[i] = Compare(a.Get(i), b.Get(i))
	}
	return out, nil
}

// Fold collapses element-wise outcomes into one: any false wins, otherwise
// any unknown wins, otherwise true. An empty input is vacuously true.
func Fold(ts []Tri) Tri {
	out := TriTrue
	for _, t := range ts {
		switch t {
		case TriFalse:
			return TriFalse
		case TriUnknown:
			out = TriUnknown
		}
	}
	return out
}

// Equivalent applies identity semantics: two missing values are the same,
// NaN is the same as NaN, and negative zero differs from positive zero.
// This is the relation duplicate detection groups by.
func Equivalent(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	af, aIsFloat := a.(float64)
	bf, bIsFloat := b.(float64)
	if aIsFloat && bIsFloat {
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		if af == 0 && bf == 0 {
			return math.Signbit(af) == math.Signbit(bf)
		}
	}
	if aIsFloat && math.IsNaN(af) || bIsFloat && math.IsNaN(bf) {
		return false
	}

	return Compare(a, b) == TriTrue
}
