package indexed

import (
	"fmt"
	"time"
)

// Kind is the closed set of dynamic value types a Record field may hold.
type Kind uint8

const (
	KindNil Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a tagged union over the scalar types a record field can hold.
// It is comparable, so it can be used directly as a map key (for the
// Primary Store, Lookup Store, and Uniques Bundle).
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

func Nil() Value             { return Value{kind: KindNil} }
func String(s string) Value  { return Value{kind: KindString, s: s} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }

// Time builds a Value from t. The time is stripped of its monotonic
// reading and normalized to UTC so that two Values representing the
// same instant always compare equal under Go's built-in == (and thus
// hash identically as a map key) rather than only under
// time.Time.Equal.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t.Round(0).UTC()} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNil() bool  { return v.kind == KindNil }
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "<nil>"
	case KindString:
		return v.s
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

func (v Value) AsString() (string, bool)    { return v.s, v.kind == KindString }
func (v Value) AsInt() (int64, bool)        { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool)    { return v.f, v.kind == KindFloat }
func (v Value) AsBool() (bool, bool)        { return v.b, v.kind == KindBool }
func (v Value) AsTime() (time.Time, bool)   { return v.t, v.kind == KindTime }

// Equal reports whether two values represent the same scalar, using each
// kind's natural equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindString:
		return v.s == other.s
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindTime:
		return v.t.Equal(other.t)
	default:
		return false
	}
}

// InspectString renders a value the way fingerprint derivation needs:
// scalars render directly, everything else (here, only the zero/nil
// case) uses an unambiguous inspect-style representation.
func (v Value) InspectString() string {
	if v.kind == KindNil {
		return "nil"
	}
	return v.String()
}
