package indexed

// Record is an opaque, schema-less map of field name to value. No
// schema is enforced beyond requiring an id; any other field need only
// be gettable when something configured actually reads it.
type Record map[string]Value

// Get reads a field, reporting whether it was present.
func (r Record) Get(field string) (Value, bool) {
	v, ok := r[field]
	return v, ok
}

// MustGet reads a configured field or raises MISSING_FIELD: a record
// passed to Put that lacks a configured field is an invariant
// violation, not a recoverable error.
func (r Record) MustGet(field string) Value {
	v, ok := r[field]
	if !ok {
		panic(&EngineError{Kind: ErrKindMissingField, Field: field, Msg: "record lacks required field " + field})
	}
	return v
}

// Clone returns a fresh copy of the record. Values are themselves
// immutable scalars, so a shallow copy is sufficient to make external
// mutation of the caller's map object not observable through the
// engine.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether two records have exactly the same fields and
// values, used by Put to detect the no-op case.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// IDKey extracts a record's id, either via a named field or a pure
// function of the record.
type IDKey struct {
	Field string
	Func  func(Record) Value
}

// FieldID builds an IDKey backed by a named field.
func FieldID(field string) IDKey { return IDKey{Field: field} }

// FuncID builds an IDKey backed by a pure function of the record.
func FuncID(fn func(Record) Value) IDKey { return IDKey{Func: fn} }

func (k IDKey) extract(r Record) Value {
	if k.Func != nil {
		return k.Func(r)
	}
	return r.MustGet(k.Field)
}
