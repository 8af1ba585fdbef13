package indexed

import (
	"context"
	"encoding/base64"
	"log/slog"
	"slices"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// FieldDir names one field of a compound order_by; the paginator appends
// an implicit (id, Asc) tiebreaker of its own, so callers list only the
// fields that actually vary.
type FieldDir struct {
	Field string
	Dir   Direction
}

// PaginateOptions configures one Paginate call.
type PaginateOptions struct {
	Limit        int
	After        string
	Before       string
	CursorFields []FieldDir
	Filter       func(Record) bool
	Prepare      func(Record) Record
	IDKey        IDKey
}

// Page is the result of one Paginate call.
type Page struct {
	Entries []Record
	After   string
	Before  string
	Limit   int

	// TotalCount is always nil: this engine does not produce total
	// counts.
	TotalCount            *int64
	TotalCountCapExceeded bool
}

const defaultPageLimit = 10

// wireValue is the msgpack-serializable projection of Value used in
// cursor encoding; Value itself carries unexported fields so it cannot
// be marshaled directly.
type wireValue struct {
	K uint8     `msgpack:"k"`
	S string    `msgpack:"s,omitempty"`
	I int64     `msgpack:"i,omitempty"`
	F float64   `msgpack:"f,omitempty"`
	B bool      `msgpack:"b,omitempty"`
	T time.Time `msgpack:"t,omitempty"`
}

func toWireValue(v Value) wireValue {
	w := wireValue{K: uint8(v.Kind())}
	switch v.Kind() {
	case KindString:
		w.S, _ = v.AsString()
	case KindInt:
		w.I, _ = v.AsInt()
	case KindFloat:
		w.F, _ = v.AsFloat()
	case KindBool:
		w.B, _ = v.AsBool()
	case KindTime:
		w.T, _ = v.AsTime()
	}
	return w
}

func fromWireValue(w wireValue) Value {
	switch Kind(w.K) {
	case KindString:
		return String(w.S)
	case KindInt:
		return Int(w.I)
	case KindFloat:
		return Float(w.F)
	case KindBool:
		return Bool(w.B)
	case KindTime:
		return Time(w.T)
	default:
		return Nil()
	}
}

type wireCursor struct {
	V map[string]wireValue `msgpack:"v"`
}

const cursorIDField = "id"

// cursorForRecord builds a map from each declared cursor field to the
// record's value for that field, plus the implicit id tiebreaker.
func cursorForRecord(rec Record, idKey IDKey, fields []FieldDir) map[string]Value {
	m := make(map[string]Value, len(fields)+1)
	for _, fd := range fields {
		if v, ok := rec.Get(fd.Field); ok {
			m[fd.Field] = v
		}
	}
	m[cursorIDField] = idKey.extract(rec)
	return m
}

func encodeCursor(values map[string]Value) (string, error) {
	wc := wireCursor{V: make(map[string]wireValue, len(values))}
	for k, v := range values {
		wc.V[k] = toWireValue(v)
	}
	raw, err := msgpack.Marshal(wc)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(s string) (map[string]Value, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, badCursorErr(err)
	}
	var wc wireCursor
	if err := msgpack.Unmarshal(raw, &wc); err != nil {
		return nil, badCursorErr(err)
	}
	out := make(map[string]Value, len(wc.V))
	for k, w := range wc.V {
		out[k] = fromWireValue(w)
	}
	return out, nil
}

func cursorID(values map[string]Value) (Value, bool) {
	v, ok := values[cursorIDField]
	return v, ok
}

// Paginate walks a presorted id list L. L's order is the caller's
// responsibility: pick the single-field sorted index matching the
// leading field of the intended compound order.
func Paginate(L []Value, getter func(Value) (Record, bool), opts PaginateOptions) (*Page, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	if opts.Before != "" {
		return paginateBackward(L, getter, opts, limit)
	}
	return paginateForward(L, getter, opts, limit)
}

func paginateForward(L []Value, getter func(Value) (Record, bool), opts PaginateOptions, limit int) (*Page, error) {
	start := 0
	if opts.After != "" {
		values, err := decodeCursor(opts.After)
		if err != nil {
			return nil, err
		}
		afterID, ok := cursorID(values)
		if !ok {
			return nil, badCursorErr(nil)
		}
		idx := slices.IndexFunc(L, func(id Value) bool { return id.Equal(afterID) })
		if idx < 0 {
			return nil, badCursorErr(nil)
		}
		start = idx + 1
	}

	anyPriorPasses := opts.Filter == nil && start > 0
	if opts.Filter != nil {
		for _, id := range L[:start] {
			rec, ok := getter(id)
			if !ok {
				continue
			}
			if opts.Prepare != nil {
				rec = opts.Prepare(rec)
			}
			if opts.Filter(rec) {
				anyPriorPasses = true
				break
			}
		}
	}

	entries := make([]Record, 0, limit+1)
	var cursorBefore, cursorAfter string
	for _, id := range L[start:] {
		rec, ok := getter(id)
		if !ok {
			continue
		}
		if opts.Prepare != nil {
			rec = opts.Prepare(rec)
		}
		if opts.Filter != nil && !opts.Filter(rec) {
			continue
		}

		if len(entries) == 0 && anyPriorPasses {
			values := cursorForRecord(rec, opts.IDKey, opts.CursorFields)
			encoded, err := encodeCursor(values)
			if err != nil {
				return nil, err
			}
			cursorBefore = encoded
		}

		entries = append(entries, rec)
		if len(entries) == limit+1 {
			break
		}
	}

	if len(entries) > limit {
		entries = entries[:limit]
		values := cursorForRecord(entries[limit-1], opts.IDKey, opts.CursorFields)
		encoded, err := encodeCursor(values)
		if err != nil {
			return nil, err
		}
		cursorAfter = encoded
	}

	return &Page{Entries: entries, After: cursorAfter, Before: cursorBefore, Limit: limit}, nil
}

func paginateBackward(L []Value, getter func(Value) (Record, bool), opts PaginateOptions, limit int) (*Page, error) {
	values, err := decodeCursor(opts.Before)
	if err != nil {
		return nil, err
	}
	beforeID, ok := cursorID(values)
	if !ok {
		return nil, badCursorErr(nil)
	}
	idx := slices.IndexFunc(L, func(id Value) bool { return id.Equal(beforeID) })
	if idx < 0 {
		return nil, badCursorErr(nil)
	}

	preceding := acquireValueScratch()
	defer func() { releaseValueScratch(preceding) }()
	for i := idx - 1; i >= 0; i-- {
		preceding = append(preceding, L[i])
	}

	collected := make([]Record, 0, limit+1)
	var cursorAfter, cursorBefore string
	exhausted := true
	for _, id := range preceding {
		rec, ok := getter(id)
		if !ok {
			continue
		}
		if opts.Prepare != nil {
			rec = opts.Prepare(rec)
		}
		if opts.Filter != nil && !opts.Filter(rec) {
			continue
		}

		if len(collected) == 0 {
			vals := cursorForRecord(rec, opts.IDKey, opts.CursorFields)
			encoded, err := encodeCursor(vals)
			if err != nil {
				return nil, err
			}
			cursorAfter = encoded
		}

		collected = append(collected, rec)
		if len(collected) == limit+1 {
			exhausted = false
			collected = collected[:limit]
			break
		}
	}

	if !exhausted && len(collected) > 0 {
		vals := cursorForRecord(collected[len(collected)-1], opts.IDKey, opts.CursorFields)
		encoded, err := encodeCursor(vals)
		if err != nil {
			return nil, err
		}
		cursorBefore = encoded
	}

	entries := make([]Record, len(collected))
	for i, rec := range collected {
		entries[len(collected)-1-i] = rec
	}

	return &Page{Entries: entries, After: cursorAfter, Before: cursorBefore, Limit: limit}, nil
}

// Paginate is the Engine-bound convenience wrapper: it reads the sorted
// index for (prefilter, field, dir) and paginates over it under the
// entity's read lock.
func (eng *Engine) Paginate(entity string, pf Prefilter, field string, dir Direction, opts PaginateOptions) (*Page, error) {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()

	opts.IDKey = es.config.IDKey
	L := es.getIndexList(pf, field, dir)
	getter := func(id Value) (Record, bool) {
		rec, ok := es.primary[id]
		if !ok {
			return Record{}, false
		}
		return rec.Clone(), true
	}

	if es.debugScans {
		es.logger.LogAttrs(context.Background(), slog.LevelDebug, "paginate",
			slog.String("entity", entity), slog.String("field", field),
			slog.Int("list_len", len(L)), slog.Int("limit", opts.Limit))
	}

	return Paginate(L, getter, opts)
}
