package indexed

import (
	"context"
	"log/slog"
	"slices"
)

// underPrefilter reports whether rec currently belongs to pf.
func (es *entityState) underPrefilter(rec Record, pf Prefilter) bool {
	switch pf.Kind {
	case PrefilterNull:
		return true
	case PrefilterField:
		v, ok := rec.Get(pf.Field)
		return ok && v.Equal(pf.Value)
	case PrefilterView:
		vs, ok := es.views[pf.Fingerprint]
		if !ok {
			return false
		}
		if !es.underPrefilter(rec, vs.Prefilter) {
			return false
		}
		return vs.Predicate == nil || vs.Predicate.Matches(rec)
	default:
		return false
	}
}

// getIndexList returns the current sorted id list for (pf, field, dir),
// or nil if no records currently populate it.
func (es *entityState) getIndexList(pf Prefilter, field string, dir Direction) []Value {
	return es.indexes[indexKey(es.config.Name, pf, dir, field)]
}

// setIndexPair stores the desc list (and its exact reverse as the asc
// list) for (pf, field). An empty list deletes both backing entries
// instead of leaving an empty list around.
func (es *entityState) setIndexPair(pf Prefilter, field string, desc []Value) {
	descKey := indexKey(es.config.Name, pf, Desc, field)
	ascKey := indexKey(es.config.Name, pf, Asc, field)
	if len(desc) == 0 {
		delete(es.indexes, descKey)
		delete(es.indexes, ascKey)
		return
	}
	es.indexes[descKey] = desc
	es.indexes[ascKey] = reverseOf(desc)
}

// deleteIndexQuadrant drops every field's asc/desc pair for pf. Used for
// last-instance pruning and view destruction.
func (es *entityState) deleteIndexQuadrant(pf Prefilter) {
	for _, f := range es.config.Fields {
		descKey := indexKey(es.config.Name, pf, Desc, f.Name)
		ascKey := indexKey(es.config.Name, pf, Asc, f.Name)
		delete(es.indexes, descKey)
		delete(es.indexes, ascKey)
	}
}

func reverseOf(list []Value) []Value {
	out := make([]Value, len(list))
	for i, v := range list {
		out[len(list)-1-i] = v
	}
	return out
}

func removeID(list []Value, id Value) []Value {
	i := slices.Index(list, id)
	if i < 0 {
		return list
	}
	return slices.Delete(list, i, i+1)
}

// insertByDesc scans desc for the first id whose stored field value is
// strictly smaller than newValue under strategy; it inserts immediately
// before that id, or appends if none is found. Ties place the new id
// after existing equal-valued ids.
func (es *entityState) insertByDesc(desc []Value, id Value, newValue Value, field string, strategy SortStrategy) []Value {
	for i, other := range desc {
		ov, _ := es.primary[other].Get(field)
		if es.debugScans {
			es.logger.LogAttrs(context.Background(), slog.LevelDebug, "insert_by scan",
				slog.String("entity", es.config.Name), slog.String("field", field),
				slog.Int("pos", i), slog.String("other", other.String()))
		}
		if compareValues(ov, newValue, strategy) < 0 {
			return slices.Insert(desc, i, id)
		}
	}
	return append(desc, id)
}

// updateIndexForField keeps one field's asc/desc pair under pf in sync
// with a record's membership and value transition. prev may be nil when
// prevExists is false (insert). newRec may be nil (drop).
func (es *entityState) updateIndexForField(id Value, prev Record, prevExists bool, newRec Record, newExists bool, pf Prefilter, field string) {
	strategy, _ := es.config.fieldStrategy(field)

	prevIn := prevExists && es.underPrefilter(prev, pf)
	newIn := newExists && es.underPrefilter(newRec, pf)

	switch {
	case prevIn && newIn:
		pv, _ := prev.Get(field)
		nv, _ := newRec.Get(field)
		if pv.Equal(nv) {
			return
		}
		desc := removeID(es.getIndexList(pf, field, Desc), id)
		desc = es.insertByDesc(desc, id, nv, field, strategy)
		es.setIndexPair(pf, field, desc)
	case prevIn && !newIn:
		desc := removeID(es.getIndexList(pf, field, Desc), id)
		es.setIndexPair(pf, field, desc)
	case !prevIn && newIn:
		nv, _ := newRec.Get(field)
		desc := es.insertByDesc(es.getIndexList(pf, field, Desc), id, nv, field, strategy)
		es.setIndexPair(pf, field, desc)
	default:
		// no-op
	}
}
