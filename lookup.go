package indexed

import "slices"

// isLookupField reports whether field has a maintained reverse lookup.
func (es *entityState) isLookupField(field string) bool {
	for _, f := range es.config.Lookups {
		if f == field {
			return true
		}
	}
	return false
}

func (es *entityState) lookupMap(field string) map[Value][]Value {
	key := lookupKey(es.config.Name, field)
	m := es.lookups[key]
	if m == nil {
		m = make(map[Value][]Value)
		es.lookups[key] = m
	}
	return m
}

// lookupAdd appends id under record's value for field.
func (es *entityState) lookupAdd(field string, value Value, id Value) {
	m := es.lookupMap(field)
	m[value] = append(m[value], id)
}

// lookupRemove removes id from the list under value, deleting the
// value's entry entirely once its list is empty, so a lookup key exists
// only while some record actually carries that value.
func (es *entityState) lookupRemove(field string, value Value, id Value) {
	key := lookupKey(es.config.Name, field)
	m := es.lookups[key]
	if m == nil {
		return
	}
	list := m[value]
	if i := slices.Index(list, id); i >= 0 {
		list = slices.Delete(list, i, i+1)
	}
	if len(list) == 0 {
		delete(m, value)
	} else {
		m[value] = list
	}
}

// GetBy returns snapshots of every record currently carrying value in
// field's lookup.
func (eng *Engine) GetBy(entity, field string, value Value) []Record {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()

	key := lookupKey(entity, field)
	ids := es.lookups[key][value]
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := es.primary[id]; ok {
			out = append(out, rec.Clone())
		}
	}
	return out
}
