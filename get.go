package indexed

// Get returns a snapshot of entity's record for id, or def if absent.
func (eng *Engine) Get(entity string, id Value, def Record) Record {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()
	rec, ok := es.primary[id]
	if !ok {
		return def
	}
	return rec.Clone()
}

// GetRecords returns snapshots of every record under prefilter, ordered
// by field/dir. An empty field uses the entity's first configured field
// ascending. Returns an empty slice if the sub-index is absent.
func (eng *Engine) GetRecords(entity string, pf Prefilter, field string, dir Direction) []Record {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()

	if field == "" {
		if len(es.config.Fields) == 0 {
			return []Record{}
		}
		field = es.config.Fields[0].Name
		dir = Asc
	}

	ids := es.getIndexList(pf, field, dir)
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := es.primary[id]; ok {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// GetUniquesMap returns the value->count map for field under prefilter,
// or an empty map if none is tracked.
func (eng *Engine) GetUniquesMap(entity string, pf Prefilter, field string) map[Value]int {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()

	b, ok := es.uniques[uniquesMapKey(entity, pf, field)]
	if !ok {
		return map[Value]int{}
	}
	return b.Map()
}

// GetUniquesList returns the sorted distinct-value list for field under
// prefilter, or an empty slice if none is tracked.
func (eng *Engine) GetUniquesList(entity string, pf Prefilter, field string) []Value {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()

	b, ok := es.uniques[uniquesMapKey(entity, pf, field)]
	if !ok {
		return []Value{}
	}
	return b.List()
}
