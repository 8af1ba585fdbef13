package indexed

// Put inserts or overwrites a record for entity. A put that leaves
// every field unchanged from the stored record is a no-op.
func (eng *Engine) Put(entity string, rec Record) error {
	es := eng.mustEntity(entity)
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.put(rec)
}

func (es *entityState) put(newRec Record) error {
	id := es.config.IDKey.extract(newRec)
	for _, f := range es.config.Fields {
		newRec.MustGet(f.Name)
	}

	prev, prevExists := es.primary[id]
	if prevExists && prev.Equal(newRec) {
		return nil
	}

	es.primary[id] = newRec
	if !prevExists {
		es.stats.recordCount.Add(1)
	}
	es.stats.putCount.Add(1)

	es.mutate(id, prev, prevExists, newRec, true)

	return nil
}
