package indexed

// Drop removes entity's record for id, running it through the same
// index/uniques/lookup/view maintenance as Put with an empty new
// record. It reports NOT_FOUND if no record exists for id.
func (eng *Engine) Drop(entity string, id Value) error {
	es := eng.mustEntity(entity)
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.drop(id)
}

func (es *entityState) drop(id Value) error {
	prev, ok := es.primary[id]
	if !ok {
		return notFoundErr(es.config.Name, id)
	}

	es.mutate(id, prev, true, nil, false)

	delete(es.primary, id)
	es.stats.recordCount.Add(-1)
	es.stats.dropCount.Add(1)

	return nil
}
