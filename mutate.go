package indexed

// mutate is the shared core of Put and Drop: given the previous and new
// state of one record, it updates every sorted index, every uniques
// bundle, every view, and every lookup that the transition touches. Put
// calls it with newExists=true; Drop calls it with newExists=false and
// newRec == nil.
func (es *entityState) mutate(id Value, prev Record, prevExists bool, newRec Record, newExists bool) {
	for _, pfc := range es.prefilters {
		if pfc.isNull {
			es.mutateUnderPrefilter(id, prev, prevExists, newRec, newExists, NullPrefilter(), pfc.maintainUnique)
			continue
		}
		es.mutateFieldPrefilter(id, prev, prevExists, newRec, newExists, pfc)
	}

	for fp, vs := range es.views {
		es.mutateView(id, prev, prevExists, newRec, newExists, fp, vs)
	}

	es.mutateLookups(id, prev, prevExists, newRec, newExists)
}

// mutateUnderPrefilter applies the per-field index update and the
// per-field maintain_unique update for one prefilter. It is the common
// tail shared by the null prefilter, every field prefilter's partition,
// and every view.
func (es *entityState) mutateUnderPrefilter(id Value, prev Record, prevExists bool, newRec Record, newExists bool, pf Prefilter, maintainUnique []string) {
	for _, f := range es.config.Fields {
		es.updateIndexForField(id, prev, prevExists, newRec, newExists, pf, f.Name)
	}
	for _, field := range maintainUnique {
		es.updateMaintainUnique(id, prev, prevExists, newRec, newExists, pf, field)
	}
}

// mutateFieldPrefilter handles one non-null field prefilter: iterate
// every value currently known to exist for pfc.field (via the global
// discovery bundle), update that partition, prune it if it just became
// empty, and separately handle a value newly observed on newRec.
func (es *entityState) mutateFieldPrefilter(id Value, prev Record, prevExists bool, newRec Record, newExists bool, pfc normalizedPrefilter) {
	globalBundle := es.getOrCreateBundle(NullPrefilter(), pfc.field, SortNatural)
	knownValues := globalBundle.List()

	for _, v := range knownValues {
		globalBundle.clearFlags()
		es.updateGlobalUniquesForPF(prev, prevExists, newRec, newExists, pfc.field, v, globalBundle)

		pf := FieldPrefilter(pfc.field, v)
		if globalBundle.LastRemoved() {
			es.deleteIndexQuadrant(pf)
			for _, field := range pfc.maintainUnique {
				delete(es.uniques, uniquesMapKey(es.config.Name, pf, field))
			}
			continue
		}

		es.mutateUnderPrefilter(id, prev, prevExists, newRec, newExists, pf, pfc.maintainUnique)
	}

	if !newExists {
		return
	}
	newVal, hasNewVal := newRec.Get(pfc.field)
	if !hasNewVal || globalBundle.Contains(newVal) {
		return
	}

	globalBundle.clearFlags()
	es.updateGlobalUniquesForPF(prev, prevExists, newRec, newExists, pfc.field, newVal, globalBundle)
	pf := FieldPrefilter(pfc.field, newVal)
	// The partition for a value seen for the first time has no prior
	// members, so force prevIn=false for every field/uniques update below.
	es.mutateUnderPrefilter(id, nil, false, newRec, newExists, pf, pfc.maintainUnique)
}

// updateGlobalUniquesForPF keeps the global (null-prefilter) discovery
// bundle for one field-prefilter value in sync: it adds v when a record
// newly carries it and removes v when the last carrier stops, leaving
// the bundle untouched when the field's value didn't actually change.
func (es *entityState) updateGlobalUniquesForPF(prev Record, prevExists bool, newRec Record, newExists bool, pfKey string, v Value, bundle *UniquesBundle) {
	var pv Value
	var pok bool
	if prevExists {
		pv, pok = prev.Get(pfKey)
	}
	var nv Value
	var nok bool
	if newExists {
		nv, nok = newRec.Get(pfKey)
	}
	if prevExists && newExists && pok && nok && pv.Equal(nv) {
		return
	}
	if prevExists && pok && pv.Equal(v) {
		bundle.Remove(v)
	}
	if newExists && nok && nv.Equal(v) {
		bundle.Add(v)
	}
}

// updateMaintainUnique keeps one maintain_unique field's bundle under
// pf in sync with a record's membership transition. It returns the
// deltas that occurred, if any, for pub/sub observability (nil when
// nothing changed).
func (es *entityState) updateMaintainUnique(id Value, prev Record, prevExists bool, newRec Record, newExists bool, pf Prefilter, field string) []UniquesDelta {
	strategy, _ := es.config.fieldStrategy(field)
	bundle := es.getOrCreateBundle(pf, field, strategy)

	prevIn := prevExists && es.underPrefilter(prev, pf)
	newIn := newExists && es.underPrefilter(newRec, pf)

	var deltas []UniquesDelta
	switch {
	case prevIn && newIn:
		pv, _ := prev.Get(field)
		nv, _ := newRec.Get(field)
		if pv.Equal(nv) {
			es.persistUniques(pf, field, bundle)
			return nil
		}
		bundle.Remove(pv)
		deltas = append(deltas, UniquesDelta{Added: false, Value: pv})
		bundle.Add(nv)
		deltas = append(deltas, UniquesDelta{Added: true, Value: nv})
	case prevIn && !newIn:
		pv, _ := prev.Get(field)
		bundle.Remove(pv)
		deltas = append(deltas, UniquesDelta{Added: false, Value: pv})
	case !prevIn && newIn:
		nv, _ := newRec.Get(field)
		bundle.Add(nv)
		deltas = append(deltas, UniquesDelta{Added: true, Value: nv})
	}
	es.persistUniques(pf, field, bundle)
	return deltas
}

func (es *entityState) getOrCreateBundle(pf Prefilter, field string, strategy SortStrategy) *UniquesBundle {
	key := uniquesMapKey(es.config.Name, pf, field)
	b := es.uniques[key]
	if b == nil {
		b = newUniquesBundle(strategy)
		es.uniques[key] = b
	}
	return b
}

// persistUniques saves bundle back under pf/field, except that a field
// prefilter whose bundle has gone empty is deleted outright rather than
// kept around empty; null and fingerprint prefilters retain the empty
// bundle (a fingerprint's bundles are removed only by DestroyView, and
// null-prefilter bundles are never removed).
func (es *entityState) persistUniques(pf Prefilter, field string, bundle *UniquesBundle) {
	key := uniquesMapKey(es.config.Name, pf, field)
	if pf.Kind == PrefilterField && bundle.Empty() {
		delete(es.uniques, key)
		bundle.clearFlags()
		return
	}
	es.uniques[key] = bundle
	bundle.clearFlags()
}

// mutateView applies the per-field index/uniques update for one view
// and emits pub/sub events for the transition: one life-cycle event
// (add/remove/update) per mutation, plus one uniques event per
// maintain_unique field whose bundle actually changed (see DESIGN.md's
// Open Question decisions).
func (es *entityState) mutateView(id Value, prev Record, prevExists bool, newRec Record, newExists bool, fingerprint string, vs *ViewSpec) {
	pf := ViewPrefilter(fingerprint)
	prevIn := prevExists && es.underPrefilter(prev, pf)
	newIn := newExists && es.underPrefilter(newRec, pf)

	for _, f := range es.config.Fields {
		es.updateIndexForField(id, prev, prevExists, newRec, newExists, pf, f.Name)
	}
	for _, field := range vs.MaintainUnique {
		deltas := es.updateMaintainUnique(id, prev, prevExists, newRec, newExists, pf, field)
		if len(deltas) > 0 {
			es.publish(fingerprint, UniquesEvent{Fingerprint: fingerprint, Field: field, Events: deltas})
		}
	}

	switch {
	case !prevIn && newIn:
		es.publish(fingerprint, AddEvent{Fingerprint: fingerprint, Record: newRec.Clone()})
	case prevIn && !newIn:
		es.publish(fingerprint, RemoveEvent{Fingerprint: fingerprint, ID: id})
	case prevIn && newIn:
		if !prevExists || !newExists || !prev.Equal(newRec) {
			es.publish(fingerprint, UpdateEvent{Fingerprint: fingerprint, Record: newRec.Clone()})
		}
	}
}

func (es *entityState) mutateLookups(id Value, prev Record, prevExists bool, newRec Record, newExists bool) {
	for _, field := range es.config.Lookups {
		var pv Value
		var pok bool
		if prevExists {
			pv, pok = prev.Get(field)
		}
		var nv Value
		var nok bool
		if newExists {
			nv, nok = newRec.Get(field)
		}
		if pok && nok && pv.Equal(nv) {
			continue
		}
		if pok {
			es.lookupRemove(field, pv, id)
		}
		if nok {
			es.lookupAdd(field, nv, id)
		}
	}
}
