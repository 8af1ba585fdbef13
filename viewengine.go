package indexed

import "sort"

// CreateView registers a new filtered view. spec.Fingerprint identifies
// the view; spec.Prefilter selects the base population the predicate
// filters down from (typically NullPrefilter() for a whole-entity view,
// or a field prefilter for a narrower one).
func (eng *Engine) CreateView(entity string, spec ViewSpec) error {
	es := eng.mustEntity(entity)
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.createView(spec)
}

func (es *entityState) createView(spec ViewSpec) error {
	if _, exists := es.views[spec.Fingerprint]; exists {
		return duplicateViewErr(es.config.Name, spec.Fingerprint)
	}
	if len(es.config.Fields) == 0 {
		return configInvalidErr("entity %q has no configured fields to derive a view baseline from", es.config.Name)
	}

	baseField := es.config.Fields[0].Name
	baseline := es.getIndexList(spec.Prefilter, baseField, Asc)

	viewPF := ViewPrefilter(spec.Fingerprint)

	filtered := make([]Value, 0, len(baseline))
	for _, id := range baseline {
		rec := es.primary[id]
		if spec.Predicate == nil || spec.Predicate.Matches(rec) {
			filtered = append(filtered, id)
		}
	}

	for _, f := range es.config.Fields {
		var asc []Value
		if f.Name == baseField {
			asc = filtered
		} else {
			asc = make([]Value, len(filtered))
			copy(asc, filtered)
			sort.SliceStable(asc, func(i, j int) bool {
				vi, _ := es.primary[asc[i]].Get(f.Name)
				vj, _ := es.primary[asc[j]].Get(f.Name)
				return compareValues(vi, vj, f.Strategy) < 0
			})
		}
		es.setIndexPair(viewPF, f.Name, reverseOf(asc))
	}

	for _, field := range spec.MaintainUnique {
		strategy, _ := es.config.fieldStrategy(field)
		bundle := newUniquesBundle(strategy)
		for _, id := range filtered {
			if v, ok := es.primary[id].Get(field); ok {
				bundle.Add(v)
			}
		}
		bundle.clearFlags()
		es.persistUniques(viewPF, field, bundle)
	}

	es.views[spec.Fingerprint] = &spec
	es.stats.viewsCreated.Add(1)
	es.logIt("created view %s on entity %s", spec.Fingerprint, es.config.Name)
	return nil
}

// DestroyView removes a registered view and every structure derived
// from it. Returns NOT_FOUND if fingerprint is unknown.
func (eng *Engine) DestroyView(entity, fingerprint string) error {
	es := eng.mustEntity(entity)
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.destroyView(fingerprint)
}

func (es *entityState) destroyView(fingerprint string) error {
	spec, ok := es.views[fingerprint]
	if !ok {
		return viewNotFoundErr(es.config.Name, fingerprint)
	}

	viewPF := ViewPrefilter(fingerprint)
	es.deleteIndexQuadrant(viewPF)
	for _, field := range spec.MaintainUnique {
		delete(es.uniques, uniquesMapKey(es.config.Name, viewPF, field))
	}
	delete(es.views, fingerprint)
	es.stats.viewsDestroyed.Add(1)
	es.logIt("destroyed view %s on entity %s", fingerprint, es.config.Name)
	return nil
}
