package indexed

import "sort"

// EntityData is the bulk input accepted at warm time for one entity:
// the records themselves, plus an optional hint that lets the caller
// hand the engine an already-sorted list for one field and direction
// so that list does not need to be re-sorted.
type EntityData struct {
	Records []Record

	HasHint   bool
	HintField string
	HintDir   Direction
}

// EntityWarm pairs an entity's configuration with its bulk data for a
// single Warm call.
type EntityWarm struct {
	Config EntityConfig
	Data   EntityData
}

// Warm builds a fresh Engine and materializes every derived structure
// for every entity. Configuration errors (an unknown hint field, an
// illegal null-prefilter entry) are CONFIG_INVALID and cause Warm to
// return an error without partial engine construction; other accessors
// in this package panic on a comparable misconfiguration instead, but
// Warm itself always returns the error so callers can decide.
func Warm(entities []EntityWarm, opts Options) (*Engine, error) {
	eng := NewEngine(opts)
	for _, ew := range entities {
		es, err := warmEntity(ew, eng.opts)
		if err != nil {
			return nil, err
		}
		eng.entities[ew.Config.Name] = es
	}
	return eng, nil
}

// WarmEntity adds (or replaces) a single entity's state on an already
// constructed Engine, for callers that warm entities incrementally.
func (eng *Engine) WarmEntity(ew EntityWarm) error {
	es, err := warmEntity(ew, eng.opts)
	if err != nil {
		return err
	}
	eng.mu.Lock()
	defer eng.mu.Unlock()
	eng.entities[ew.Config.Name] = es
	return nil
}

func warmEntity(ew EntityWarm, opts Options) (*entityState, error) {
	cfg := ew.Config
	data := ew.Data

	prefilters, err := normalizePrefilters(cfg.Prefilters)
	if err != nil {
		return nil, err
	}

	if data.HasHint {
		if _, ok := cfg.fieldStrategy(data.HintField); !ok {
			return nil, configInvalidErr("warm hint field %q is not a configured field of entity %q", data.HintField, cfg.Name)
		}
	}

	es := &entityState{
		config:      cfg,
		prefilters:  prefilters,
		primary:     make(map[Value]Record, len(data.Records)),
		indexes:     make(map[string][]Value),
		uniques:     make(map[string]*UniquesBundle),
		lookups:     make(map[string]map[Value][]Value),
		views:       make(map[string]*ViewSpec),
		broadcaster: opts.Broadcaster,
		logf:        opts.Logf,
		debugScans:  opts.DebugScans,
		logger:      opts.Logger,
	}

	for _, rec := range data.Records {
		id := cfg.IDKey.extract(rec)
		es.primary[id] = rec
	}
	es.stats.recordCount.Store(int64(len(es.primary)))

	// Null-prefilter sorted indexes, honoring the warm hint.
	for _, f := range cfg.Fields {
		desc := buildSortedDesc(data.Records, cfg.IDKey, f, data.HasHint && data.HintField == f.Name, data.HintDir)
		es.setIndexPair(NullPrefilter(), f.Name, desc)
	}

	// Null-prefilter (global) uniques for any maintain_unique field
	// declared anywhere, folded over every record in the entity.
	for _, field := range prefilters[0].maintainUnique {
		strategy, _ := cfg.fieldStrategy(field)
		bundle := newUniquesBundle(strategy)
		for _, rec := range data.Records {
			if v, ok := rec.Get(field); ok {
				bundle.Add(v)
			}
		}
		bundle.clearFlags()
		es.uniques[uniquesMapKey(cfg.Name, NullPrefilter(), field)] = bundle
	}

	// Field prefilters: group records, build per-group sorted indexes,
	// the discovery bundle over the prefilter field itself, and any
	// per-partition maintain_unique bundles.
	for _, pfc := range prefilters {
		if pfc.isNull {
			continue
		}
		groups := make(map[Value][]Record)
		var order []Value
		for _, rec := range data.Records {
			v, ok := rec.Get(pfc.field)
			if !ok {
				continue
			}
			if _, seen := groups[v]; !seen {
				order = append(order, v)
			}
			groups[v] = append(groups[v], rec)
		}

		discovery := newUniquesBundle(SortNatural)
		for _, v := range order {
			discovery.Add(v)
		}
		discovery.clearFlags()
		es.uniques[uniquesMapKey(cfg.Name, NullPrefilter(), pfc.field)] = discovery

		for _, v := range order {
			group := groups[v]
			pf := FieldPrefilter(pfc.field, v)
			for _, f := range cfg.Fields {
				desc := buildSortedDesc(group, cfg.IDKey, f, false, Asc)
				es.setIndexPair(pf, f.Name, desc)
			}
			for _, field := range pfc.maintainUnique {
				strategy, _ := cfg.fieldStrategy(field)
				bundle := newUniquesBundle(strategy)
				for _, rec := range group {
					if fv, ok := rec.Get(field); ok {
						bundle.Add(fv)
					}
				}
				bundle.clearFlags()
				es.uniques[uniquesMapKey(cfg.Name, pf, field)] = bundle
			}
		}
	}

	// Lookups.
	for _, field := range cfg.Lookups {
		m := make(map[Value][]Value)
		for _, rec := range data.Records {
			id := cfg.IDKey.extract(rec)
			if v, ok := rec.Get(field); ok {
				m[v] = append(m[v], id)
			}
		}
		es.lookups[lookupKey(cfg.Name, field)] = m
	}

	return es, nil
}

// buildSortedDesc returns the descending id list for field over
// records. When useHint is true, records is assumed to already be
// ordered by hintDir for this field and is used as-is (reversed if
// hintDir is Asc) rather than sorted.
func buildSortedDesc(records []Record, idKey IDKey, f FieldConfig, useHint bool, hintDir Direction) []Value {
	if len(records) == 0 {
		return nil
	}
	if useHint {
		ids := make([]Value, len(records))
		for i, rec := range records {
			ids[i] = idKey.extract(rec)
		}
		if hintDir == Asc {
			return reverseOf(ids)
		}
		return ids
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, _ := sorted[i].Get(f.Name)
		vj, _ := sorted[j].Get(f.Name)
		return compareValues(vi, vj, f.Strategy) < 0
	})

	ids := make([]Value, len(sorted))
	for i, rec := range sorted {
		ids[i] = idKey.extract(rec)
	}
	return reverseOf(ids)
}
