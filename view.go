package indexed

// Predicate filters records within a view's base prefilter. Capturing
// the filter behind a single-method interface rather than a closure
// keeps a ViewSpec's predicate inspectable by type.
type Predicate interface {
	Matches(rec Record) bool
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(Record) bool

func (f PredicateFunc) Matches(rec Record) bool { return f(rec) }

// ViewSpec is a registered, filtered result set with its own derived
// sorted indexes and uniques.
type ViewSpec struct {
	Fingerprint    string
	Prefilter      Prefilter
	Predicate      Predicate
	MaintainUnique []string
	Params         map[string]Value
}

// GetView returns a registered view's spec, or (nil, false) if unknown.
func (eng *Engine) GetView(entity, fingerprint string) (*ViewSpec, bool) {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()
	vs, ok := es.views[fingerprint]
	return vs, ok
}

// GetViews returns every registered view for entity.
func (eng *Engine) GetViews(entity string) map[string]*ViewSpec {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()
	out := make(map[string]*ViewSpec, len(es.views))
	for k, v := range es.views {
		out[k] = v
	}
	return out
}
