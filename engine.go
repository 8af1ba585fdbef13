package indexed

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Options configures an Engine at warm time, mirroring the teacher's
// Options struct (db.go): a Logf callback for operational logging, plus
// switches for optional debug tracing.
type Options struct {
	// Logf receives view lifecycle notices (CreateView/DestroyView), in
	// the teacher's verbose-logging style (db.go's logf/verbose fields).
	// Put, Drop and Warm do not log through it.
	Logf func(format string, args ...any)

	// Broadcaster, if set, receives add/remove/update/uniques events
	// scoped to view fingerprints.
	Broadcaster Broadcaster

	// DebugScans enables structured slog tracing of each step of the
	// sorted-index insert_by scan, plus one record per Engine.Paginate
	// call (the cursor walk itself is not traced step by step), mirroring
	// the teacher's IndexOptDebugScans (schemaindex.go) and scan.go's
	// logger.LogAttrs debug trail.
	DebugScans bool

	// Logger receives the DebugScans trace. Defaults to slog.Default().
	Logger *slog.Logger
}

// Engine is the top-level multi-entity record store. Mutating
// operations on a given entity are serialized by a per-entity
// sync.RWMutex; reads on that entity run concurrently with each other
// but not with a mutation.
type Engine struct {
	mu       sync.RWMutex
	entities map[string]*entityState
	opts     Options
}

// entityState holds every derived structure for one entity: the
// primary store, every sorted index, every uniques bundle, every
// lookup, and the view registry, all addressed by the flattened string
// keys defined in keys.go. This plays the role the teacher's per-table
// bbolt buckets play (schemaindex.go, opput.go), adapted to pure
// in-memory maps since persistence is out of scope (see DESIGN.md).
type entityState struct {
	mu sync.RWMutex

	config     EntityConfig
	prefilters []normalizedPrefilter

	primary map[Value]Record

	// indexes maps an indexKey() string to its ordered id list.
	indexes map[string][]Value

	// uniques maps a uniquesMapKey() string to its bundle, which serves
	// both the counts-map and sorted-list reads off the same storage.
	uniques map[string]*UniquesBundle

	// lookups maps a lookupKey() string to its value -> []id map.
	lookups map[string]map[Value][]Value

	// views maps a fingerprint to its ViewSpec.
	views map[string]*ViewSpec

	broadcaster Broadcaster
	logf        func(format string, args ...any)
	debugScans  bool
	logger      *slog.Logger

	stats entityStats
}

// Stats holds the point-in-time counters for one entity, following the
// teacher's atomic-counter monitoring pattern (db.go's ReaderCount /
// WriterCount / ReadCount / WriteCount).
type Stats struct {
	RecordCount   int64
	PutCount      uint64
	DropCount     uint64
	ViewsCreated  uint64
	ViewsDestroyed uint64
}

type entityStats struct {
	recordCount    atomic.Int64
	putCount       atomic.Uint64
	dropCount      atomic.Uint64
	viewsCreated   atomic.Uint64
	viewsDestroyed atomic.Uint64
}

func (s *entityStats) snapshot() Stats {
	return Stats{
		RecordCount:    s.recordCount.Load(),
		PutCount:       s.putCount.Load(),
		DropCount:      s.dropCount.Load(),
		ViewsCreated:   s.viewsCreated.Load(),
		ViewsDestroyed: s.viewsDestroyed.Load(),
	}
}

func (e *entityState) logIt(format string, args ...any) {
	if e.logf != nil {
		e.logf(format, args...)
	}
}

// NewEngine returns an Engine with no entities warmed yet. Most callers
// should use Warm instead, which both allocates an Engine and warms an
// initial set of entities in one call.
func NewEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		entities: make(map[string]*entityState),
		opts:     opts,
	}
}

// Stats returns a snapshot of one entity's counters, or the zero value
// if the entity is unknown.
func (eng *Engine) Stats(entity string) Stats {
	es, ok := eng.entity(entity)
	if !ok {
		return Stats{}
	}
	return es.stats.snapshot()
}

func (eng *Engine) entity(name string) (*entityState, bool) {
	eng.mu.RLock()
	defer eng.mu.RUnlock()
	es, ok := eng.entities[name]
	return es, ok
}

func (eng *Engine) mustEntity(name string) *entityState {
	es, ok := eng.entity(name)
	if !ok {
		panic(unknownEntityErr(name))
	}
	return es
}
