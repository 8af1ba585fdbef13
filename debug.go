package indexed

import (
	"fmt"
	"sort"
	"strings"
)

// DumpFlags selects which sections Dump includes, mirroring the
// teacher's debug.go.
type DumpFlags uint64

const (
	DumpIndexes DumpFlags = 1 << iota
	DumpUniques
	DumpLookups
	DumpViews

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

func (f DumpFlags) Contains(v DumpFlags) bool { return (f & v) == v }

var dumpSep = strings.Repeat("-", 60)

// Dump renders entity's in-memory index state as text, for tests and
// interactive debugging (it asserts nothing; tests such as those in
// warm_test.go compare Dump output to check invariants).
func (eng *Engine) Dump(entity string, f DumpFlags) string {
	es := eng.mustEntity(entity)
	es.mu.RLock()
	defer es.mu.RUnlock()

	var w strings.Builder
	fmt.Fprintf(&w, "%s (%d records)\n", entity, len(es.primary))

	if f.Contains(DumpIndexes) {
		fmt.Fprintln(&w, dumpSep)
		for _, key := range sortedKeys(es.indexes) {
			ids := es.indexes[key]
			fmt.Fprintf(&w, "%s: %s\n", key, formatIDs(ids))
		}
	}

	if f.Contains(DumpUniques) {
		fmt.Fprintln(&w, dumpSep)
		for _, key := range sortedKeys(es.uniques) {
			b := es.uniques[key]
			fmt.Fprintf(&w, "%s: %s\n", key, formatCounts(b))
		}
	}

	if f.Contains(DumpLookups) {
		fmt.Fprintln(&w, dumpSep)
		for _, key := range sortedKeys(es.lookups) {
			m := es.lookups[key]
			fmt.Fprintf(&w, "%s: %d values\n", key, len(m))
		}
	}

	if f.Contains(DumpViews) {
		fmt.Fprintln(&w, dumpSep)
		for _, fp := range sortedKeys(es.views) {
			fmt.Fprintf(&w, "%s: maintain_unique=%v\n", fp, es.views[fp].MaintainUnique)
		}
	}

	return w.String()
}

func formatIDs(ids []Value) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatCounts(b *UniquesBundle) string {
	list := b.List()
	parts := make([]string, len(list))
	m := b.Map()
	for i, v := range list {
		parts[i] = fmt.Sprintf("%s=%d", v.String(), m[v])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
