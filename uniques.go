package indexed

import "slices"

// UniquesBundle is a (counts, sorted list) summary of distinct field
// values. Invariant: list == sorted(keys(counts)); a value is in counts
// iff its count is > 0.
type UniquesBundle struct {
	counts map[Value]int
	list   []Value

	strategy SortStrategy

	listChanged bool
	lastRemoved bool
}

func newUniquesBundle(strategy SortStrategy) *UniquesBundle {
	return &UniquesBundle{counts: make(map[Value]int), strategy: strategy}
}

// Add increments value's count, or inserts it at its sorted position
// with count 1 if not already present.
func (u *UniquesBundle) Add(value Value) {
	if u.counts[value] > 0 {
		u.counts[value]++
		return
	}
	pos, _ := u.search(value)
	u.list = slices.Insert(u.list, pos, value)
	u.counts[value] = 1
	u.listChanged = true
}

// Remove decrements value's count, removing it from the map and the
// list when the count reaches zero. It panics if value is not
// currently present — callers must only call Remove for values they
// know are present.
func (u *UniquesBundle) Remove(value Value) {
	n, ok := u.counts[value]
	if !ok || n < 1 {
		panic(&EngineError{Kind: ErrKindMissingField, Msg: "uniques bundle: remove of absent value " + value.String()})
	}
	if n == 1 {
		delete(u.counts, value)
		if pos, found := u.search(value); found {
			u.list = slices.Delete(u.list, pos, pos+1)
		}
		u.listChanged = true
		u.lastRemoved = true
		return
	}
	u.counts[value] = n - 1
}

// Contains reports whether value currently has a positive count.
func (u *UniquesBundle) Contains(value Value) bool {
	return u.counts[value] > 0
}

// ListChanged reports whether list membership changed since the flags
// were last cleared.
func (u *UniquesBundle) ListChanged() bool { return u.listChanged }

// LastRemoved reports whether the most recent Remove eliminated the
// last instance of some value — the "partition empty" signal that
// drives last-instance pruning in Put/Drop.
func (u *UniquesBundle) LastRemoved() bool { return u.lastRemoved }

// Empty reports whether the bundle currently holds no values.
func (u *UniquesBundle) Empty() bool { return len(u.counts) == 0 }

// Map returns a copy of the counts map.
func (u *UniquesBundle) Map() map[Value]int {
	out := make(map[Value]int, len(u.counts))
	for k, v := range u.counts {
		out[k] = v
	}
	return out
}

// List returns a copy of the sorted value list.
func (u *UniquesBundle) List() []Value {
	return slices.Clone(u.list)
}

// clearFlags resets the dirty flags, as if the bundle had just been
// freshly obtained with no pending changes.
func (u *UniquesBundle) clearFlags() {
	u.listChanged = false
	u.lastRemoved = false
}

func (u *UniquesBundle) search(value Value) (int, bool) {
	return slices.BinarySearchFunc(u.list, value, func(a, b Value) int {
		return compareValues(a, b, u.strategy)
	})
}
