package indexed

import (
	"reflect"
	"testing"
)

func TestUniquesBundleAddRemove(t *testing.T) {
	b := newUniquesBundle(SortNatural)
	b.Add(String("b"))
	b.Add(String("a"))
	b.Add(String("a"))

	if got := valueStrings(b.List()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("List = %v", got)
	}
	if b.Map()[String("a")] != 2 {
		t.Fatalf("count for a = %d, want 2", b.Map()[String("a")])
	}

	b.Remove(String("a"))
	if !b.Contains(String("a")) {
		t.Fatal("a should still be present after one removal of two")
	}
	if b.LastRemoved() {
		t.Fatal("LastRemoved set on a non-final removal")
	}

	b.Remove(String("a"))
	if b.Contains(String("a")) {
		t.Fatal("a should be gone after removing its last instance")
	}
	if !b.LastRemoved() {
		t.Fatal("LastRemoved should be set on the final removal")
	}
}

func TestUniquesBundleRemoveAbsentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Remove of an absent value should panic")
		}
	}()
	newUniquesBundle(SortNatural).Remove(String("nope"))
}

func TestUniquesBundleEmptyAfterAllRemoved(t *testing.T) {
	b := newUniquesBundle(SortNatural)
	b.Add(Int(1))
	b.Remove(Int(1))
	if !b.Empty() {
		t.Fatal("bundle should be empty once every value is removed")
	}
}
