package indexed

import (
	"errors"
	"testing"
)

func TestStatsTrackPutsAndDrops(t *testing.T) {
	cfg := carsEntity()
	eng, err := Warm([]EntityWarm{{Config: cfg, Data: EntityData{}}}, Options{})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}

	if err := eng.Put("cars", Record{"id": Int(1), "make": String("Mazda")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := eng.Put("cars", Record{"id": Int(2), "make": String("Acura")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := eng.Drop("cars", Int(1)); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	stats := eng.Stats("cars")
	if stats.RecordCount != 1 {
		t.Fatalf("RecordCount = %d, want 1", stats.RecordCount)
	}
	if stats.PutCount != 2 {
		t.Fatalf("PutCount = %d, want 2", stats.PutCount)
	}
	if stats.DropCount != 1 {
		t.Fatalf("DropCount = %d, want 1", stats.DropCount)
	}
}

func TestStatsOfUnknownEntityIsZero(t *testing.T) {
	eng := NewEngine(Options{})
	stats := eng.Stats("ghost")
	if stats != (Stats{}) {
		t.Fatalf("Stats of unknown entity = %+v, want zero value", stats)
	}
}

func TestMustEntityPanicsOnUnknown(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("operating on an unknown entity should panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value = %v, want an error", r)
		}
		if !errors.Is(err, ErrUnknownEntity) {
			t.Fatalf("panic error = %v, want ErrUnknownEntity", err)
		}
		if errors.Is(err, ErrConfigInvalid) {
			t.Fatal("an unknown entity should not also match ErrConfigInvalid")
		}
	}()
	eng := NewEngine(Options{})
	eng.Get("ghost", Int(1), nil)
}
