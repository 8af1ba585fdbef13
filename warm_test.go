package indexed

import (
	"errors"
	"reflect"
	"testing"
)

func carsEntity() EntityConfig {
	return EntityConfig{
		Name:  "cars",
		IDKey: FieldID("id"),
		Fields: []FieldConfig{
			{Name: "make", Strategy: SortNatural},
		},
	}
}

func namesOf(recs []Record, field string) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		s, _ := r.MustGet(field).AsString()
		out[i] = s
	}
	return out
}

// S1: warm + get.
func TestWarmAndGet(t *testing.T) {
	cfg := carsEntity()
	eng, err := Warm([]EntityWarm{{
		Config: cfg,
		Data: EntityData{
			Records: []Record{
				{"id": Int(1), "make": String("Lamborghini")},
				{"id": Int(2), "make": String("Mazda")},
			},
			HasHint:   true,
			HintField: "make",
			HintDir:   Asc,
		},
	}}, Options{})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}

	if got := eng.Get("cars", Int(1), nil); got == nil || got["make"] != String("Lamborghini") {
		t.Fatalf("Get(1) = %v", got)
	}
	if got := eng.Get("cars", Int(9), nil); got != nil {
		t.Fatalf("Get(9) = %v, want nil", got)
	}

	recs := eng.GetRecords("cars", NullPrefilter(), "make", Asc)
	if got := namesOf(recs, "make"); !reflect.DeepEqual(got, []string{"Lamborghini", "Mazda"}) {
		t.Fatalf("GetRecords asc = %v", got)
	}
}

// S2: update via Put.
func TestPutUpdatesPrimaryAndIndexes(t *testing.T) {
	cfg := carsEntity()
	eng, err := Warm([]EntityWarm{{
		Config: cfg,
		Data: EntityData{
			Records: []Record{
				{"id": Int(1), "make": String("Lamborghini")},
				{"id": Int(2), "make": String("Mazda")},
			},
		},
	}}, Options{})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}

	if err := eng.Put("cars", Record{"id": Int(1), "make": String("Lambo")}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if got := eng.Get("cars", Int(1), nil); got["make"] != String("Lambo") {
		t.Fatalf("Get(1) after put = %v", got)
	}

	recs := eng.GetRecords("cars", NullPrefilter(), "make", Asc)
	if got := namesOf(recs, "make"); !reflect.DeepEqual(got, []string{"Lambo", "Mazda"}) {
		t.Fatalf("GetRecords asc after put = %v", got)
	}
}

// Invariant 1: asc(e,p,f) == reverse(desc(e,p,f)).
func TestAscIsReverseOfDesc(t *testing.T) {
	cfg := carsEntity()
	eng, err := Warm([]EntityWarm{{
		Config: cfg,
		Data: EntityData{
			Records: []Record{
				{"id": Int(1), "make": String("Lamborghini")},
				{"id": Int(2), "make": String("Mazda")},
				{"id": Int(3), "make": String("Acura")},
			},
		},
	}}, Options{})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}

	es, _ := eng.entity("cars")
	asc := es.getIndexList(NullPrefilter(), "make", Asc)
	desc := es.getIndexList(NullPrefilter(), "make", Desc)
	if !reflect.DeepEqual(asc, reverseOf(desc)) {
		t.Fatalf("asc %v is not reverse of desc %v", asc, desc)
	}
}

// Invariant 8: put(x); put(x) is equivalent to put(x).
func TestPutIsIdempotent(t *testing.T) {
	cfg := carsEntity()
	eng, err := Warm([]EntityWarm{{Config: cfg, Data: EntityData{}}}, Options{})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}

	rec := Record{"id": Int(1), "make": String("Mazda")}
	if err := eng.Put("cars", rec); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	before := eng.Dump("cars", DumpAll)
	if err := eng.Put("cars", rec.Clone()); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	after := eng.Dump("cars", DumpAll)
	if before != after {
		t.Fatalf("repeated Put changed state:\nbefore=%s\nafter=%s", before, after)
	}
}

// Invariant 9: put(x); drop(id(x)) restores prior state.
func TestPutThenDropRestoresState(t *testing.T) {
	cfg := carsEntity()
	eng, err := Warm([]EntityWarm{{
		Config: cfg,
		Data:   EntityData{Records: []Record{{"id": Int(1), "make": String("Mazda")}}},
	}}, Options{})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}
	before := eng.Dump("cars", DumpAll)

	if err := eng.Put("cars", Record{"id": Int(2), "make": String("Acura")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := eng.Drop("cars", Int(2)); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	after := eng.Dump("cars", DumpAll)
	if before != after {
		t.Fatalf("put+drop did not restore state:\nbefore=%s\nafter=%s", before, after)
	}
}

func TestDropUnknownIDIsNotFound(t *testing.T) {
	cfg := carsEntity()
	eng, err := Warm([]EntityWarm{{Config: cfg, Data: EntityData{}}}, Options{})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}
	err = eng.Drop("cars", Int(42))
	if err == nil {
		t.Fatal("Drop of unknown id: expected error")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Drop of unknown id: got %v, want NOT_FOUND", err)
	}
}
