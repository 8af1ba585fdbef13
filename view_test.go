package indexed

import (
	"reflect"
	"strings"
	"testing"
)

type containsPredicate struct {
	field, substr string
}

func (p containsPredicate) Matches(rec Record) bool {
	s, ok := rec.Get(p.field)
	if !ok {
		return false
	}
	v, _ := s.AsString()
	return strings.Contains(v, p.substr)
}

// S5: view lifecycle — creation, mutation while live, destruction.
func TestViewLifecycle(t *testing.T) {
	cfg := albumsEntity()
	eng, err := Warm([]EntityWarm{{
		Config: cfg,
		Data: EntityData{
			Records: []Record{
				album(1, "Logistics", "Hospital Records", "Vinyl"),
				album(2, "Lola", "Hospital Records", "CD"),
				album(3, "Offworld", "Hospital Records", "Digital"),
			},
		},
	}}, Options{})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}

	const fp = "fp-hospital-lo"
	spec := ViewSpec{
		Fingerprint:    fp,
		Prefilter:      FieldPrefilter("label", String("Hospital Records")),
		Predicate:      containsPredicate{field: "name", substr: "Lo"},
		MaintainUnique: []string{"media"},
	}
	if err := eng.CreateView("albums", spec); err != nil {
		t.Fatalf("CreateView: %v", err)
	}

	got := eng.GetRecords("albums", ViewPrefilter(fp), "name", Asc)
	if names := namesOf(got, "name"); !reflect.DeepEqual(names, []string{"Logistics", "Lola"}) {
		t.Fatalf("view records = %v, want [Logistics Lola]", names)
	}

	if err := eng.CreateView("albums", spec); err == nil {
		t.Fatal("CreateView with duplicate fingerprint: expected error")
	}

	// Put a new matching record; it should appear in the view's index
	// and uniques without a rebuild.
	if err := eng.Put("albums", album(4, "Lost Frequencies", "Hospital Records", "Vinyl")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got = eng.GetRecords("albums", ViewPrefilter(fp), "name", Asc)
	if names := namesOf(got, "name"); !reflect.DeepEqual(names, []string{"Logistics", "Lola", "Lost Frequencies"}) {
		t.Fatalf("view records after put = %v", names)
	}
	media := valueStrings(eng.GetUniquesList("albums", ViewPrefilter(fp), "media"))
	if !reflect.DeepEqual(media, []string{"CD", "Vinyl"}) {
		t.Fatalf("view media uniques = %v", media)
	}

	if err := eng.DestroyView("albums", fp); err != nil {
		t.Fatalf("DestroyView: %v", err)
	}
	if _, ok := eng.GetView("albums", fp); ok {
		t.Fatal("view still registered after DestroyView")
	}
	if got := eng.GetRecords("albums", ViewPrefilter(fp), "name", Asc); len(got) != 0 {
		t.Fatalf("view index survives DestroyView: %v", got)
	}
	if got := eng.GetUniquesList("albums", ViewPrefilter(fp), "media"); len(got) != 0 {
		t.Fatalf("view uniques survive DestroyView: %v", got)
	}

	if err := eng.DestroyView("albums", fp); err == nil {
		t.Fatal("DestroyView of unknown fingerprint: expected error")
	}
}

type recordingBroadcaster struct {
	messages []any
}

func (b *recordingBroadcaster) Publish(topic string, message any) {
	b.messages = append(b.messages, message)
}

func TestViewMutationPublishesEvents(t *testing.T) {
	cfg := albumsEntity()
	bc := &recordingBroadcaster{}
	eng, err := Warm([]EntityWarm{{
		Config: cfg,
		Data:   EntityData{Records: []Record{album(1, "Logistics", "Hospital Records", "Vinyl")}},
	}}, Options{Broadcaster: bc})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}

	const fp = "fp-all"
	if err := eng.CreateView("albums", ViewSpec{Fingerprint: fp, Prefilter: NullPrefilter()}); err != nil {
		t.Fatalf("CreateView: %v", err)
	}

	if err := eng.Put("albums", album(2, "Lola", "Hospital Records", "CD")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var sawAdd bool
	for _, m := range bc.messages {
		if _, ok := m.(AddEvent); ok {
			sawAdd = true
		}
	}
	if !sawAdd {
		t.Fatalf("expected an AddEvent, got %#v", bc.messages)
	}

	bc.messages = nil
	if err := eng.Drop("albums", Int(2)); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	var sawRemove bool
	for _, m := range bc.messages {
		if _, ok := m.(RemoveEvent); ok {
			sawRemove = true
		}
	}
	if !sawRemove {
		t.Fatalf("expected a RemoveEvent, got %#v", bc.messages)
	}
}
