package indexed

import (
	"reflect"
	"testing"
)

func TestNormalizePrefiltersMergesMaintainUniqueIntoNull(t *testing.T) {
	specs := []PrefilterSpec{
		{Field: "label", MaintainUnique: []string{"media"}},
	}
	out, err := normalizePrefilters(specs)
	if err != nil {
		t.Fatalf("normalizePrefilters: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 (null + label)", len(out))
	}
	if !out[0].isNull {
		t.Fatal("out[0] should be the null prefilter")
	}
	if !reflect.DeepEqual(out[0].maintainUnique, []string{"media"}) {
		t.Fatalf("null prefilter should inherit media from the label prefilter: %v", out[0].maintainUnique)
	}
	if out[1].field != "label" {
		t.Fatalf("out[1].field = %q, want label", out[1].field)
	}
}

func TestNormalizePrefiltersRejectsExplicitEmptyNull(t *testing.T) {
	_, err := normalizePrefilters([]PrefilterSpec{{Field: ""}})
	if err == nil {
		t.Fatal("an explicit null entry with no options should be rejected")
	}
}

func TestNormalizePrefiltersRejectsDuplicateField(t *testing.T) {
	_, err := normalizePrefilters([]PrefilterSpec{
		{Field: "label", MaintainUnique: []string{"media"}},
		{Field: "label", MaintainUnique: []string{"year"}},
	})
	if err == nil {
		t.Fatal("a duplicate prefilter field should be rejected")
	}
}

func TestNormalizePrefiltersWithExplicitNullOptions(t *testing.T) {
	out, err := normalizePrefilters([]PrefilterSpec{
		{Field: "", MaintainUnique: []string{"genre"}},
		{Field: "label", MaintainUnique: []string{"media"}},
	})
	if err != nil {
		t.Fatalf("normalizePrefilters: %v", err)
	}
	if !reflect.DeepEqual(out[0].maintainUnique, []string{"genre", "media"}) {
		t.Fatalf("null prefilter maintainUnique = %v, want [genre media]", out[0].maintainUnique)
	}
}
