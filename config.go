package indexed

// FieldConfig names one of an entity's sortable fields and the
// comparator strategy used to order it.
type FieldConfig struct {
	Name     string
	Strategy SortStrategy
}

// PrefilterSpec is one entry of an entity's prefilter configuration.
// Field == "" denotes the null (global, non-partitioned) prefilter; it
// is implicitly present even if never listed, and may only be listed
// explicitly to attach MaintainUnique fields to it — an explicit null
// entry with no MaintainUnique options is rejected, since it would be a
// no-op.
type PrefilterSpec struct {
	Field          string
	MaintainUnique []string
}

// LookupSpec names a field for which a reverse value -> []id map is
// maintained.
type LookupSpec = string

// EntityConfig is one entity's immutable-after-warm configuration.
type EntityConfig struct {
	Name       string
	IDKey      IDKey
	Fields     []FieldConfig
	Prefilters []PrefilterSpec
	Lookups    []LookupSpec
}

// normalizedPrefilter is the validated, de-duplicated internal form of
// an entity's prefilter configuration.
type normalizedPrefilter struct {
	isNull         bool
	field          string
	maintainUnique []string
}

// normalizePrefilters validates the caller's prefilter configuration.
// Any field named in a non-null prefilter's MaintainUnique is also
// tracked, un-partitioned, under the null prefilter, so a global
// uniques list exists for every field that is maintained anywhere.
func normalizePrefilters(specs []PrefilterSpec) ([]normalizedPrefilter, error) {
	var nullMaintain []string
	seenNull := make(map[string]bool)
	var fieldEntries []normalizedPrefilter
	seenFields := make(map[string]bool)

	for _, spec := range specs {
		if spec.Field == "" {
			if len(spec.MaintainUnique) == 0 {
				return nil, configInvalidErr("explicit null prefilter entry requires maintain_unique options; the null prefilter is implicit")
			}
			for _, f := range spec.MaintainUnique {
				if !seenNull[f] {
					seenNull[f] = true
					nullMaintain = append(nullMaintain, f)
				}
			}
			continue
		}
		if seenFields[spec.Field] {
			return nil, configInvalidErr("duplicate prefilter field %q", spec.Field)
		}
		seenFields[spec.Field] = true
		fieldEntries = append(fieldEntries, normalizedPrefilter{
			field:          spec.Field,
			maintainUnique: append([]string(nil), spec.MaintainUnique...),
		})
		for _, f := range spec.MaintainUnique {
			if !seenNull[f] {
				seenNull[f] = true
				nullMaintain = append(nullMaintain, f)
			}
		}
	}

	out := make([]normalizedPrefilter, 0, len(fieldEntries)+1)
	out = append(out, normalizedPrefilter{isNull: true, maintainUnique: nullMaintain})
	out = append(out, fieldEntries...)
	return out, nil
}

func (c EntityConfig) fieldStrategy(name string) (SortStrategy, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Strategy, true
		}
	}
	return SortNatural, false
}

func (c EntityConfig) defaultField() string {
	if len(c.Fields) == 0 {
		return ""
	}
	return c.Fields[0].Name
}
