package indexed

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// PrefilterKind is the closed set of prefilter shapes.
type PrefilterKind uint8

const (
	PrefilterNull PrefilterKind = iota
	PrefilterField
	PrefilterView
)

// Prefilter selects a subset of an entity's records: every record
// (Null), an equality match on a field (Field/Value), or a registered
// view's fingerprint (Fingerprint).
type Prefilter struct {
	Kind        PrefilterKind
	Field       string
	Value       Value
	Fingerprint string
}

// NullPrefilter selects every record of the entity.
func NullPrefilter() Prefilter { return Prefilter{Kind: PrefilterNull} }

// FieldPrefilter selects records whose field equals value.
func FieldPrefilter(field string, value Value) Prefilter {
	return Prefilter{Kind: PrefilterField, Field: field, Value: value}
}

// ViewPrefilter selects records belonging to a registered view.
func ViewPrefilter(fingerprint string) Prefilter {
	return Prefilter{Kind: PrefilterView, Fingerprint: fingerprint}
}

func (p Prefilter) tag() string {
	switch p.Kind {
	case PrefilterField:
		return "[" + p.Field + "=" + p.Value.InspectString() + "]"
	case PrefilterView:
		return p.Fingerprint
	default:
		return "[]"
	}
}

// indexKey renders the stable internal key for a (entity, prefilter,
// field, direction) sorted index.
func indexKey(entity string, pf Prefilter, dir Direction, field string) string {
	return "idx_" + entity + pf.tag() + "_" + dir.String() + "_" + field
}

func uniquesMapKey(entity string, pf Prefilter, field string) string {
	return "uniques_map_" + entity + pf.tag() + field
}

func lookupKey(entity string, field string) string {
	return "lookup_" + entity + field
}

func viewsKey(entity string) string {
	return "views_" + entity
}

// Fingerprint derives a stable 24-hex-character identifier from a set
// of view parameters: sort by key, render each entry as "{key}.{value}",
// join with ":", SHA-256, hex-encode, truncate to 24 characters.
func Fingerprint(params map[string]Value) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(':')
		}
		buf.WriteString(k)
		buf.WriteByte('.')
		buf.WriteString(params[k].InspectString())
	}

	sum := sha256.Sum256([]byte(buf.String()))
	full := hex.EncodeToString(sum[:])
	const fingerprintLen = 24
	if len(full) > fingerprintLen {
		return full[:fingerprintLen]
	}
	return full
}
