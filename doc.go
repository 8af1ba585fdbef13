/*
Package indexed implements an in-memory, multi-index record store.

Callers warm the store with a set of typed record collections
("entities"). For each entity the store maintains:

 1. a primary store keyed by record id,
 2. pairs of ascending/descending sorted id-lists per configured field,
 3. value-partitioned sub-indexes ("prefilters") over configured fields,
 4. ad-hoc filtered result sets ("views") identified by a stable
    fingerprint,
 5. auxiliary maps of unique values with occurrence counts ("uniques"),
 6. reverse lookup maps from field values to record ids.

On top of these structures it offers cursor-based pagination.

# Technical details

**Keys.** All derived structures are addressed by a deterministic string
key (see keys.go): sorted indexes by `(entity, prefilter, field,
direction)`, uniques by `(entity, prefilter, field)`, lookups by
`(entity, field)`. These strings are internal and only need to be stable
within a single process lifetime.

**Prefilters.** A prefilter selects a subset of an entity's records: the
whole entity (the implicit null prefilter), an equality match on a
configured field, or a registered view's fingerprint.

**Mutation.** `Put` and `Drop` are the only two entry points that change
records; both keep every sorted index, uniques bundle, lookup, and view in
sync in a single call, so no caller ever observes a partially updated
entity.
*/
package indexed
