// Package characteristic decodes and persists the typed attribute records of
// products and packaging levels.
//
// A characteristic value is a tagged union: the xsi:type discriminator of the
// source element decides which variant fields populate (quantity, integer,
// coded, string, interval, encoded media, boolean). Decode is pure and never
// fails; malformed tokens decode to absent fields with a logged diagnostic.
//
// Duplicate detection runs on a canonical twelve-field Fingerprint. Two
// records are duplicates iff their fingerprints are equal within the same
// owner scope; Sync persists only the complement, either record by record
// (incremental) or in one bulk pass (batch).
package characteristic
