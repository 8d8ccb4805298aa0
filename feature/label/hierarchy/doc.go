// Package hierarchy synchronizes the ordered parent-child edges of a label's
// section tree.
//
// The resolver walks a parent element's immediate child sections, delegates
// full child-node resolution to the content-parsing collaborator, and then
// creates the edges that do not exist yet. Two interchangeable strategies
// implement the walk: incremental (one child, roughly three round trips at a
// time) and batch (three bulk store calls for the whole set). Both are
// idempotent and converge on the same persisted edge set.
//
// Edges belong exclusively to this package: nothing else writes
// section_hierarchies rows.
package hierarchy
