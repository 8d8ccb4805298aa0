// Package parser turns a label document's element tree into persisted rows.
//
// It implements the content-resolution side of the pipeline: section payloads,
// products, packaging chains and the characteristic synchronization hooks.
// Hierarchy edges are not created here; the parser hands each persisted
// section back to the hierarchy resolver, which calls back into the parser
// (ResolveChildSection, ResolveSubtree) for the next level down. That mutual
// recursion is what walks the whole tree.
package parser
