// Package store implements the persistence primitives of the label repository
// on top of GORM.
//
// The Store interface is deliberately narrow: idempotent upserts for nodes
// (documents, sections, products, packaging levels) and bulk find/insert for
// the two insert-only tables the pipeline owns, hierarchy edges and product
// characteristics. The batched resolver strategies depend on the bulk calls
// (FindSectionsByNaturalKeys, FindEdgesByParentAndChildren, InsertEdges) to
// keep store round trips O(1) per parent regardless of child count.
package store
