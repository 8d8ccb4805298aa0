// Package label implements ingestion of regulatory product-labeling documents
// into a normalized relational repository.
//
// One ingestion run takes an SPL XML document and materializes it as a graph
// of rows: the document, its section tree connected by ordered hierarchy
// edges, and the listed products with their packaging levels and typed
// characteristics. Runs are idempotent; re-ingesting a document a store has
// already seen (fully or partially) creates only the missing rows.
//
// # Components
//
//   - Service: orchestrates one run and produces an IngestReport.
//   - parser: resolves element content into rows (sections, products,
//     packaging, characteristics).
//   - hierarchy: owns the parent/child section edges, with incremental and
//     batch synchronization strategies.
//   - characteristic: decodes the tagged-union characteristic values and
//     deduplicates them by canonical fingerprint.
//   - store: the GORM-backed persistence primitives.
package label
