package hierarchy

import (
	"context"
	"sort"

	"label-ingest/feature/label/models"
	"label-ingest/feature/label/pipeline"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// resolveBatch resolves the whole subtree in one content-resolver call, then
// synchronizes the parent's edges with three bulk store calls: resolve all
// child natural keys, fetch existing edges, insert the missing set. Amortized
// O(1) round trips regardless of child count.
//
// Missing edges are ordered by the child's persisted id, not by document
// position. Against a partially populated store, document order would renumber
// depending on which edges already exist; persisted-id order keeps re-runs
// deterministic. On a fresh store ids follow insertion order, so this still
// yields document order. Replicated contract; do not "fix" to document order.
func (r *Resolver) resolveBatch(ctx context.Context, pctx *pipeline.Context, parent *models.Section, element *etree.Element, children []*etree.Element, res *pipeline.Result) {
	if err := r.content.ResolveSubtree(ctx, pctx, element); err != nil {
		// Descendants that did persist still get their edges below.
		res.RecordSkippedChild(err)
	}

	// Immediate children's natural keys in document order.
	keys := make([]string, 0, len(children))
	for _, component := range children {
		guid, ok := componentGUID(component)
		if !ok {
			res.RecordMalformedReference("child section id %q is not a valid GUID under parent %q", guid, parent.SectionGUID)
			continue
		}
		keys = append(keys, guid)
	}
	if len(keys) == 0 {
		return
	}

	sections, err := pctx.Store.FindSectionsByNaturalKeys(ctx, parent.DocumentID, keys)
	if err != nil {
		res.RecordStoreFailure(err)
		return
	}
	if len(sections) == 0 {
		return
	}

	childIDs := make([]int, 0, len(sections))
	for _, sec := range sections {
		childIDs = append(childIDs, sec.ID)
	}

	existing, err := pctx.Store.FindEdgesByParentAndChildren(ctx, parent.ID, childIDs)
	if err != nil {
		res.RecordStoreFailure(err)
		return
	}

	linked := make(map[int]struct{}, len(existing))
	for _, edge := range existing {
		linked[edge.ChildSectionID] = struct{}{}
	}

	missing := make([]models.Section, 0, len(sections))
	for _, sec := range sections {
		if _, ok := linked[sec.ID]; !ok {
			missing = append(missing, sec)
		}
	}
	if len(missing) == 0 {
		return
	}

	sort.Slice(missing, func(i, j int) bool {
		return missing[i].ID < missing[j].ID
	})

	edges := make([]models.SectionHierarchy, 0, len(missing))
	for i, sec := range missing {
		edges = append(edges, models.SectionHierarchy{
			ParentSectionID: parent.ID,
			ChildSectionID:  sec.ID,
			SequenceNumber:  len(existing) + i + 1,
		})
	}

	if err := pctx.Store.InsertEdges(ctx, edges); err != nil {
		res.RecordStoreFailure(err)
		return
	}
	res.Created += len(edges)

	pctx.Logger.Debug("Hierarchy edges created in bulk",
		zap.Int("parent_section_id", parent.ID),
		zap.Int("created", len(edges)),
		zap.Int("pre_existing", len(existing)))
}
