package hierarchy

import (
	"context"

	"label-ingest/feature/label/models"
	"label-ingest/feature/label/pipeline"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// resolveIncremental handles one child at a time, in document order: resolve
// the child subtree through the content resolver, look the child up by its
// natural key, and insert the edge if it does not exist yet. A child that
// fails to resolve is skipped without aborting its siblings. Costs about
// three store round trips per child.
func (r *Resolver) resolveIncremental(ctx context.Context, pctx *pipeline.Context, parent *models.Section, children []*etree.Element, res *pipeline.Result) {
	created := 0

	for _, component := range children {
		child, err := r.content.ResolveChildSection(ctx, pctx, component)
		if err != nil {
			res.RecordSkippedChild(err)
			continue
		}
		if child == nil {
			res.RecordMalformedReference("child component resolved to no section under parent %q", parent.SectionGUID)
			continue
		}

		// Look the child up by natural key rather than trusting the returned
		// row; the persisted id is what the edge must reference.
		sections, err := pctx.Store.FindSectionsByNaturalKeys(ctx, parent.DocumentID, []string{child.SectionGUID})
		if err != nil {
			res.RecordStoreFailure(err)
			return
		}
		if len(sections) == 0 {
			res.RecordMalformedReference("child section %q not found after resolution", child.SectionGUID)
			continue
		}
		childID := sections[0].ID

		existing, err := pctx.Store.FindEdgesByParentAndChildren(ctx, parent.ID, []int{childID})
		if err != nil {
			res.RecordStoreFailure(err)
			return
		}
		if len(existing) > 0 {
			continue
		}

		edge := models.SectionHierarchy{
			ParentSectionID: parent.ID,
			ChildSectionID:  childID,
			SequenceNumber:  created + 1,
		}
		if err := pctx.Store.InsertEdges(ctx, []models.SectionHierarchy{edge}); err != nil {
			res.RecordStoreFailure(err)
			return
		}
		created++
		res.Created++

		pctx.Logger.Debug("Hierarchy edge created",
			zap.Int("parent_section_id", parent.ID),
			zap.Int("child_section_id", childID),
			zap.Int("sequence_number", edge.SequenceNumber))
	}
}
