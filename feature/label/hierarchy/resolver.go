package hierarchy

import (
	"context"
	"strings"

	"label-ingest/feature/label/models"
	"label-ingest/feature/label/pipeline"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// ContentResolver is the content-parsing collaborator the resolver delegates
// full child-node resolution to. It owns everything inside a child section
// (persisting the section row, its products, its own subsections); the
// hierarchy resolver owns only the parent-child edges.
type ContentResolver interface {
	// ResolveChildSection fully resolves and persists one child component
	// subtree depth-first, returning the child's persisted section.
	ResolveChildSection(ctx context.Context, pctx *pipeline.Context, component *etree.Element) (*models.Section, error)

	// ResolveSubtree resolves and persists every descendant of the parent
	// element in one recursive pass.
	ResolveSubtree(ctx context.Context, pctx *pipeline.Context, parent *etree.Element) error
}

// Resolver synchronizes the parent-child edges of a section subtree. Edges
// are insert-only and idempotent: re-running against a store that already
// holds some or all edges creates only the missing ones.
type Resolver struct {
	content ContentResolver
}

// NewResolver creates a hierarchy resolver delegating child resolution to the
// given content resolver.
func NewResolver(content ContentResolver) *Resolver {
	return &Resolver{content: content}
}

// ResolveHierarchy walks parent's immediate child sections in the source
// element and synchronizes one ordered edge per child, under the strategy
// selected on the context. Child subtrees are resolved through the content
// resolver before their edge is considered.
func (r *Resolver) ResolveHierarchy(ctx context.Context, pctx *pipeline.Context, parent *models.Section, element *etree.Element) pipeline.Result {
	res := pipeline.NewResult()

	if parent == nil || parent.ID == 0 {
		res.RecordMissingContext("hierarchy resolution requires a persisted parent section")
		return res
	}
	if element == nil {
		return res
	}

	children := childComponents(element)
	if len(children) == 0 {
		return res
	}

	if pctx.Strategy == pipeline.StrategyBatch {
		r.resolveBatch(ctx, pctx, parent, element, children, &res)
	} else {
		r.resolveIncremental(ctx, pctx, parent, children, &res)
	}
	return res
}

// childComponents returns the immediate <component> children that wrap a
// <section>, in document order.
func childComponents(element *etree.Element) []*etree.Element {
	var children []*etree.Element
	for _, comp := range element.SelectElements("component") {
		if comp.SelectElement("section") != nil {
			children = append(children, comp)
		}
	}
	return children
}

// componentGUID extracts and validates the natural key of a child component's
// section. ok is false when the id is absent or not a GUID.
func componentGUID(component *etree.Element) (string, bool) {
	section := component.SelectElement("section")
	if section == nil {
		return "", false
	}
	idEl := section.SelectElement("id")
	if idEl == nil {
		return "", false
	}
	attr := idEl.SelectAttr("root")
	if attr == nil {
		return "", false
	}
	raw := strings.TrimSpace(attr.Value)
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return raw, false
	}
	return parsed.String(), true
}
