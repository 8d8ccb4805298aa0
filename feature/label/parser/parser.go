package parser

import (
	"context"
	"fmt"
	"strings"

	"label-ingest/feature/label/characteristic"
	"label-ingest/feature/label/hierarchy"
	"label-ingest/feature/label/models"
	"label-ingest/feature/label/pipeline"
	"label-ingest/feature/label/spl"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Parser walks a label document's element tree and resolves its content into
// persisted rows: sections (with their hierarchy edges, delegated to the
// hierarchy resolver), products, packaging levels and characteristics.
//
// A Parser ingests one document at a time and is not safe for concurrent use;
// the pipeline runs single-threaded per document.
type Parser struct {
	resolver *hierarchy.Resolver

	hier  pipeline.Result
	chars pipeline.Result
}

// New creates a Parser wired to its own hierarchy resolver.
func New() *Parser {
	p := &Parser{}
	p.resolver = hierarchy.NewResolver(p)
	return p
}

// ParseHeader reads the document-level identity of a label: GUID, set GUID,
// version, document type code and title.
func ParseHeader(root *etree.Element) (*models.Document, error) {
	guid, ok := elementGUID(root.SelectElement("id"))
	if !ok {
		return nil, fmt.Errorf("%w: document id is not a valid GUID", pipeline.ErrMalformedReference)
	}

	doc := &models.Document{DocumentGUID: guid}

	if setGUID, ok := elementGUID(root.SelectElement("setId")); ok {
		doc.SetGUID = setGUID
	}
	if v := spl.Attr(root.SelectElement("versionNumber"), "value"); v != nil {
		if n, ok := spl.ParseInteger(*v); ok {
			doc.VersionNumber = n
		}
	}
	doc.Code, doc.CodeSystem, _ = spl.CodeAttrs(root.SelectElement("code"))
	doc.Title = spl.Text(root.SelectElement("title"))
	doc.EffectiveDate, _ = spl.EffectiveTime(root.SelectElement("effectiveTime"))

	return doc, nil
}

// IngestBody resolves every top-level section under the structured body, and
// through them the whole section tree, all products and all characteristics.
// It returns one result for hierarchy resolution and one for characteristic
// synchronization.
func (p *Parser) IngestBody(ctx context.Context, pctx *pipeline.Context, root *etree.Element) (pipeline.Result, pipeline.Result) {
	p.hier = pipeline.NewResult()
	p.chars = pipeline.NewResult()

	body := root.FindElement("component/structuredBody")
	if body == nil {
		p.hier.RecordMissingContext("document has no structured body")
		return p.hier, p.chars
	}

	// Top-level sections have no parent section and therefore no edges of
	// their own; resolution starts the recursion.
	for _, component := range body.SelectElements("component") {
		if component.SelectElement("section") == nil {
			continue
		}
		if _, err := p.ResolveChildSection(ctx, pctx, component); err != nil {
			p.hier.RecordSkippedChild(err)
		}
	}

	return p.hier, p.chars
}

// ResolveChildSection persists one child component's section and everything
// below it: products and characteristics in the section, then the section's
// own child edges through the hierarchy resolver (depth-first).
func (p *Parser) ResolveChildSection(ctx context.Context, pctx *pipeline.Context, component *etree.Element) (*models.Section, error) {
	if pctx.Document == nil || pctx.Document.ID == 0 {
		return nil, fmt.Errorf("%w: no document in scope", pipeline.ErrMissingContext)
	}

	section := component.SelectElement("section")
	if section == nil {
		return nil, fmt.Errorf("%w: component has no section element", pipeline.ErrMalformedReference)
	}

	guid, ok := elementGUID(section.SelectElement("id"))
	if !ok {
		return nil, fmt.Errorf("%w: section id %q is not a valid GUID", pipeline.ErrMalformedReference, rawID(section))
	}

	code, codeSystem, _ := spl.CodeAttrs(section.SelectElement("code"))
	low, high := spl.EffectiveTime(section.SelectElement("effectiveTime"))

	sec := &models.Section{
		DocumentID:        pctx.Document.ID,
		SectionGUID:       guid,
		Code:              code,
		CodeSystem:        codeSystem,
		Title:             spl.Text(section.SelectElement("title")),
		EffectiveDate:     low,
		EffectiveDateHigh: high,
	}
	if err := pctx.Store.UpsertSection(ctx, sec); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrStoreFailure, err)
	}

	restore := pctx.EnterSection(sec)
	defer restore()

	p.resolveProducts(ctx, pctx, section)

	p.hier.Merge(p.resolver.ResolveHierarchy(ctx, pctx, sec, section))

	return sec, nil
}

// ResolveSubtree resolves every child component under parent in one recursive
// pass. Used by the batch strategy before its bulk edge synchronization.
// Individual child failures are recorded and do not stop the pass.
func (p *Parser) ResolveSubtree(ctx context.Context, pctx *pipeline.Context, parent *etree.Element) error {
	for _, component := range parent.SelectElements("component") {
		if component.SelectElement("section") == nil {
			continue
		}
		if _, err := p.ResolveChildSection(ctx, pctx, component); err != nil {
			p.hier.RecordSkippedChild(err)
		}
	}
	return nil
}

// resolveProducts handles the <subject><manufacturedProduct> blocks of a
// section: the product row, its packaging chain and its characteristics.
func (p *Parser) resolveProducts(ctx context.Context, pctx *pipeline.Context, section *etree.Element) {
	for _, subject := range section.SelectElements("subject") {
		for _, outer := range subject.SelectElements("manufacturedProduct") {
			p.resolveProduct(ctx, pctx, outer)
		}
	}
}

func (p *Parser) resolveProduct(ctx context.Context, pctx *pipeline.Context, outer *etree.Element) {
	// The listing format nests the product payload inside a wrapper element
	// of the same name; older documents use manufacturedMedicine.
	inner := outer.SelectElement("manufacturedProduct")
	if inner == nil {
		inner = outer.SelectElement("manufacturedMedicine")
	}
	if inner == nil {
		inner = outer
	}

	code, codeSystem, _ := spl.CodeAttrs(inner.SelectElement("code"))
	product := &models.Product{
		DocumentID:     pctx.Document.ID,
		Name:           spl.Text(inner.SelectElement("name")),
		ItemCode:       code,
		ItemCodeSystem: codeSystem,
	}
	if err := pctx.Store.UpsertProduct(ctx, product); err != nil {
		p.chars.RecordStoreFailure(err)
		return
	}

	restore := pctx.EnterProduct(product)
	defer restore()

	// Packaging levels must be persisted before package-scoped
	// characteristics can resolve their scope against the store.
	p.resolvePackaging(ctx, pctx, product, inner, 1)

	p.chars.Merge(characteristic.Sync(ctx, pctx, outer, product, nil))
}

// resolvePackaging walks the asContent packaging chain, persisting one
// packaging level per container and synchronizing the characteristics scoped
// to it.
func (p *Parser) resolvePackaging(ctx context.Context, pctx *pipeline.Context, product *models.Product, container *etree.Element, depth int) {
	for _, asContent := range container.SelectElements("asContent") {
		pack := asContent.SelectElement("containerPackagedProduct")
		if pack == nil {
			pack = asContent.SelectElement("containerPackagedMedicine")
		}

		var packageCode, packageCodeSystem *string
		if pack != nil {
			packageCode, packageCodeSystem, _ = spl.CodeAttrs(pack.SelectElement("code"))
		}
		qtyValue, qtyUnit := parseQuantity(asContent.SelectElement("quantity"))

		level := &models.PackagingLevel{
			ProductID:         product.ID,
			PackageCode:       packageCode,
			PackageCodeSystem: packageCodeSystem,
			QuantityValue:     qtyValue,
			QuantityUnit:      qtyUnit,
			NestingDepth:      depth,
		}
		if err := pctx.Store.UpsertPackagingLevel(ctx, level); err != nil {
			p.chars.RecordStoreFailure(err)
			continue
		}

		scope, err := characteristic.ResolvePackagingScope(ctx, pctx, product, packageCode)
		if err != nil {
			p.chars.RecordStoreFailure(err)
			scope = nil
		}
		p.chars.Merge(characteristic.Sync(ctx, pctx, asContent, product, scope))

		if pack != nil {
			p.resolvePackaging(ctx, pctx, product, pack, depth+1)
		}
	}
}

func parseQuantity(quantity *etree.Element) (*float64, *string) {
	if quantity == nil {
		return nil, nil
	}
	numerator := quantity.SelectElement("numerator")
	if numerator == nil {
		return nil, nil
	}
	var value *float64
	if raw := spl.Attr(numerator, "value"); raw != nil {
		if v, ok := spl.ParseDecimal(*raw); ok {
			value = &v
		}
	}
	return value, spl.Attr(numerator, "unit")
}

// elementGUID validates and canonicalizes the root attribute of an id-style
// element. GUIDs compare case-insensitively; uuid.Parse normalizes them.
func elementGUID(el *etree.Element) (string, bool) {
	if el == nil {
		return "", false
	}
	attr := el.SelectAttr("root")
	if attr == nil {
		return "", false
	}
	parsed, err := uuid.Parse(strings.TrimSpace(attr.Value))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func rawID(section *etree.Element) string {
	if idEl := section.SelectElement("id"); idEl != nil {
		if attr := idEl.SelectAttr("root"); attr != nil {
			return attr.Value
		}
	}
	return ""
}
