package pipeline

import (
	"label-ingest/feature/label/models"
	"label-ingest/feature/label/store"

	"go.uber.org/zap"
)

// Context carries the cross-cutting state shared by the resolver, the
// characteristic synchronizer and the content parser while one document is
// ingested: the store handle, the logger, the strategy flag and the node
// references of the position currently being processed.
//
// Recursion never mutates a Context ambiently. Each descent acquires the new
// reference through EnterSection/EnterProduct and restores the previous one
// with the returned function:
//
//	restore := pctx.EnterSection(sec)
//	defer restore()
type Context struct {
	Store    store.Store
	Logger   *zap.Logger
	Strategy Strategy

	Document       *models.Document
	CurrentSection *models.Section
	CurrentProduct *models.Product
}

// EnterSection makes sec the current section and returns a function restoring
// the previous one.
func (c *Context) EnterSection(sec *models.Section) func() {
	prev := c.CurrentSection
	c.CurrentSection = sec
	return func() { c.CurrentSection = prev }
}

// EnterProduct makes p the current product and returns a function restoring
// the previous one.
func (c *Context) EnterProduct(p *models.Product) func() {
	prev := c.CurrentProduct
	c.CurrentProduct = p
	return func() { c.CurrentProduct = prev }
}
