package label

import (
	"context"
	"io"
	"time"

	"label-ingest/core/logger"
	"label-ingest/feature/label/parser"
	"label-ingest/feature/label/pipeline"
	"label-ingest/feature/label/spl"
	"label-ingest/feature/label/store"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Service orchestrates the ingestion of one label document: header, section
// tree with hierarchy edges, products, packaging and characteristics.
type Service struct {
	store    store.Store
	logger   *zap.Logger
	strategy pipeline.Strategy
}

// NewService creates a new label ingestion service.
func NewService(st store.Store, logger *zap.Logger, strategy pipeline.Strategy) *Service {
	return &Service{
		store:    st,
		logger:   logger,
		strategy: strategy,
	}
}

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	DocumentGUID           string   `json:"document_guid"`
	SetGUID                string   `json:"set_guid,omitempty"`
	VersionNumber          int      `json:"version_number,omitempty"`
	Strategy               string   `json:"strategy"`
	EdgesCreated           int      `json:"edges_created"`
	CharacteristicsCreated int      `json:"characteristics_created"`
	MissingContext         int      `json:"missing_context"`
	MalformedReferences    int      `json:"malformed_references"`
	StoreFailures          int      `json:"store_failures"`
	Errors                 []string `json:"errors"`
	ExecutionTime          string   `json:"execution_time"`
}

// Ingest parses a label document from r and materializes it into the store.
func (s *Service) Ingest(ctx context.Context, r io.Reader) (*IngestReport, error) {
	root, err := spl.Parse(r)
	if err != nil {
		return nil, err
	}
	return s.IngestDocument(ctx, root)
}

// IngestDocument materializes an already-parsed label document into the
// store. The returned report collects every recorded failure; a non-nil error
// is reserved for documents that cannot be ingested at all (unparseable
// header, document row failure).
func (s *Service) IngestDocument(ctx context.Context, root *etree.Element) (*IngestReport, error) {
	startTime := time.Now()

	doc, err := parser.ParseHeader(root)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertDocument(ctx, doc); err != nil {
		return nil, err
	}

	l := logger.WithDocument(s.logger, doc.DocumentGUID)
	l.Info("Ingesting label document",
		zap.String("set_guid", doc.SetGUID),
		zap.Int("version", doc.VersionNumber),
		zap.String("strategy", string(s.strategy)))

	pctx := &pipeline.Context{
		Store:    s.store,
		Logger:   l,
		Strategy: s.strategy,
		Document: doc,
	}

	p := parser.New()
	hier, chars := p.IngestBody(ctx, pctx, root)

	report := &IngestReport{
		DocumentGUID:           doc.DocumentGUID,
		SetGUID:                doc.SetGUID,
		VersionNumber:          doc.VersionNumber,
		Strategy:               string(s.strategy),
		EdgesCreated:           hier.Created,
		CharacteristicsCreated: chars.Created,
		MissingContext:         hier.MissingContext + chars.MissingContext,
		MalformedReferences:    hier.MalformedReferences + chars.MalformedReferences,
		StoreFailures:          hier.StoreFailures + chars.StoreFailures,
		Errors:                 append(append([]string{}, hier.Errors...), chars.Errors...),
		ExecutionTime:          time.Since(startTime).String(),
	}

	l.Info("Ingestion completed",
		zap.Int("edges_created", report.EdgesCreated),
		zap.Int("characteristics_created", report.CharacteristicsCreated),
		zap.Int("errors", len(report.Errors)),
		zap.String("execution_time", report.ExecutionTime))

	return report, nil
}
