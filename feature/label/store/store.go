package store

import (
	"context"
	"fmt"

	"label-ingest/feature/label/models"

	"gorm.io/gorm"
)

// Store exposes the upsert/query primitives the ingestion pipeline writes
// through. Every call is call-consistent; there is no cross-call transaction.
// The pipeline assumes a single writer per document, so upserts follow a plain
// query-then-insert pattern without locking.
type Store interface {
	// UpsertDocument persists the document row if absent and fills in the
	// store-assigned ID either way.
	UpsertDocument(ctx context.Context, doc *models.Document) error

	// UpsertSection persists the section row if no row with the same
	// (document, natural key) exists, and fills in the store-assigned ID.
	UpsertSection(ctx context.Context, sec *models.Section) error

	// FindSectionsByNaturalKeys resolves natural keys to persisted sections
	// within one document. Keys with no persisted row are simply absent from
	// the result.
	FindSectionsByNaturalKeys(ctx context.Context, documentID int, keys []string) ([]models.Section, error)

	// FindEdgesByParentAndChildren returns the existing hierarchy edges from
	// parentID to any of childIDs.
	FindEdgesByParentAndChildren(ctx context.Context, parentID int, childIDs []int) ([]models.SectionHierarchy, error)

	// InsertEdges bulk-inserts hierarchy edges.
	InsertEdges(ctx context.Context, edges []models.SectionHierarchy) error

	// UpsertProduct persists the product row if absent (matched by document
	// and item code, falling back to name) and fills in the ID.
	UpsertProduct(ctx context.Context, p *models.Product) error

	// UpsertPackagingLevel persists the packaging level if absent (matched by
	// product, package code and depth) and fills in the ID.
	UpsertPackagingLevel(ctx context.Context, pl *models.PackagingLevel) error

	// FindPackagingLevelsByProduct returns all packaging levels of a product.
	FindPackagingLevelsByProduct(ctx context.Context, productID int) ([]models.PackagingLevel, error)

	// FindCharacteristicsByOwner returns the characteristics persisted for one
	// exact owner scope: product-level when packagingLevelID is nil, otherwise
	// the given packaging level.
	FindCharacteristicsByOwner(ctx context.Context, productID int, packagingLevelID *int) ([]models.ProductCharacteristic, error)

	// FindCharacteristicsByProduct returns every characteristic of a product
	// across all packaging levels, including product-level rows.
	FindCharacteristicsByProduct(ctx context.Context, productID int) ([]models.ProductCharacteristic, error)

	// InsertCharacteristics bulk-inserts characteristic rows.
	InsertCharacteristics(ctx context.Context, recs []models.ProductCharacteristic) error
}

// New returns a Store backed by the given GORM connection.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// AutoMigrate creates or updates the label repository schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Document{},
		&models.Section{},
		&models.SectionHierarchy{},
		&models.Product{},
		&models.PackagingLevel{},
		&models.ProductCharacteristic{},
	)
}

type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) UpsertDocument(ctx context.Context, doc *models.Document) error {
	var existing models.Document
	err := s.db.WithContext(ctx).
		Where("document_guid = ?", doc.DocumentGUID).
		First(&existing).Error
	if err == nil {
		doc.ID = existing.ID
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to query document: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (s *gormStore) UpsertSection(ctx context.Context, sec *models.Section) error {
	var existing models.Section
	err := s.db.WithContext(ctx).
		Where("document_id = ? AND section_guid = ?", sec.DocumentID, sec.SectionGUID).
		First(&existing).Error
	if err == nil {
		sec.ID = existing.ID
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to query section: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(sec).Error; err != nil {
		return fmt.Errorf("failed to insert section: %w", err)
	}
	return nil
}

func (s *gormStore) FindSectionsByNaturalKeys(ctx context.Context, documentID int, keys []string) ([]models.Section, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	var sections []models.Section
	err := s.db.WithContext(ctx).
		Where("document_id = ? AND section_guid IN ?", documentID, keys).
		Find(&sections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sections by natural keys: %w", err)
	}
	return sections, nil
}

func (s *gormStore) FindEdgesByParentAndChildren(ctx context.Context, parentID int, childIDs []int) ([]models.SectionHierarchy, error) {
	if len(childIDs) == 0 {
		return nil, nil
	}

	var edges []models.SectionHierarchy
	err := s.db.WithContext(ctx).
		Where("parent_section_id = ? AND child_section_id IN ?", parentID, childIDs).
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query hierarchy edges: %w", err)
	}
	return edges, nil
}

func (s *gormStore) InsertEdges(ctx context.Context, edges []models.SectionHierarchy) error {
	if len(edges) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Create(&edges).Error; err != nil {
		return fmt.Errorf("failed to insert hierarchy edges: %w", err)
	}
	return nil
}

func (s *gormStore) UpsertProduct(ctx context.Context, p *models.Product) error {
	query := s.db.WithContext(ctx).Where("document_id = ?", p.DocumentID)
	if p.ItemCode != nil {
		query = query.Where("item_code = ?", *p.ItemCode)
	} else if p.Name != nil {
		query = query.Where("name = ?", *p.Name)
	}

	var existing models.Product
	err := query.First(&existing).Error
	if err == nil {
		p.ID = existing.ID
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to query product: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (s *gormStore) UpsertPackagingLevel(ctx context.Context, pl *models.PackagingLevel) error {
	query := s.db.WithContext(ctx).
		Where("product_id = ? AND nesting_depth = ?", pl.ProductID, pl.NestingDepth)
	if pl.PackageCode != nil {
		query = query.Where("package_code = ?", *pl.PackageCode)
	}

	var existing models.PackagingLevel
	err := query.First(&existing).Error
	if err == nil {
		pl.ID = existing.ID
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to query packaging level: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(pl).Error; err != nil {
		return fmt.Errorf("failed to insert packaging level: %w", err)
	}
	return nil
}

func (s *gormStore) FindPackagingLevelsByProduct(ctx context.Context, productID int) ([]models.PackagingLevel, error) {
	var levels []models.PackagingLevel
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("nesting_depth").
		Find(&levels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query packaging levels: %w", err)
	}
	return levels, nil
}

func (s *gormStore) FindCharacteristicsByOwner(ctx context.Context, productID int, packagingLevelID *int) ([]models.ProductCharacteristic, error) {
	query := s.db.WithContext(ctx).Where("product_id = ?", productID)
	if packagingLevelID == nil {
		query = query.Where("packaging_level_id IS NULL")
	} else {
		query = query.Where("packaging_level_id = ?", *packagingLevelID)
	}

	var recs []models.ProductCharacteristic
	if err := query.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query characteristics: %w", err)
	}
	return recs, nil
}

func (s *gormStore) FindCharacteristicsByProduct(ctx context.Context, productID int) ([]models.ProductCharacteristic, error) {
	var recs []models.ProductCharacteristic
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query product characteristics: %w", err)
	}
	return recs, nil
}

func (s *gormStore) InsertCharacteristics(ctx context.Context, recs []models.ProductCharacteristic) error {
	if len(recs) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Create(&recs).Error; err != nil {
		return fmt.Errorf("failed to insert characteristics: %w", err)
	}
	return nil
}
