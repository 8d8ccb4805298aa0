package models

import "time"

// Document represents one ingested label document version.
type Document struct {
	ID            int        `gorm:"column:id;primaryKey"`
	DocumentGUID  string     `gorm:"column:document_guid;uniqueIndex;size:36"`
	SetGUID       string     `gorm:"column:set_guid;size:36"`
	VersionNumber int        `gorm:"column:version_number"`
	Code          *string    `gorm:"column:code;size:32"`
	CodeSystem    *string    `gorm:"column:code_system;size:64"`
	Title         *string    `gorm:"column:title;size:1024"`
	EffectiveDate *time.Time `gorm:"column:effective_date"`
}

// TableName overrides the table name.
func (Document) TableName() string {
	return "documents"
}

// Section is one section of a label document. SectionGUID is the natural key:
// it correlates the source element to its persisted row and is unique within a
// document. ID is store-assigned and absent until the row is persisted.
type Section struct {
	ID                int        `gorm:"column:id;primaryKey"`
	DocumentID        int        `gorm:"column:document_id;uniqueIndex:idx_sections_doc_guid"`
	SectionGUID       string     `gorm:"column:section_guid;size:36;uniqueIndex:idx_sections_doc_guid"`
	Code              *string    `gorm:"column:code;size:32"`
	CodeSystem        *string    `gorm:"column:code_system;size:64"`
	Title             *string    `gorm:"column:title;size:1024"`
	EffectiveDate     *time.Time `gorm:"column:effective_date"`
	EffectiveDateHigh *time.Time `gorm:"column:effective_date_high"`
}

// TableName overrides the table name.
func (Section) TableName() string {
	return "sections"
}

// SectionHierarchy is a directed parent-to-child edge between two sections.
// The (parent, child) pair is unique; sequence numbers are 1-based and dense
// per parent in creation order. Rows are insert-only.
type SectionHierarchy struct {
	ID              int `gorm:"column:id;primaryKey"`
	ParentSectionID int `gorm:"column:parent_section_id;uniqueIndex:idx_section_hierarchies_edge"`
	ChildSectionID  int `gorm:"column:child_section_id;uniqueIndex:idx_section_hierarchies_edge"`
	SequenceNumber  int `gorm:"column:sequence_number"`
}

// TableName overrides the table name.
func (SectionHierarchy) TableName() string {
	return "section_hierarchies"
}

// Product is a product listed by a label document.
type Product struct {
	ID             int     `gorm:"column:id;primaryKey"`
	DocumentID     int     `gorm:"column:document_id;index"`
	Name           *string `gorm:"column:name;size:512"`
	ItemCode       *string `gorm:"column:item_code;size:32"`
	ItemCodeSystem *string `gorm:"column:item_code_system;size:64"`
}

// TableName overrides the table name.
func (Product) TableName() string {
	return "products"
}

// PackagingLevel is one level of a product's packaging chain, outermost first.
type PackagingLevel struct {
	ID                int      `gorm:"column:id;primaryKey"`
	ProductID         int      `gorm:"column:product_id;index"`
	PackageCode       *string  `gorm:"column:package_code;size:32"`
	PackageCodeSystem *string  `gorm:"column:package_code_system;size:64"`
	QuantityValue     *float64 `gorm:"column:quantity_value"`
	QuantityUnit      *string  `gorm:"column:quantity_unit;size:32"`
	NestingDepth      int      `gorm:"column:nesting_depth"`
}

// TableName overrides the table name.
func (PackagingLevel) TableName() string {
	return "packaging_levels"
}

// ProductCharacteristic is a typed attribute of a product or of one of its
// packaging levels (PackagingLevelID nil means product-level). The value shape
// depends on ValueType; columns for variants that do not apply stay NULL.
// Absent values are represented as NULL, never as an empty string.
// Rows are insert-only: a characteristic is created once per unique fingerprint
// within its owner scope and never updated.
type ProductCharacteristic struct {
	ID                int      `gorm:"column:id;primaryKey"`
	ProductID         int      `gorm:"column:product_id;index"`
	PackagingLevelID  *int     `gorm:"column:packaging_level_id;index"`
	Code              *string  `gorm:"column:code;size:32"`
	CodeSystem        *string  `gorm:"column:code_system;size:64"`
	ValueType         *string  `gorm:"column:value_type;size:16"`
	CodedValue        *string  `gorm:"column:coded_value;size:64"`
	CodedValueSystem  *string  `gorm:"column:coded_value_system;size:64"`
	CodedDisplayName  *string  `gorm:"column:coded_display_name;size:512"`
	StringValue       *string  `gorm:"column:string_value;size:2048"`
	QuantityValue     *float64 `gorm:"column:quantity_value"`
	QuantityUnit      *string  `gorm:"column:quantity_unit;size:32"`
	IntervalHighValue *float64 `gorm:"column:interval_high_value"`
	IntervalHighUnit  *string  `gorm:"column:interval_high_unit;size:32"`
	IntegerValue      *int     `gorm:"column:integer_value"`
	BooleanValue      *bool    `gorm:"column:boolean_value"`
	MediaType         *string  `gorm:"column:media_type;size:64"`
	MediaContent      *string  `gorm:"column:media_content;size:1024"`
	NullFlavor        *string  `gorm:"column:null_flavor;size:16"`
	OriginalText      *string  `gorm:"column:original_text;size:2048"`
}

// TableName overrides the table name.
func (ProductCharacteristic) TableName() string {
	return "product_characteristics"
}
