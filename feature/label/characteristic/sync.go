package characteristic

import (
	"context"

	"label-ingest/feature/label/models"
	"label-ingest/feature/label/pipeline"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Sync decodes every <subjectOf><characteristic> under container and persists
// the records missing from the (product, packaging level) owner scope. A nil
// level means the records are product-level. The strategy flag on the context
// selects per-record round trips or one bulk pass; both leave the store in the
// same state.
func Sync(ctx context.Context, pctx *pipeline.Context, container *etree.Element, product *models.Product, level *models.PackagingLevel) pipeline.Result {
	res := pipeline.NewResult()

	if product == nil || product.ID == 0 {
		res.RecordMissingContext("characteristic synchronization requires a persisted product")
		return res
	}

	decoded := decodeAll(container, product, level, pctx.Logger)
	if len(decoded) == 0 {
		return res
	}

	if pctx.Strategy == pipeline.StrategyBatch {
		syncBatch(ctx, pctx, product, decoded, &res)
	} else {
		syncIncremental(ctx, pctx, product, level, decoded, &res)
	}
	return res
}

// decodeAll walks the container's subjectOf/characteristic elements and tags
// every decoded record with its owner scope.
func decodeAll(container *etree.Element, product *models.Product, level *models.PackagingLevel, logger *zap.Logger) []models.ProductCharacteristic {
	var recs []models.ProductCharacteristic
	if container == nil {
		return recs
	}

	for _, subject := range container.SelectElements("subjectOf") {
		for _, char := range subject.SelectElements("characteristic") {
			rec := Decode(char, logger)
			rec.ProductID = product.ID
			if level != nil {
				id := level.ID
				rec.PackagingLevelID = &id
			}
			recs = append(recs, rec)
		}
	}
	return recs
}

// syncIncremental reads the exact owner scope once, then inserts record by
// record, testing each fingerprint against an in-memory set that also absorbs
// the records inserted during this batch.
func syncIncremental(ctx context.Context, pctx *pipeline.Context, product *models.Product, level *models.PackagingLevel, decoded []models.ProductCharacteristic, res *pipeline.Result) {
	var levelID *int
	if level != nil {
		levelID = &level.ID
	}

	existing, err := pctx.Store.FindCharacteristicsByOwner(ctx, product.ID, levelID)
	if err != nil {
		res.RecordStoreFailure(err)
		return
	}

	seen := make(map[Fingerprint]struct{}, len(existing))
	for _, rec := range existing {
		seen[KeyOf(rec)] = struct{}{}
	}

	for _, rec := range decoded {
		key := KeyOf(rec)
		if _, dup := seen[key]; dup {
			continue
		}

		if err := pctx.Store.InsertCharacteristics(ctx, []models.ProductCharacteristic{rec}); err != nil {
			res.RecordStoreFailure(err)
			return
		}
		seen[key] = struct{}{}
		res.Created++
	}
}

// scopedKey widens the fingerprint with the owner scope so records persisted
// at different packaging levels never mask each other in the batch pass.
type scopedKey struct {
	levelID int // 0 means product-level
	key     Fingerprint
}

func scopeOf(levelID *int, key Fingerprint) scopedKey {
	sk := scopedKey{key: key}
	if levelID != nil {
		sk.levelID = *levelID
	}
	return sk
}

// syncBatch reads everything the product owns across all packaging levels in
// one query, then bulk-inserts the complement set in one call.
func syncBatch(ctx context.Context, pctx *pipeline.Context, product *models.Product, decoded []models.ProductCharacteristic, res *pipeline.Result) {
	existing, err := pctx.Store.FindCharacteristicsByProduct(ctx, product.ID)
	if err != nil {
		res.RecordStoreFailure(err)
		return
	}

	seen := make(map[scopedKey]struct{}, len(existing))
	for _, rec := range existing {
		seen[scopeOf(rec.PackagingLevelID, KeyOf(rec))] = struct{}{}
	}

	missing := make([]models.ProductCharacteristic, 0, len(decoded))
	for _, rec := range decoded {
		sk := scopeOf(rec.PackagingLevelID, KeyOf(rec))
		if _, dup := seen[sk]; dup {
			continue
		}
		seen[sk] = struct{}{}
		missing = append(missing, rec)
	}

	if len(missing) == 0 {
		return
	}

	if err := pctx.Store.InsertCharacteristics(ctx, missing); err != nil {
		res.RecordStoreFailure(err)
		return
	}
	res.Created += len(missing)
}

// ResolvePackagingScope matches a packaging container's package code against
// the already-persisted packaging levels of the product. No match means the
// characteristics stay product-level; a diagnostic is emitted so the gap is
// visible.
func ResolvePackagingScope(ctx context.Context, pctx *pipeline.Context, product *models.Product, packageCode *string) (*models.PackagingLevel, error) {
	if packageCode == nil || product == nil {
		return nil, nil
	}

	levels, err := pctx.Store.FindPackagingLevelsByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	for i := range levels {
		if levels[i].PackageCode != nil && *levels[i].PackageCode == *packageCode {
			return &levels[i], nil
		}
	}

	pctx.Logger.Warn("No packaging level matches package code, characteristics fall back to product scope",
		zap.String("package_code", *packageCode),
		zap.Int("product_id", product.ID))
	return nil, nil
}
