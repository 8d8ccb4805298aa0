package parser

import (
	"context"
	"testing"

	"label-ingest/feature/label/models"
	"label-ingest/feature/label/pipeline"
	"label-ingest/feature/label/store"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	docGUID      = "f2f3a8a0-1111-4222-8333-000000000001"
	setGUID      = "f2f3a8a0-1111-4222-8333-000000000002"
	sectionOne   = "f2f3a8a0-1111-4222-8333-000000000011"
	sectionTwo   = "f2f3a8a0-1111-4222-8333-000000000012"
	sectionThree = "f2f3a8a0-1111-4222-8333-000000000013"
	sectionFour  = "f2f3a8a0-1111-4222-8333-000000000014"
)

const labelFixture = `<document>
	<id root="` + docGUID + `"/>
	<setId root="` + setGUID + `"/>
	<versionNumber value="2"/>
	<code code="34391-3" codeSystem="2.16.840.1.113883.6.1"/>
	<title>ACETAMINOPHEN tablet</title>
	<effectiveTime value="20240115"/>
	<component>
		<structuredBody>
			<component>
				<section>
					<id root="` + sectionOne + `"/>
					<code code="48780-1" codeSystem="2.16.840.1.113883.6.1"/>
					<title>SPL listing data elements section</title>
					<effectiveTime value="20240115"/>
					<subject>
						<manufacturedProduct>
							<manufacturedProduct>
								<code code="0591-3331" codeSystem="2.16.840.1.113883.6.69"/>
								<name>Acetaminophen</name>
								<asContent>
									<quantity>
										<numerator value="30" unit="1"/>
										<denominator value="1"/>
									</quantity>
									<containerPackagedProduct>
										<code code="0591-3331-01" codeSystem="2.16.840.1.113883.6.69"/>
									</containerPackagedProduct>
									<subjectOf>
										<characteristic>
											<code code="SPLCMBPRDTP" codeSystem="2.16.840.1.113883.1.11.19255"/>
											<value xsi:type="CV" code="C112160" displayName="Type 0"/>
										</characteristic>
									</subjectOf>
								</asContent>
							</manufacturedProduct>
							<subjectOf>
								<characteristic>
									<code code="SPLCOLOR" codeSystem="2.16.840.1.113883.1.11.19255"/>
									<value xsi:type="CE" code="C48325" displayName="YELLOW"/>
								</characteristic>
							</subjectOf>
						</manufacturedProduct>
					</subject>
					<component>
						<section>
							<id root="` + sectionTwo + `"/>
							<code code="34089-3" codeSystem="2.16.840.1.113883.6.1"/>
							<title>Description</title>
						</section>
					</component>
					<component>
						<section>
							<id root="` + sectionThree + `"/>
							<code code="34090-1" codeSystem="2.16.840.1.113883.6.1"/>
						</section>
					</component>
				</section>
			</component>
			<component>
				<section>
					<id root="` + sectionFour + `"/>
					<code code="42229-5" codeSystem="2.16.840.1.113883.6.1"/>
				</section>
			</component>
		</structuredBody>
	</component>
</document>`

func setupParserTest(t *testing.T, strategy pipeline.Strategy) *pipeline.Context {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))

	return &pipeline.Context{
		Store:    store.New(db),
		Logger:   zap.NewNop(),
		Strategy: strategy,
	}
}

func mustRoot(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	root := doc.Root()
	require.NotNil(t, root)
	return root
}

func ingestFixture(t *testing.T, pctx *pipeline.Context, xml string) (pipeline.Result, pipeline.Result) {
	t.Helper()

	root := mustRoot(t, xml)
	doc, err := ParseHeader(root)
	require.NoError(t, err)
	require.NoError(t, pctx.Store.UpsertDocument(context.Background(), doc))
	pctx.Document = doc

	return New().IngestBody(context.Background(), pctx, root)
}

func TestParseHeader(t *testing.T) {
	doc, err := ParseHeader(mustRoot(t, labelFixture))
	require.NoError(t, err)

	assert.Equal(t, docGUID, doc.DocumentGUID)
	assert.Equal(t, setGUID, doc.SetGUID)
	assert.Equal(t, 2, doc.VersionNumber)
	require.NotNil(t, doc.Code)
	assert.Equal(t, "34391-3", *doc.Code)
	require.NotNil(t, doc.Title)
	assert.Equal(t, "ACETAMINOPHEN tablet", *doc.Title)
	require.NotNil(t, doc.EffectiveDate)
	assert.Equal(t, "2024-01-15", doc.EffectiveDate.Format("2006-01-02"))
}

func TestParseHeaderCanonicalizesGUID(t *testing.T) {
	doc, err := ParseHeader(mustRoot(t, `<document><id root="F2F3A8A0-1111-4222-8333-000000000001"/></document>`))
	require.NoError(t, err)
	assert.Equal(t, docGUID, doc.DocumentGUID)
}

func TestParseHeaderRejectsMalformedGUID(t *testing.T) {
	_, err := ParseHeader(mustRoot(t, `<document><id root="not-a-guid"/></document>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrMalformedReference)

	_, err = ParseHeader(mustRoot(t, `<document/>`))
	assert.ErrorIs(t, err, pipeline.ErrMalformedReference)
}

func TestIngestBodyMaterializesDocument(t *testing.T) {
	for _, strategy := range []pipeline.Strategy{pipeline.StrategyIncremental, pipeline.StrategyBatch} {
		t.Run(string(strategy), func(t *testing.T) {
			pctx := setupParserTest(t, strategy)
			ctx := context.Background()

			hier, chars := ingestFixture(t, pctx, labelFixture)

			assert.True(t, hier.Success)
			assert.True(t, chars.Success)
			assert.Equal(t, 2, hier.Created)
			assert.Equal(t, 2, chars.Created)

			sections, err := pctx.Store.FindSectionsByNaturalKeys(ctx, pctx.Document.ID,
				[]string{sectionOne, sectionTwo, sectionThree, sectionFour})
			require.NoError(t, err)
			assert.Len(t, sections, 4)

			var parent models.Section
			for _, sec := range sections {
				if sec.SectionGUID == sectionOne {
					parent = sec
				}
			}
			require.NotZero(t, parent.ID)

			childIDs := make([]int, 0, 3)
			for _, sec := range sections {
				if sec.ID != parent.ID {
					childIDs = append(childIDs, sec.ID)
				}
			}
			edges, err := pctx.Store.FindEdgesByParentAndChildren(ctx, parent.ID, childIDs)
			require.NoError(t, err)
			// Only the nested sections hang off the parent; the second
			// top-level section has no incoming edge.
			require.Len(t, edges, 2)
			seqs := map[int]bool{}
			for _, edge := range edges {
				seqs[edge.SequenceNumber] = true
			}
			assert.True(t, seqs[1])
			assert.True(t, seqs[2])
		})
	}
}

func TestIngestBodyPersistsProductGraph(t *testing.T) {
	pctx := setupParserTest(t, pipeline.StrategyIncremental)
	ctx := context.Background()

	_, chars := ingestFixture(t, pctx, labelFixture)
	require.True(t, chars.Success)

	product := &models.Product{DocumentID: pctx.Document.ID, ItemCode: itemCode("0591-3331")}
	require.NoError(t, pctx.Store.UpsertProduct(ctx, product))
	require.NotZero(t, product.ID)

	levels, err := pctx.Store.FindPackagingLevelsByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	require.NotNil(t, levels[0].PackageCode)
	assert.Equal(t, "0591-3331-01", *levels[0].PackageCode)
	require.NotNil(t, levels[0].QuantityValue)
	assert.Equal(t, 30.0, *levels[0].QuantityValue)
	assert.Equal(t, 1, levels[0].NestingDepth)

	// One characteristic at product scope, one scoped to the package.
	productScope, err := pctx.Store.FindCharacteristicsByOwner(ctx, product.ID, nil)
	require.NoError(t, err)
	require.Len(t, productScope, 1)
	assert.Equal(t, "SPLCOLOR", *productScope[0].Code)

	packageScope, err := pctx.Store.FindCharacteristicsByOwner(ctx, product.ID, &levels[0].ID)
	require.NoError(t, err)
	require.Len(t, packageScope, 1)
	assert.Equal(t, "SPLCMBPRDTP", *packageScope[0].Code)
}

func TestIngestBodyIdempotent(t *testing.T) {
	for _, strategy := range []pipeline.Strategy{pipeline.StrategyIncremental, pipeline.StrategyBatch} {
		t.Run(string(strategy), func(t *testing.T) {
			pctx := setupParserTest(t, strategy)

			first, firstChars := ingestFixture(t, pctx, labelFixture)
			require.Equal(t, 2, first.Created)
			require.Equal(t, 2, firstChars.Created)

			second, secondChars := ingestFixture(t, pctx, labelFixture)
			assert.True(t, second.Success)
			assert.Zero(t, second.Created)
			assert.Zero(t, secondChars.Created)
		})
	}
}

func TestIngestBodySkipsMalformedSection(t *testing.T) {
	const fixture = `<document>
		<id root="` + docGUID + `"/>
		<component>
			<structuredBody>
				<component>
					<section>
						<id root="` + sectionOne + `"/>
						<component>
							<section><id root="garbage"/></section>
						</component>
						<component>
							<section><id root="` + sectionTwo + `"/></section>
						</component>
					</section>
				</component>
			</structuredBody>
		</component>
	</document>`

	for _, strategy := range []pipeline.Strategy{pipeline.StrategyIncremental, pipeline.StrategyBatch} {
		t.Run(string(strategy), func(t *testing.T) {
			pctx := setupParserTest(t, strategy)
			ctx := context.Background()

			hier, _ := ingestFixture(t, pctx, fixture)

			assert.Equal(t, 1, hier.Created)
			assert.NotZero(t, hier.MalformedReferences)

			sections, err := pctx.Store.FindSectionsByNaturalKeys(ctx, pctx.Document.ID,
				[]string{sectionOne, sectionTwo})
			require.NoError(t, err)
			assert.Len(t, sections, 2)
		})
	}
}

func TestIngestBodyWithoutStructuredBody(t *testing.T) {
	pctx := setupParserTest(t, pipeline.StrategyIncremental)

	hier, chars := ingestFixture(t, pctx, `<document><id root="`+docGUID+`"/></document>`)

	assert.False(t, hier.Success)
	assert.Equal(t, 1, hier.MissingContext)
	assert.Zero(t, chars.Created)
}

func itemCode(s string) *string { return &s }
