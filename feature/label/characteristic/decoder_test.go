package characteristic

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustCharacteristic(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	root := doc.Root()
	require.NotNil(t, root)
	return root
}

func TestDecodeQuantity(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLSIZE" codeSystem="2.16.840.1.113883.1.11.19255"/>
		<value xsi:type="PQ" value="10" unit="mg"/>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	require.NotNil(t, rec.Code)
	assert.Equal(t, "SPLSIZE", *rec.Code)
	require.NotNil(t, rec.ValueType)
	assert.Equal(t, TypeQuantity, *rec.ValueType)
	require.NotNil(t, rec.QuantityValue)
	assert.Equal(t, 10.0, *rec.QuantityValue)
	require.NotNil(t, rec.QuantityUnit)
	assert.Equal(t, "mg", *rec.QuantityUnit)
	assert.Nil(t, rec.IntegerValue)
	assert.Nil(t, rec.StringValue)
}

func TestDecodeQuantityMalformedValue(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLSIZE"/>
		<value xsi:type="PQ" value="ten" unit="mg"/>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	// The malformed magnitude is dropped; the unit survives.
	assert.Nil(t, rec.QuantityValue)
	require.NotNil(t, rec.QuantityUnit)
	assert.Equal(t, "mg", *rec.QuantityUnit)
	require.NotNil(t, rec.ValueType)
	assert.Equal(t, TypeQuantity, *rec.ValueType)
}

func TestDecodeInteger(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLCOUNT"/>
		<value xsi:type="INT" value="30"/>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	require.NotNil(t, rec.IntegerValue)
	assert.Equal(t, 30, *rec.IntegerValue)
	assert.Nil(t, rec.QuantityValue)
}

func TestDecodeIntegerWithNullFlavor(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLCOUNT"/>
		<value xsi:type="INT" nullFlavor="UNK"/>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	assert.Nil(t, rec.IntegerValue)
	require.NotNil(t, rec.NullFlavor)
	assert.Equal(t, "UNK", *rec.NullFlavor)
}

func TestDecodeCoded(t *testing.T) {
	for _, disc := range []string{"CE", "CV"} {
		t.Run(disc, func(t *testing.T) {
			el := mustCharacteristic(t, `<characteristic>
				<code code="SPLCOLOR" codeSystem="2.16.840.1.113883.1.11.19255"/>
				<value xsi:type="`+disc+`" code="C48325" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="YELLOW"/>
			</characteristic>`)

			rec := Decode(el, zap.NewNop())

			require.NotNil(t, rec.ValueType)
			assert.Equal(t, disc, *rec.ValueType)
			require.NotNil(t, rec.CodedValue)
			assert.Equal(t, "C48325", *rec.CodedValue)
			require.NotNil(t, rec.CodedValueSystem)
			assert.Equal(t, "2.16.840.1.113883.3.26.1.1", *rec.CodedValueSystem)
			require.NotNil(t, rec.CodedDisplayName)
			assert.Equal(t, "YELLOW", *rec.CodedDisplayName)
		})
	}
}

func TestDecodeString(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLIMPRINT"/>
		<value xsi:type="ST">WPI;3331</value>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	require.NotNil(t, rec.StringValue)
	assert.Equal(t, "WPI;3331", *rec.StringValue)
}

func TestDecodeInterval(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLUSE"/>
		<value xsi:type="IVL_PQ">
			<low value="1" unit="d"/>
			<high value="30" unit="d"/>
		</value>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	require.NotNil(t, rec.QuantityValue)
	assert.Equal(t, 1.0, *rec.QuantityValue)
	require.NotNil(t, rec.QuantityUnit)
	assert.Equal(t, "d", *rec.QuantityUnit)
	require.NotNil(t, rec.IntervalHighValue)
	assert.Equal(t, 30.0, *rec.IntervalHighValue)
	require.NotNil(t, rec.IntervalHighUnit)
	assert.Equal(t, "d", *rec.IntervalHighUnit)
}

func TestDecodeIntervalLowOnly(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLUSE"/>
		<value xsi:type="IVL_PQ">
			<low value="1" unit="d"/>
		</value>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	require.NotNil(t, rec.QuantityValue)
	assert.Nil(t, rec.IntervalHighValue)
	assert.Nil(t, rec.IntervalHighUnit)
}

func TestDecodeEncodedMedia(t *testing.T) {
	t.Run("display name wins", func(t *testing.T) {
		el := mustCharacteristic(t, `<characteristic>
			<code code="SPLIMAGE"/>
			<value xsi:type="ED" mediaType="image/jpeg" displayName="tablet.jpg">
				<reference value="ignored.jpg"/>
			</value>
		</characteristic>`)

		rec := Decode(el, zap.NewNop())

		require.NotNil(t, rec.MediaType)
		assert.Equal(t, "image/jpeg", *rec.MediaType)
		require.NotNil(t, rec.MediaContent)
		assert.Equal(t, "tablet.jpg", *rec.MediaContent)
	})

	t.Run("reference fallback", func(t *testing.T) {
		el := mustCharacteristic(t, `<characteristic>
			<code code="SPLIMAGE"/>
			<value xsi:type="ED" mediaType="image/jpeg">
				<reference value="tablet.jpg"/>
			</value>
		</characteristic>`)

		rec := Decode(el, zap.NewNop())

		require.NotNil(t, rec.MediaContent)
		assert.Equal(t, "tablet.jpg", *rec.MediaContent)
	})

	t.Run("text fallback", func(t *testing.T) {
		el := mustCharacteristic(t, `<characteristic>
			<code code="SPLIMAGE"/>
			<value xsi:type="ED" mediaType="image/jpeg">tablet.jpg</value>
		</characteristic>`)

		rec := Decode(el, zap.NewNop())

		require.NotNil(t, rec.MediaContent)
		assert.Equal(t, "tablet.jpg", *rec.MediaContent)
	})
}

func TestDecodeBoolean(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			el := mustCharacteristic(t, `<characteristic>
				<code code="SPLSCORE"/>
				<value xsi:type="BL" value="`+tc.raw+`"/>
			</characteristic>`)

			rec := Decode(el, zap.NewNop())

			require.NotNil(t, rec.BooleanValue)
			assert.Equal(t, tc.want, *rec.BooleanValue)
		})
	}
}

func TestDecodeBooleanMalformed(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLSCORE"/>
		<value xsi:type="BL" value="yes"/>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	assert.Nil(t, rec.BooleanValue)
}

func TestDecodeUnknownDiscriminator(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLTHING"/>
		<value xsi:type="XX" code="X1" codeSystem="sys" value="10" unit="mg">text</value>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	require.NotNil(t, rec.ValueType)
	assert.Equal(t, "XX", *rec.ValueType)
	require.NotNil(t, rec.CodedValue)
	assert.Equal(t, "X1", *rec.CodedValue)
	require.NotNil(t, rec.CodedValueSystem)
	assert.Equal(t, "sys", *rec.CodedValueSystem)
	assert.Nil(t, rec.QuantityValue)
	assert.Nil(t, rec.QuantityUnit)
	assert.Nil(t, rec.StringValue)
}

func TestDecodeNoValueElement(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLTHING" codeSystem="sys"/>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	require.NotNil(t, rec.Code)
	assert.Equal(t, "SPLTHING", *rec.Code)
	assert.Nil(t, rec.ValueType)
	assert.Nil(t, rec.CodedValue)
}

func TestDecodeOriginalText(t *testing.T) {
	el := mustCharacteristic(t, `<characteristic>
		<code code="SPLCOLOR"/>
		<value xsi:type="CE" code="C48325" displayName="YELLOW">
			<originalText>pale yellow</originalText>
		</value>
	</characteristic>`)

	rec := Decode(el, zap.NewNop())

	require.NotNil(t, rec.OriginalText)
	assert.Equal(t, "pale yellow", *rec.OriginalText)
}
