package characteristic

import (
	"label-ingest/feature/label/models"
	"label-ingest/feature/label/spl"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Value type discriminators of the characteristic value model.
const (
	TypeQuantity     = "PQ"
	TypeInteger      = "INT"
	TypeCoded        = "CE"
	TypeCodedValue   = "CV"
	TypeString       = "ST"
	TypeInterval     = "IVL_PQ"
	TypeEncodedMedia = "ED"
	TypeBoolean      = "BL"
)

// Decode builds an unowned characteristic record from a <characteristic>
// element: the <code> sibling plus one decoded <value> variant. Owner fields
// (product, packaging level) are left for the caller to assign.
//
// Decoding never fails. Malformed numeric or boolean tokens decode to absent
// fields with a diagnostic on the logger, and an unrecognized discriminator
// populates only the discriminator itself and any code/codeSystem attributes
// carried by the value element.
func Decode(el *etree.Element, logger *zap.Logger) models.ProductCharacteristic {
	var rec models.ProductCharacteristic

	codeEl := el.SelectElement("code")
	code, codeSystem, _ := spl.CodeAttrs(codeEl)
	rec.Code = code
	rec.CodeSystem = codeSystem

	decodeValue(el.SelectElement("value"), &rec, logger)
	return rec
}

func decodeValue(value *etree.Element, rec *models.ProductCharacteristic, logger *zap.Logger) {
	if value == nil {
		return
	}

	rec.NullFlavor = spl.Attr(value, "nullFlavor")
	rec.OriginalText = spl.Text(value.SelectElement("originalText"))

	disc := spl.TypeDiscriminator(value)
	if disc != "" {
		rec.ValueType = &disc
	}

	switch disc {
	case TypeQuantity:
		rec.QuantityValue = decodeDecimalAttr(value, "value", rec, logger)
		rec.QuantityUnit = spl.Attr(value, "unit")

	case TypeInteger:
		// nullFlavor may substitute for an absent magnitude; it was read above.
		if raw := spl.Attr(value, "value"); raw != nil {
			if v, ok := spl.ParseInteger(*raw); ok {
				rec.IntegerValue = &v
			} else {
				logger.Warn("Malformed integer token in characteristic value",
					zap.String("raw", *raw), zap.Stringp("code", rec.Code))
			}
		}

	case TypeCoded, TypeCodedValue:
		rec.CodedValue, rec.CodedValueSystem, rec.CodedDisplayName = spl.CodeAttrs(value)

	case TypeString:
		rec.CodedValue, rec.CodedValueSystem, _ = spl.CodeAttrs(value)
		rec.StringValue = spl.Text(value)

	case TypeInterval:
		// Low and high are independently decoded; either may be absent.
		if low := value.SelectElement("low"); low != nil {
			rec.QuantityValue = decodeDecimalAttr(low, "value", rec, logger)
			rec.QuantityUnit = spl.Attr(low, "unit")
		}
		if high := value.SelectElement("high"); high != nil {
			rec.IntervalHighValue = decodeDecimalAttr(high, "value", rec, logger)
			rec.IntervalHighUnit = spl.Attr(high, "unit")
		}

	case TypeEncodedMedia:
		rec.MediaType = spl.Attr(value, "mediaType")
		rec.MediaContent = decodeMediaContent(value)

	case TypeBoolean:
		if raw := spl.Attr(value, "value"); raw != nil {
			if v, ok := spl.ParseBoolean(*raw); ok {
				rec.BooleanValue = &v
			} else {
				logger.Warn("Malformed boolean token in characteristic value",
					zap.String("raw", *raw), zap.Stringp("code", rec.Code))
			}
		}

	default:
		// Unknown or absent discriminator: only code/codeSystem attributes on
		// the value element itself carry over.
		rec.CodedValue = spl.Attr(value, "code")
		rec.CodedValueSystem = spl.Attr(value, "codeSystem")
	}
}

func decodeDecimalAttr(el *etree.Element, name string, rec *models.ProductCharacteristic, logger *zap.Logger) *float64 {
	raw := spl.Attr(el, name)
	if raw == nil {
		return nil
	}
	v, ok := spl.ParseDecimal(*raw)
	if !ok {
		logger.Warn("Malformed decimal token in characteristic value",
			zap.String("raw", *raw), zap.Stringp("code", rec.Code))
		return nil
	}
	return &v
}

// decodeMediaContent reads the display-name-as-filename field of an ED value:
// the displayName attribute when present, otherwise the <reference value>
// child, otherwise the element text.
func decodeMediaContent(value *etree.Element) *string {
	if v := spl.Attr(value, "displayName"); v != nil {
		return v
	}
	if ref := value.SelectElement("reference"); ref != nil {
		if v := spl.Attr(ref, "value"); v != nil {
			return v
		}
	}
	return spl.Text(value)
}
