package characteristic

import (
	"strconv"

	"label-ingest/feature/label/models"
)

// Fingerprint is the canonical deduplication key of a characteristic record:
// the twelve semantically significant value fields, each normalized to a
// string. It is a plain comparable struct, usable directly as a map key.
//
// Absent values normalize to the empty string, so an omitted attribute and an
// explicitly empty one fingerprint identically. The interval high value/unit
// and the coded code-system/display-name are intentionally not part of the
// key; this mirrors the upstream dedup contract.
type Fingerprint struct {
	Code          string
	ValueType     string
	CodedValue    string
	StringValue   string
	QuantityValue string
	QuantityUnit  string
	IntegerValue  string
	BooleanValue  string
	MediaType     string
	MediaContent  string
	NullFlavor    string
	OriginalText  string
}

// KeyOf computes the fingerprint of a record. Pure and stable: equal keys
// define duplicate records.
func KeyOf(rec models.ProductCharacteristic) Fingerprint {
	return Fingerprint{
		Code:          keyString(rec.Code),
		ValueType:     keyString(rec.ValueType),
		CodedValue:    keyString(rec.CodedValue),
		StringValue:   keyString(rec.StringValue),
		QuantityValue: keyFloat(rec.QuantityValue),
		QuantityUnit:  keyString(rec.QuantityUnit),
		IntegerValue:  keyInt(rec.IntegerValue),
		BooleanValue:  keyBool(rec.BooleanValue),
		MediaType:     keyString(rec.MediaType),
		MediaContent:  keyString(rec.MediaContent),
		NullFlavor:    keyString(rec.NullFlavor),
		OriginalText:  keyString(rec.OriginalText),
	}
}

func keyString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func keyFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func keyInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func keyBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
