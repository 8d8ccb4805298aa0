package spl

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Parse reads an SPL XML document and returns its root element.
func Parse(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse label document: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("label document has no root element")
	}
	return root, nil
}

// Attr returns the value of the named attribute, or nil when the attribute is
// absent. An attribute that is present but empty yields a pointer to "".
func Attr(el *etree.Element, name string) *string {
	if el == nil {
		return nil
	}
	attr := el.SelectAttr(name)
	if attr == nil {
		return nil
	}
	v := attr.Value
	return &v
}

// TypeDiscriminator returns the xsi:type of a value element with any namespace
// prefix stripped and normalized to upper case ("pq", "ivl_pq" and "xsi:PQ"
// all resolve the same way). Empty string means no discriminator.
func TypeDiscriminator(el *etree.Element) string {
	if el == nil {
		return ""
	}
	attr := el.SelectAttr("xsi:type")
	if attr == nil {
		attr = el.SelectAttr("type")
	}
	if attr == nil {
		return ""
	}
	v := attr.Value
	if idx := strings.LastIndex(v, ":"); idx >= 0 {
		v = v[idx+1:]
	}
	return strings.ToUpper(strings.TrimSpace(v))
}

// Text returns the trimmed character content of an element, or nil when the
// element is absent or has no non-whitespace text.
func Text(el *etree.Element) *string {
	if el == nil {
		return nil
	}
	t := strings.TrimSpace(el.Text())
	if t == "" {
		return nil
	}
	return &t
}

// ParseDecimal parses an SPL decimal token. ok is false for malformed input.
func ParseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInteger parses an SPL integer token. ok is false for malformed input.
func ParseInteger(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseBoolean parses an XML boolean token. The lexicon is wider than literal
// true/false: 1, 0, t, f and case variants are accepted.
func ParseBoolean(s string) (bool, bool) {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return v, true
}

// ParseTime parses an SPL timestamp (yyyyMMdd, optionally with a time-of-day
// suffix that is ignored). Returns nil for absent or malformed values.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if len(s) > 8 {
		s = s[:8]
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return nil
	}
	return &t
}

// EffectiveTime reads an <effectiveTime> element: either a point value
// attribute or a [low, high) interval with independent sub-elements.
func EffectiveTime(el *etree.Element) (low, high *time.Time) {
	if el == nil {
		return nil, nil
	}
	if v := Attr(el, "value"); v != nil {
		return ParseTime(*v), nil
	}
	if lowEl := el.SelectElement("low"); lowEl != nil {
		if v := Attr(lowEl, "value"); v != nil {
			low = ParseTime(*v)
		}
	}
	if highEl := el.SelectElement("high"); highEl != nil {
		if v := Attr(highEl, "value"); v != nil {
			high = ParseTime(*v)
		}
	}
	return low, high
}

// CodeAttrs reads the code, codeSystem and displayName attributes of a coded
// element. Each is nil when absent.
func CodeAttrs(el *etree.Element) (code, codeSystem, displayName *string) {
	if el == nil {
		return nil, nil, nil
	}
	return Attr(el, "code"), Attr(el, "codeSystem"), Attr(el, "displayName")
}
