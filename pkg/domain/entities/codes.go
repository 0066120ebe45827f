package entities

import "strings"

// ComponentCode identifies a purchasable or stocked component
type ComponentCode string

// ProductCode identifies a sellable assembled product
type ProductCode string

// Units is a whole number of buildable product units
type Units int64

// CodeNormalization canonicalizes codes arriving from heterogeneous
// sources. Whitespace is always trimmed; interior '.' punctuation is
// stripped only when enabled, since some record sets carry dotted codes
// and some carry the same codes flattened.
type CodeNormalization struct {
	StripPunctuation bool
}

// Normalize canonicalizes a raw code string
func (n CodeNormalization) Normalize(raw string) string {
	code := strings.TrimSpace(raw)
	if n.StripPunctuation {
		code = strings.ReplaceAll(code, ".", "")
	}
	return code
}

// NormalizeComponent canonicalizes a component code
func (n CodeNormalization) NormalizeComponent(raw string) ComponentCode {
	return ComponentCode(n.Normalize(raw))
}

// NormalizeProduct canonicalizes a product code
func (n CodeNormalization) NormalizeProduct(raw string) ProductCode {
	return ProductCode(n.Normalize(raw))
}
