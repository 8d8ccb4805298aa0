// Package spl provides thin read helpers over the etree XML DOM for the
// element and attribute shapes of Structured Product Labeling documents.
//
// The helpers preserve the distinction between an absent attribute and an
// attribute that is present but empty: Attr returns nil only for true absence.
// Numeric and boolean parsers report malformed tokens through an ok flag
// instead of an error, matching the decoder's never-fails contract.
package spl
