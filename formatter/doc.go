// Package formatter serializes SIRI responses for the BODS feed.
//
// This package is organized into:
// - xml.go: XML serialization with proper escaping and per-field omission
// - json.go: JSON serialization
//
// All serialization is done manually for precise control over element order
// and over which optional elements are omitted, both of which the BODS
// profile mandates.
package formatter
