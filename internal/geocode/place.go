// Package geocode resolves GPS coordinates to human-readable place labels
// using the OpenStreetMap Nominatim service, with a local sqlite cache in
// front of it. The planning core never calls this package; labels are applied
// to finished plans by the CLI and web layers.
package geocode

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PlaceLabel is the city/state/country triple extracted from a reverse
// geocoding response. Any field may be empty.
type PlaceLabel struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// ShortLabel returns a concise two-part label, preferring city/state.
// Empty when no usable parts exist.
func (p PlaceLabel) ShortLabel() string {
	switch {
	case p.City != "" && p.State != "":
		return p.City + ", " + p.State
	case p.City != "" && p.Country != "":
		return p.City + ", " + p.Country
	case p.State != "" && p.Country != "":
		return p.State + ", " + p.Country
	case p.City != "":
		return p.City
	case p.Country != "":
		return p.Country
	}
	return ""
}

// FullLabel joins all known parts.
func (p PlaceLabel) FullLabel() string {
	var parts []string
	for _, part := range []string{p.City, p.State, p.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// removeDiacritics removes diacritical marks (e.g. "Plzeň" -> "Plzen").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeKey reduces a label to a lowercase, diacritic-free, at most
// two-part key used only for grouping near-identical labels. Display strings
// are never normalized.
func NormalizeKey(label string) string {
	if label == "" {
		return ""
	}
	var parts []string
	for _, part := range strings.Split(label, ",") {
		part = strings.TrimSpace(strings.ToLower(removeDiacritics(part)))
		if part != "" {
			parts = append(parts, part)
		}
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, ", ")
}
