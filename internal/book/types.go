// Package book holds the domain model shared by the planning pipeline:
// assets, days, segments, pages and the planned book aggregate.
package book

import (
	"sort"
	"time"
)

// Size is a standard print size of a photo book.
type Size string

const (
	SizeSquare8   Size = "8x8"
	SizeSquare10  Size = "10x10"
	SizePortrait  Size = "8x10"
	SizeLandscape Size = "10x8"
	SizeLarge     Size = "11x14"
)

// Asset is one approved photo with optional capture metadata. The planning
// core never mutates assets.
type Asset struct {
	ID      string
	TakenAt *time.Time // capture timestamp, nil if unknown
	Width   int        // pixels, 0 if unknown
	Height  int        // pixels, 0 if unknown
	Lat     *float64
	Lon     *float64
}

// HasTimestamp reports whether the asset carries a capture timestamp.
func (a Asset) HasTimestamp() bool {
	return a.TakenAt != nil
}

// HasGPS reports whether the asset carries usable coordinates.
func (a Asset) HasGPS() bool {
	return a.Lat != nil && a.Lon != nil
}

// HasDimensions reports whether pixel dimensions are known.
func (a Asset) HasDimensions() bool {
	return a.Width > 0 && a.Height > 0
}

// Area returns the pixel area, or 0 when dimensions are unknown.
func (a Asset) Area() int {
	if !a.HasDimensions() {
		return 0
	}
	return a.Width * a.Height
}

// IsLandscape reports whether the asset is wider than tall. The second return
// is false when dimensions are unknown.
func (a Asset) IsLandscape() (bool, bool) {
	if !a.HasDimensions() {
		return false, false
	}
	return a.Width > a.Height, true
}

// IsPortrait reports whether the asset is taller than wide.
func (a Asset) IsPortrait() bool {
	return a.HasDimensions() && a.Height > a.Width
}

// IsNearSquare reports whether the aspect ratio is within 10% of square.
func (a Asset) IsNearSquare() bool {
	if !a.HasDimensions() {
		return false
	}
	ratio := float64(a.Width) / float64(a.Height)
	return ratio >= 0.9 && ratio <= 1.1
}

// Day is a calendar-day grouping of assets supplied by the timeline stage.
// A zero Date marks the undated group. Days are processed independently.
type Day struct {
	Date     time.Time
	AssetIDs []string
}

// Dated reports whether the day has a calendar date.
func (d Day) Dated() bool {
	return !d.Date.IsZero()
}

// Lookup resolves asset ids to assets.
type Lookup map[string]Asset

// NewLookup builds an id lookup from an asset slice.
func NewLookup(assets []Asset) Lookup {
	m := make(Lookup, len(assets))
	for _, a := range assets {
		m[a.ID] = a
	}
	return m
}

// SortIDsByTakenAt returns the ids ordered ascending by capture timestamp.
// Assets without a timestamp sort after all timestamped ones, keeping their
// original relative order (stable). Unknown ids keep their position among the
// timestamp-less tail.
func SortIDsByTakenAt(ids []string, lookup Lookup) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, iok := lookup[sorted[i]]
		aj, jok := lookup[sorted[j]]
		iTimed := iok && ai.HasTimestamp()
		jTimed := jok && aj.HasTimestamp()
		if iTimed != jTimed {
			return iTimed
		}
		if !iTimed {
			return false
		}
		return ai.TakenAt.Before(*aj.TakenAt)
	})
	return sorted
}

// Cluster is one group of near-duplicate photos collapsed to its hero.
type Cluster struct {
	ID        string   `json:"id"`
	KeptID    string   `json:"kept_id"`
	HiddenIDs []string `json:"hidden_ids"`
}

// Counters is the usage accounting of a planned book.
type Counters struct {
	Considered     int `json:"considered_count"`
	Used           int `json:"used_count"`
	HiddenClusters int `json:"auto_hidden_clusters_count"`
	HiddenAssets   int `json:"auto_hidden_hidden_assets_count"`
}

// Book is the planned page sequence plus bookkeeping.
type Book struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Size     Size      `json:"size"`
	Pages    []Page    `json:"pages"`
	Counters Counters  `json:"counters"`
	Clusters []Cluster `json:"clusters"`
}
