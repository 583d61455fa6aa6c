// Package segment splits one day's chronologically ordered photos into
// time/geography-coherent segments.
package segment

import (
	"time"

	"github.com/kozaktomas/trip-press/internal/book"
	"github.com/kozaktomas/trip-press/internal/geo"
)

const (
	// maxTimeGap is the capture-time gap that triggers a split.
	maxTimeGap = 90 * time.Minute
	// minJumpKm is the geographic jump that triggers a split.
	minJumpKm = 5.0
	// minMembers is the smallest segment size kept without protection.
	minMembers = 3

	// Stop classification thresholds.
	travelDistanceKm    = 150.0
	travelDurationHours = 4.0
)

// Kind classifies a segment as a local stop or a travel leg.
type Kind string

const (
	KindLocal  Kind = "local"
	KindTravel Kind = "travel"
)

// Segment is one contiguous time/geography-coherent run of a day's photos.
type Segment struct {
	Index           int // 1-based within the day
	AssetIDs        []string
	Start           *time.Time
	End             *time.Time
	DurationMinutes float64
	DistanceKm      *float64 // nil with fewer than two geo-tagged members
	Polyline        []geo.Point
	Kind            Kind
}

// DurationHours returns the segment duration in hours.
func (s Segment) DurationHours() float64 {
	return s.DurationMinutes / 60.0
}

// SplitDay segments one day's assets, which must already be ordered ascending
// by capture timestamp (timestamp-less assets after all timestamped ones).
// A pair missing a timestamp or coordinates on either side simply cannot
// trigger the respective criterion; it never forces a split.
//
// The merge pass folds segments below minMembers into a neighbor, preferring
// the previous segment. A small segment survives only when both its adjacent
// breaks were criterion-triggered. A merged run adopts the outer breaks of
// its parts, so a run that absorbed the day's first photos has a weak leading
// break and keeps merging forward until it reaches the floor.
func SplitDay(assets []book.Asset) []Segment {
	if len(assets) == 0 {
		return nil
	}

	groups := splitOnBreaks(assets)
	groups = mergeUndersized(groups)

	segments := make([]Segment, len(groups))
	for i, g := range groups {
		segments[i] = summarize(g, i+1)
	}
	return segments
}

// shouldSplit checks the time-gap and distance criteria for one adjacent pair.
func shouldSplit(prev, cur book.Asset) bool {
	if prev.HasTimestamp() && cur.HasTimestamp() {
		gap := cur.TakenAt.Sub(*prev.TakenAt)
		if gap < 0 {
			gap = -gap
		}
		if gap > maxTimeGap {
			return true
		}
	}
	if prev.HasGPS() && cur.HasGPS() {
		if geo.HaversineKm(*prev.Lat, *prev.Lon, *cur.Lat, *cur.Lon) >= minJumpKm {
			return true
		}
	}
	return false
}

func splitOnBreaks(assets []book.Asset) [][]book.Asset {
	var groups [][]book.Asset
	current := []book.Asset{assets[0]}
	for i := 1; i < len(assets); i++ {
		if shouldSplit(assets[i-1], assets[i]) {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, assets[i])
	}
	return append(groups, current)
}

// run is a contiguous group of assets with the strength of its two
// surrounding breaks. The day start and day end are weak breaks; every
// criterion-triggered split is strong.
type run struct {
	members      []book.Asset
	strongBefore bool
	strongAfter  bool
}

func mergeUndersized(groups [][]book.Asset) [][]book.Asset {
	if len(groups) < 2 {
		return groups
	}

	runs := make([]run, len(groups))
	for i, g := range groups {
		runs[i] = run{
			members:      g,
			strongBefore: i > 0,
			strongAfter:  i < len(groups)-1,
		}
	}

	for len(runs) > 1 {
		idx := -1
		for i, r := range runs {
			if len(r.members) < minMembers && !(r.strongBefore && r.strongAfter) {
				idx = i
				break
			}
		}
		if idx < 0 {
			break
		}
		if idx > 0 {
			runs[idx-1].members = append(runs[idx-1].members, runs[idx].members...)
			runs[idx-1].strongAfter = runs[idx].strongAfter
			runs = append(runs[:idx], runs[idx+1:]...)
		} else {
			runs[1].members = append(runs[0].members, runs[1].members...)
			runs[1].strongBefore = runs[0].strongBefore
			runs = runs[1:]
		}
	}

	out := make([][]book.Asset, len(runs))
	for i, r := range runs {
		out[i] = r.members
	}
	return out
}

func summarize(members []book.Asset, index int) Segment {
	s := Segment{Index: index, AssetIDs: make([]string, 0, len(members))}
	for _, a := range members {
		s.AssetIDs = append(s.AssetIDs, a.ID)
		if a.HasTimestamp() {
			if s.Start == nil {
				t := *a.TakenAt
				s.Start = &t
			}
			t := *a.TakenAt
			s.End = &t
		}
		if a.HasGPS() {
			s.Polyline = append(s.Polyline, geo.Point{Lat: *a.Lat, Lon: *a.Lon})
		}
	}
	if s.Start != nil && s.End != nil {
		s.DurationMinutes = s.End.Sub(*s.Start).Minutes()
	}
	if len(s.Polyline) >= 2 {
		km := geo.PolylineKm(s.Polyline)
		s.DistanceKm = &km
	}
	s.Kind = classify(s)
	return s
}

// classify mirrors the original stop heuristics: long distance or long
// duration means a travel leg, everything else is a local stop.
func classify(s Segment) Kind {
	dist := 0.0
	if s.DistanceKm != nil {
		dist = *s.DistanceKm
	}
	if dist >= travelDistanceKm || s.DurationHours() >= travelDurationHours {
		return KindTravel
	}
	return KindLocal
}
