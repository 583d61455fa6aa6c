// Package dedup finds and collapses near-duplicate photo bursts.
//
// Photos shot within seconds of each other with matching orientation and
// similar dimensions are almost always burst variants of the same scene. The
// pass keeps the best-looking candidate of each burst (hero) and hides the
// rest, so a ten-shot burst fills one grid cell instead of two pages.
package dedup

import (
	"fmt"
	"sort"

	"github.com/kozaktomas/trip-press/internal/book"
)

const (
	// maxGapSeconds joins two photos into the same burst chain.
	maxGapSeconds = 10.0
	// minSimilarity is the floor for min(area, width, height) min/max ratios.
	minSimilarity = 0.92
	// minClusterSize is the smallest run treated as a duplicate cluster.
	minClusterSize = 3
)

// Result carries the visible asset ids plus the clusters that were collapsed.
type Result struct {
	VisibleIDs []string
	Clusters   []book.Cluster
}

// HiddenCount returns the number of assets hidden across all clusters.
func (r Result) HiddenCount() int {
	n := 0
	for _, c := range r.Clusters {
		n += len(c.HiddenIDs)
	}
	return n
}

// Collapse scans the ids in capture order and replaces every qualifying burst
// with its hero. Ids are re-sorted by timestamp first so callers do not have
// to guarantee order. Timestamp-less assets never join a cluster.
func Collapse(ids []string, lookup book.Lookup) Result {
	sorted := book.SortIDsByTakenAt(ids, lookup)

	result := Result{VisibleIDs: make([]string, 0, len(sorted))}
	i := 0
	for i < len(sorted) {
		chain := growChain(sorted, i, lookup)
		if cluster, ok := qualify(chain, lookup); ok {
			result.VisibleIDs = append(result.VisibleIDs, cluster.KeptID)
			result.Clusters = append(result.Clusters, cluster)
		} else {
			result.VisibleIDs = append(result.VisibleIDs, chain...)
		}
		i += len(chain)
	}
	return result
}

// growChain extends a candidate run starting at index start for as long as
// each adjacent pair looks like burst neighbors.
func growChain(sorted []string, start int, lookup book.Lookup) []string {
	end := start + 1
	for end < len(sorted) {
		prev, pok := lookup[sorted[end-1]]
		cur, cok := lookup[sorted[end]]
		if !pok || !cok || !burstNeighbors(prev, cur) {
			break
		}
		end++
	}
	return sorted[start:end]
}

// burstNeighbors checks the pairwise duplicate predicate: capture times within
// maxGapSeconds, same orientation class, and similarity of at least
// minSimilarity. Missing timestamps or dimensions on either side fail the
// check.
func burstNeighbors(a, b book.Asset) bool {
	if !a.HasTimestamp() || !b.HasTimestamp() {
		return false
	}
	gap := b.TakenAt.Sub(*a.TakenAt).Seconds()
	if gap < 0 {
		gap = -gap
	}
	if gap > maxGapSeconds {
		return false
	}
	if !sameOrientation(a, b) {
		return false
	}
	return similarity(a, b) >= minSimilarity
}

func sameOrientation(a, b book.Asset) bool {
	la, ok := a.IsLandscape()
	if !ok {
		return false
	}
	lb, ok := b.IsLandscape()
	if !ok {
		return false
	}
	return la == lb
}

// similarity is the smallest of the area, width, and height min/max ratios.
// Assets without dimensions score zero.
func similarity(a, b book.Asset) float64 {
	if !a.HasDimensions() || !b.HasDimensions() {
		return 0
	}
	return min3(
		ratio(a.Area(), b.Area()),
		ratio(a.Width, b.Width),
		ratio(a.Height, b.Height),
	)
}

func ratio(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	return float64(a) / float64(b)
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// qualify decides whether a chain becomes a hidden cluster. Besides the size
// floor, the hero must be independently similar to every other member on the
// dimension metric alone; a chain whose dimensions drift past the hero is
// kept visible in full. Capture-time gaps only constrain chain growth, not
// hero qualification.
func qualify(chain []string, lookup book.Lookup) (book.Cluster, bool) {
	if len(chain) < minClusterSize {
		return book.Cluster{}, false
	}

	heroID := pickHero(chain, lookup)
	hero := lookup[heroID]
	for _, id := range chain {
		if id == heroID {
			continue
		}
		if similarity(hero, lookup[id]) < minSimilarity {
			return book.Cluster{}, false
		}
	}

	cluster := book.Cluster{
		ID:     fmt.Sprintf("dup-%s", heroID),
		KeptID: heroID,
	}
	for _, id := range chain {
		if id != heroID {
			cluster.HiddenIDs = append(cluster.HiddenIDs, id)
		}
	}
	return cluster, true
}

// pickHero selects the cluster member with the largest pixel area, breaking
// ties in favor of the latest capture time.
func pickHero(chain []string, lookup book.Lookup) string {
	best := chain[0]
	for _, id := range chain[1:] {
		if heroBetter(lookup[id], lookup[best]) {
			best = id
		}
	}
	return best
}

func heroBetter(candidate, current book.Asset) bool {
	ca, ba := candidate.Area(), current.Area()
	if ca != ba {
		return ca > ba
	}
	return candidate.TakenAt.After(*current.TakenAt)
}

// HiddenSet flattens the hidden ids of all clusters into a set for quick
// membership checks.
func HiddenSet(clusters []book.Cluster) map[string]bool {
	hidden := make(map[string]bool)
	for _, c := range clusters {
		for _, id := range c.HiddenIDs {
			hidden[id] = true
		}
	}
	return hidden
}

// SortClusters orders clusters by their hero's capture time for stable output.
func SortClusters(clusters []book.Cluster, lookup book.Lookup) {
	sort.SliceStable(clusters, func(i, j int) bool {
		a, b := lookup[clusters[i].KeptID], lookup[clusters[j].KeptID]
		if a.HasTimestamp() && b.HasTimestamp() {
			return a.TakenAt.Before(*b.TakenAt)
		}
		return clusters[i].KeptID < clusters[j].KeptID
	})
}
