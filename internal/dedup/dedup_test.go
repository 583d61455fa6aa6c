package dedup

import (
	"reflect"
	"testing"
	"time"

	"github.com/kozaktomas/trip-press/internal/book"
)

func sec(s int) *time.Time {
	t := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(s) * time.Second)
	return &t
}

func burst(id string, s, w, h int) book.Asset {
	return book.Asset{ID: id, TakenAt: sec(s), Width: w, Height: h}
}

func lookupOf(assets ...book.Asset) (ids []string, lookup book.Lookup) {
	lookup = book.NewLookup(assets)
	for _, a := range assets {
		ids = append(ids, a.ID)
	}
	return ids, lookup
}

func TestCollapse_BurstBecomesCluster(t *testing.T) {
	ids, lookup := lookupOf(
		burst("t1", 0, 4100, 3075), // largest area wins the hero pick
		burst("t2", 4, 4000, 3000),
		burst("t3", 8, 4000, 3000),
		burst("solo", 600, 4000, 3000),
	)

	result := Collapse(ids, lookup)

	if want := []string{"t1", "solo"}; !reflect.DeepEqual(result.VisibleIDs, want) {
		t.Fatalf("visible = %v, want %v", result.VisibleIDs, want)
	}
	if len(result.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(result.Clusters))
	}
	c := result.Clusters[0]
	if c.ID != "dup-t1" {
		t.Errorf("cluster id = %q, want dup-t1", c.ID)
	}
	if c.KeptID != "t1" {
		t.Errorf("kept = %q, want t1", c.KeptID)
	}
	if want := []string{"t2", "t3"}; !reflect.DeepEqual(c.HiddenIDs, want) {
		t.Errorf("hidden = %v, want %v", c.HiddenIDs, want)
	}
	if result.HiddenCount() != 2 {
		t.Errorf("hidden count = %d, want 2", result.HiddenCount())
	}
}

func TestCollapse_HeroLargestAreaLatestTiebreak(t *testing.T) {
	// Areas 100, 400, 400: the later of the two 400s wins.
	ids, lookup := lookupOf(
		burst("t1", 0, 10, 10),
		burst("t2", 3, 20, 20),
		burst("t3", 6, 20, 20),
	)

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(result.Clusters))
	}
	if result.Clusters[0].KeptID != "t3" {
		t.Errorf("hero = %q, want t3", result.Clusters[0].KeptID)
	}
	if want := []string{"t1", "t2"}; !reflect.DeepEqual(result.Clusters[0].HiddenIDs, want) {
		t.Errorf("hidden = %v, want %v", result.Clusters[0].HiddenIDs, want)
	}
}

func TestCollapse_PairTooSmall(t *testing.T) {
	ids, lookup := lookupOf(
		burst("a", 0, 4000, 3000),
		burst("b", 2, 4000, 3000),
	)

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 0 {
		t.Fatalf("clusters = %d, want 0", len(result.Clusters))
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(result.VisibleIDs, want) {
		t.Errorf("visible = %v, want %v", result.VisibleIDs, want)
	}
}

func TestCollapse_OrientationBreaksChain(t *testing.T) {
	ids, lookup := lookupOf(
		burst("a", 0, 4000, 3000),
		burst("b", 2, 4000, 3000),
		burst("c", 4, 3000, 4000), // portrait among landscapes
	)

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 0 {
		t.Fatalf("clusters = %d, want 0", len(result.Clusters))
	}
	if len(result.VisibleIDs) != 3 {
		t.Errorf("visible = %v, want all three", result.VisibleIDs)
	}
}

func TestCollapse_DimensionRatioBreaksChain(t *testing.T) {
	ids, lookup := lookupOf(
		burst("a", 0, 4000, 3000),
		burst("b", 2, 4000, 3000),
		burst("c", 4, 3600, 2700), // 0.9 ratio, below the floor
	)

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 0 {
		t.Fatalf("clusters = %d, want 0", len(result.Clusters))
	}
}

func TestCollapse_TimeGapBreaksChain(t *testing.T) {
	ids, lookup := lookupOf(
		burst("a", 0, 4000, 3000),
		burst("b", 5, 4000, 3000),
		burst("c", 20, 4000, 3000),
	)

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 0 {
		t.Fatalf("clusters = %d, want 0", len(result.Clusters))
	}
}

func TestCollapse_DimensionDriftNotHidden(t *testing.T) {
	// Each neighbor pair clears the similarity floor, but the sizes shrink
	// step by step until the hero no longer matches the far end (area ratio
	// a-c is ~0.85), so nothing is hidden.
	ids, lookup := lookupOf(
		burst("a", 0, 4000, 3000), // hero by area
		burst("b", 9, 3840, 2880),
		burst("c", 18, 3690, 2766),
	)

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 0 {
		t.Fatalf("clusters = %d, want 0", len(result.Clusters))
	}
	if len(result.VisibleIDs) != 3 {
		t.Errorf("visible = %v, want all three", result.VisibleIDs)
	}
}

func TestCollapse_LongChainHeroSimilarToAllMembers(t *testing.T) {
	// Adjacent gaps keep the chain growing even when the far ends are more
	// than maxGapSeconds apart; with identical dimensions the hero stays
	// similar to every member, so the whole chain collapses.
	ids, lookup := lookupOf(
		burst("a", 0, 4000, 3000),
		burst("b", 9, 4000, 3000),
		burst("c", 18, 4000, 3000),
	)

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(result.Clusters))
	}
	c := result.Clusters[0]
	if c.KeptID != "c" { // equal areas: latest capture wins
		t.Errorf("hero = %q, want c", c.KeptID)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(c.HiddenIDs, want) {
		t.Errorf("hidden = %v, want %v", c.HiddenIDs, want)
	}
	if want := []string{"c"}; !reflect.DeepEqual(result.VisibleIDs, want) {
		t.Errorf("visible = %v, want %v", result.VisibleIDs, want)
	}
}

func TestCollapse_TimestampLessNeverClusters(t *testing.T) {
	ids, lookup := lookupOf(
		book.Asset{ID: "a", Width: 4000, Height: 3000},
		book.Asset{ID: "b", Width: 4000, Height: 3000},
		book.Asset{ID: "c", Width: 4000, Height: 3000},
	)

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 0 {
		t.Fatalf("clusters = %d, want 0", len(result.Clusters))
	}
}

func TestCollapse_ReordersByTimestamp(t *testing.T) {
	ids := []string{"t3", "t1", "t2"}
	lookup := book.NewLookup([]book.Asset{
		burst("t1", 0, 4000, 3000),
		burst("t2", 4, 4000, 3000),
		burst("t3", 8, 4000, 3000),
	})

	result := Collapse(ids, lookup)

	if len(result.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(result.Clusters))
	}
	if want := []string{"t3"}; !reflect.DeepEqual(result.VisibleIDs, want) {
		t.Errorf("visible = %v, want %v", result.VisibleIDs, want)
	}
}

func TestCollapse_Deterministic(t *testing.T) {
	ids, lookup := lookupOf(
		burst("t1", 0, 4000, 3000),
		burst("t2", 4, 4000, 3000),
		burst("t3", 8, 4000, 3000),
		burst("x", 120, 3000, 4000),
	)
	first := Collapse(ids, lookup)
	second := Collapse(ids, lookup)
	if !reflect.DeepEqual(first, second) {
		t.Error("collapsing twice produced different results")
	}
}

func TestHiddenSet(t *testing.T) {
	clusters := []book.Cluster{
		{ID: "dup-a", KeptID: "a", HiddenIDs: []string{"b", "c"}},
		{ID: "dup-x", KeptID: "x", HiddenIDs: []string{"y"}},
	}
	hidden := HiddenSet(clusters)
	if len(hidden) != 3 || !hidden["b"] || !hidden["c"] || !hidden["y"] {
		t.Errorf("hidden set = %v", hidden)
	}
	if hidden["a"] {
		t.Error("hero must not be hidden")
	}
}
