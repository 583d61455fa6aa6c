package timeline

import (
	"testing"
	"time"

	"github.com/kozaktomas/trip-press/internal/book"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestBuildDays_GroupsByDate(t *testing.T) {
	assets := []book.Asset{
		{ID: "b1", TakenAt: ts("2025-08-02T09:00:00Z")},
		{ID: "a2", TakenAt: ts("2025-08-01T15:00:00Z")},
		{ID: "a1", TakenAt: ts("2025-08-01T08:00:00Z")},
	}

	days := BuildDays(assets)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date.Format("2006-01-02") != "2025-08-01" {
		t.Errorf("first day: got %s", days[0].Date.Format("2006-01-02"))
	}
	if len(days[0].AssetIDs) != 2 || days[0].AssetIDs[0] != "a1" || days[0].AssetIDs[1] != "a2" {
		t.Errorf("first day assets not ordered by timestamp: %v", days[0].AssetIDs)
	}
	if len(days[1].AssetIDs) != 1 || days[1].AssetIDs[0] != "b1" {
		t.Errorf("second day assets: %v", days[1].AssetIDs)
	}
}

func TestBuildDays_UndatedTail(t *testing.T) {
	assets := []book.Asset{
		{ID: "u1"},
		{ID: "a1", TakenAt: ts("2025-08-01T08:00:00Z")},
		{ID: "u2"},
	}

	days := BuildDays(assets)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	tail := days[len(days)-1]
	if tail.Dated() {
		t.Error("undated day should have a zero date")
	}
	// Input order preserved among timestamp-less assets.
	if len(tail.AssetIDs) != 2 || tail.AssetIDs[0] != "u1" || tail.AssetIDs[1] != "u2" {
		t.Errorf("undated assets: %v", tail.AssetIDs)
	}
}

func TestBuildDays_Empty(t *testing.T) {
	if days := BuildDays(nil); days != nil {
		t.Errorf("expected nil, got %v", days)
	}
}

func TestDateRange(t *testing.T) {
	days := BuildDays([]book.Asset{
		{ID: "a", TakenAt: ts("2025-08-03T10:00:00Z")},
		{ID: "b", TakenAt: ts("2025-08-01T10:00:00Z")},
		{ID: "c"},
	})
	first, last, ok := DateRange(days)
	if !ok {
		t.Fatal("expected a date range")
	}
	if first.Format("2006-01-02") != "2025-08-01" || last.Format("2006-01-02") != "2025-08-03" {
		t.Errorf("range = %s..%s", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}

	if _, _, ok := DateRange([]book.Day{{AssetIDs: []string{"x"}}}); ok {
		t.Error("undated-only days should have no range")
	}
}
