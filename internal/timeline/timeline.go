// Package timeline groups approved assets into calendar days. Planning itself
// accepts externally supplied days; this package is the convenience grouping
// used by the CLI and web layers.
package timeline

import (
	"sort"
	"time"

	"github.com/kozaktomas/trip-press/internal/book"
)

// BuildDays groups assets by capture date and returns days in chronological
// order. Within each day assets are ordered by capture timestamp. Assets
// without a timestamp are collected into a trailing undated day, keeping
// their input order.
func BuildDays(assets []book.Asset) []book.Day {
	if len(assets) == 0 {
		return nil
	}

	byDate := make(map[time.Time][]string)
	var undated []string
	for _, a := range assets {
		if !a.HasTimestamp() {
			undated = append(undated, a.ID)
			continue
		}
		y, m, d := a.TakenAt.Date()
		key := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		byDate[key] = append(byDate[key], a.ID)
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	lookup := book.NewLookup(assets)
	days := make([]book.Day, 0, len(dates)+1)
	for _, date := range dates {
		days = append(days, book.Day{
			Date:     date,
			AssetIDs: book.SortIDsByTakenAt(byDate[date], lookup),
		})
	}
	if len(undated) > 0 {
		days = append(days, book.Day{AssetIDs: undated})
	}
	return days
}

// DateRange returns the first and last dated day, or false when no day has
// a date.
func DateRange(days []book.Day) (time.Time, time.Time, bool) {
	var first, last time.Time
	found := false
	for _, d := range days {
		if !d.Dated() {
			continue
		}
		if !found || d.Date.Before(first) {
			first = d.Date
		}
		if !found || d.Date.After(last) {
			last = d.Date
		}
		found = true
	}
	return first, last, found
}
