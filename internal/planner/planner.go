// Package planner assembles the full page sequence of a photo book: covers,
// trip summary, optional route map, day intros, highlight and grid pages, the
// optional spread, and the back cover. Planning is a pure function of its
// inputs plus the injected route renderer; all selector and budget state lives
// in a per-call context, so planning different books concurrently is safe.
package planner

import (
	"fmt"
	"log"
	"time"

	"github.com/kozaktomas/trip-press/internal/blurb"
	"github.com/kozaktomas/trip-press/internal/book"
	"github.com/kozaktomas/trip-press/internal/dedup"
	"github.com/kozaktomas/trip-press/internal/geo"
	"github.com/kozaktomas/trip-press/internal/segment"
)

// RouteRenderer produces the schematic route-map image for a book. Renderer
// failures must never fail planning: on error the map page is omitted.
type RouteRenderer interface {
	RenderRouteMap(bookID string, points []geo.Point) (relPath, absPath string, err error)
}

// Options tunes one planning call.
type Options struct {
	// IncludeSpread inserts the single two-page photo spread.
	IncludeSpread bool
}

// Input is one immutable planning snapshot.
type Input struct {
	BookID string
	Title  string
	Size   book.Size
	Days   []book.Day
	Lookup book.Lookup
}

// Planner plans books. Safe for concurrent use.
type Planner struct {
	renderer   RouteRenderer
	capacities map[book.Size]int
}

// New builds a planner. renderer may be nil (no map page is emitted then);
// sizes missing from capacities fall back to 4 photos per page.
func New(renderer RouteRenderer, capacities map[book.Size]int) *Planner {
	return &Planner{renderer: renderer, capacities: capacities}
}

func (p *Planner) capacity(size book.Size) int {
	if c, ok := p.capacities[size]; ok && c >= 3 {
		return c
	}
	return 4
}

// planContext holds the mutable bookkeeping of one planning call.
type planContext struct {
	lookup       book.Lookup
	capacity     int
	selector     *variantSelector
	heroBudget   int
	spreadHeroID string // empty once placed or when no spread is wanted

	interior []book.Page
	clusters []book.Cluster
}

// Plan builds the complete page sequence for one book.
func (p *Planner) Plan(in Input, opts Options) book.Book {
	ctx := &planContext{
		lookup:     in.Lookup,
		capacity:   p.capacity(in.Size),
		selector:   newVariantSelector(in.Lookup),
		heroBudget: maxFullHeroes,
	}

	// All chronologically placed ids, in day order.
	var allIDs []string
	for _, day := range in.Days {
		allIDs = append(allIDs, day.AssetIDs...)
	}

	// Per-day dedup, independent of segmentation.
	dedupedDays := make([][]string, len(in.Days))
	for i, day := range in.Days {
		result := dedup.Collapse(day.AssetIDs, in.Lookup)
		dedupedDays[i] = result.VisibleIDs
		ctx.clusters = append(ctx.clusters, result.Clusters...)
	}

	if opts.IncludeSpread {
		for _, ids := range dedupedDays {
			if len(ids) > 0 {
				ctx.spreadHeroID = ids[0]
				break
			}
		}
	}

	heroID := ""
	if len(allIDs) > 0 {
		heroID = allIDs[0]
	}
	cover := book.NewPage(book.CoverPayload{
		Title:       in.Title,
		Subtitle:    subtitle(in.Days),
		HeroAssetID: heroID,
	})

	stats := tripStats(in.Days, dedupedDays, in.Lookup)
	ctx.interior = append(ctx.interior, book.NewPage(book.TitlePayload{
		Title:      in.Title,
		Subtitle:   subtitle(in.Days),
		DayCount:   stats.dayCount,
		PhotoCount: len(allIDs),
	}))
	ctx.interior = append(ctx.interior, book.NewPage(book.TripSummaryPayload{
		DayCount:      stats.dayCount,
		PhotoCount:    len(allIDs),
		EventCount:    stats.eventCount,
		GPSPhotoCount: stats.gpsPhotoCount,
		LocationCount: stats.locationCount,
		Blurb: blurb.TripSummaryBlurb(blurb.TripSummary{
			DayCount:      stats.dayCount,
			PhotoCount:    len(allIDs),
			EventCount:    stats.eventCount,
			LocationCount: stats.locationCount,
		}),
	}))

	if page, ok := p.mapRoutePage(in.BookID, stats.route); ok {
		ctx.interior = append(ctx.interior, page)
	}

	for i, day := range in.Days {
		p.planDay(ctx, i+1, day, dedupedDays[i])
	}

	ctx.interior = append(ctx.interior, book.NewPage(book.BackCoverPayload{
		Text:       fmt.Sprintf("© %s", in.Title),
		PhotoCount: len(allIDs),
	}))

	pages := make([]book.Page, 0, len(ctx.interior)+1)
	cover.Index = 0
	pages = append(pages, cover)
	for i, page := range ctx.interior {
		page.Index = i + 1
		pages = append(pages, page)
	}

	b := book.Book{
		ID:       in.BookID,
		Title:    in.Title,
		Size:     in.Size,
		Pages:    pages,
		Clusters: ctx.clusters,
	}
	b.Counters = account(b, allIDs)
	return b
}

// planDay appends one day's block: intro, highlights, optional full-page
// hero, the spread when due, and the batched grid pages with variants.
func (p *Planner) planDay(ctx *planContext, dayIndex int, day book.Day, deduped []string) {
	if len(deduped) == 0 {
		return
	}

	assets := make([]book.Asset, 0, len(deduped))
	for _, id := range deduped {
		if a, ok := ctx.lookup[id]; ok {
			assets = append(assets, a)
		}
	}
	segments := segment.SplitDay(assets)
	profile := profileDay(len(deduped), len(segments))
	segmentOf := segmentIndexByAsset(segments)

	travel, local := 0, 0
	distance, duration := 0.0, 0.0
	for _, s := range segments {
		if s.Kind == segment.KindTravel {
			travel++
		} else {
			local++
		}
		if s.DistanceKm != nil {
			distance += *s.DistanceKm
		}
		duration += s.DurationHours()
	}

	date := ""
	if day.Dated() {
		date = day.Date.Format("2006-01-02")
	}
	ctx.interior = append(ctx.interior, book.NewPage(book.DayIntroPayload{
		DayIndex:       dayIndex,
		Date:           date,
		PhotoCount:     len(deduped),
		SegmentCount:   len(segments),
		TravelSegments: travel,
		LocalSegments:  local,
		DistanceKm:     distance,
		DurationHours:  duration,
		Tagline: blurb.DayIntroTagline(blurb.DayIntro{
			PhotoCount:     len(deduped),
			DistanceKm:     distance,
			SegmentCount:   len(segments),
			TravelSegments: travel,
			LocalSegments:  local,
		}),
	}))

	remaining := append([]string(nil), deduped...)
	dayHeroesUsed := 0
	var gridPageIdx []int // positions of this day's grid pages in ctx.interior

	// Segment highlight pages consume their photos.
	for _, s := range segments {
		if !notableLocal(s) {
			continue
		}
		take := 8
		if ctx.capacity < take {
			take = ctx.capacity
		}
		picked := pickFrom(remaining, s.AssetIDs, take)
		if len(picked) == 0 {
			continue
		}
		remaining = removeIDs(remaining, picked)
		ctx.interior = append(ctx.interior, book.NewPage(book.GridPayload{
			AssetIDs:     picked,
			Layout:       gridLayout(len(picked)),
			Variant:      VariantDefault,
			Highlight:    true,
			SegmentIndex: s.Index,
		}))
		gridPageIdx = append(gridPageIdx, len(ctx.interior)-1)
	}

	// One standalone full-page hero for busy enough days. The pending spread
	// hero is never spent on a full page.
	if len(remaining) >= 5 && ctx.heroBudget > 0 && dayHeroesUsed < profile.heroAllowance {
		heroID := pickFullHero(remaining, ctx.lookup, ctx.spreadHeroID)
		remaining = removeIDs(remaining, []string{heroID})
		ctx.heroBudget--
		dayHeroesUsed++
		ctx.interior = append(ctx.interior, book.NewPage(book.FullPhotoPayload{AssetID: heroID}))
	}

	// The book-wide spread, if its hero is still in this day's pool.
	spreadDue := ctx.spreadHeroID != "" && contains(remaining, ctx.spreadHeroID)
	if spreadDue {
		remaining = removeIDs(remaining, []string{ctx.spreadHeroID})
	}

	batches := SplitBatches(remaining, ctx.capacity)
	emitted := 0
	if spreadDue {
		// The left half must land on a left-hand (even index) page; pull the
		// day's first grid page ahead, or a blank page, to fix parity.
		if (1+len(ctx.interior))%2 == 1 {
			if len(batches) > 0 {
				ctx.interior = append(ctx.interior, gridPage(batches[0], segmentOf))
				gridPageIdx = append(gridPageIdx, len(ctx.interior)-1)
				emitted = 1
			} else {
				ctx.interior = append(ctx.interior, book.NewPage(book.BlankPayload{}))
			}
		}
		left := book.NewPage(book.SpreadPayload{HeroAssetID: ctx.spreadHeroID})
		left.SpreadSlot = book.SpreadLeft
		right := book.NewPage(book.SpreadPayload{HeroAssetID: ctx.spreadHeroID})
		right.SpreadSlot = book.SpreadRight
		ctx.interior = append(ctx.interior, left, right)
		ctx.spreadHeroID = ""
	}
	for _, batch := range batches[emitted:] {
		ctx.interior = append(ctx.interior, gridPage(batch, segmentOf))
		gridPageIdx = append(gridPageIdx, len(ctx.interior)-1)
	}

	// A lone single-photo grid page reads better as a full-page photo.
	for _, idx := range gridPageIdx {
		payload, ok := ctx.interior[idx].Payload.(book.GridPayload)
		if !ok || len(payload.AssetIDs) != 1 {
			continue
		}
		if ctx.heroBudget > 0 && dayHeroesUsed < profile.heroAllowance {
			ctx.heroBudget--
			dayHeroesUsed++
			ctx.interior[idx] = book.NewPage(book.FullPhotoPayload{AssetID: payload.AssetIDs[0]})
		}
	}

	// Variant pass over the day's surviving grid pages.
	ctx.selector.startDay()
	for _, idx := range gridPageIdx {
		payload, ok := ctx.interior[idx].Payload.(book.GridPayload)
		if !ok {
			continue
		}
		payload.Variant = ctx.selector.pick(payload.AssetIDs, payload.SegmentIndex)
		ctx.interior[idx].Payload = payload
	}
}

func gridPage(ids []string, segmentOf map[string]int) book.Page {
	return book.NewPage(book.GridPayload{
		AssetIDs:     ids,
		Layout:       gridLayout(len(ids)),
		Variant:      VariantDefault,
		SegmentIndex: commonSegment(ids, segmentOf),
	})
}

// notableLocal is the highlight predicate: a local stop with enough photos,
// enough dwell time, and a short positive travelled distance.
func notableLocal(s segment.Segment) bool {
	if s.Kind != segment.KindLocal {
		return false
	}
	if len(s.AssetIDs) < 6 {
		return false
	}
	if s.DurationHours() < 0.5 {
		return false
	}
	if s.DistanceKm == nil {
		return false
	}
	return *s.DistanceKm > 0 && *s.DistanceKm <= 15
}

// pickFullHero prefers portraits, then near-square photos, then the first
// candidate, skipping the excluded id.
func pickFullHero(ids []string, lookup book.Lookup, exclude string) string {
	candidates := ids
	if exclude != "" {
		candidates = make([]string, 0, len(ids))
		for _, id := range ids {
			if id != exclude {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) == 0 {
			candidates = ids
		}
	}
	for _, id := range candidates {
		if lookup[id].IsPortrait() {
			return id
		}
	}
	for _, id := range candidates {
		if lookup[id].IsNearSquare() {
			return id
		}
	}
	return candidates[0]
}

// segmentIndexByAsset maps every asset id to its 1-based segment index.
func segmentIndexByAsset(segments []segment.Segment) map[string]int {
	out := make(map[string]int)
	for _, s := range segments {
		for _, id := range s.AssetIDs {
			out[id] = s.Index
		}
	}
	return out
}

// commonSegment returns the segment index shared by every id, or 0.
func commonSegment(ids []string, segmentOf map[string]int) int {
	if len(ids) == 0 {
		return 0
	}
	first, ok := segmentOf[ids[0]]
	if !ok {
		return 0
	}
	for _, id := range ids[1:] {
		if segmentOf[id] != first {
			return 0
		}
	}
	return first
}

// pickFrom returns up to limit members, in remaining order, that belong to
// the member set.
func pickFrom(remaining, members []string, limit int) []string {
	inSet := make(map[string]bool, len(members))
	for _, id := range members {
		inSet[id] = true
	}
	var picked []string
	for _, id := range remaining {
		if inSet[id] {
			picked = append(picked, id)
			if len(picked) == limit {
				break
			}
		}
	}
	return picked
}

func removeIDs(ids []string, drop []string) []string {
	dropSet := make(map[string]bool, len(drop))
	for _, id := range drop {
		dropSet[id] = true
	}
	out := ids[:0:0]
	for _, id := range ids {
		if !dropSet[id] {
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// mapRoutePage calls the injected renderer once; any failure or missing
// renderer simply omits the page.
func (p *Planner) mapRoutePage(bookID string, route []geo.Point) (book.Page, bool) {
	if p.renderer == nil || len(route) == 0 {
		return book.Page{}, false
	}
	rel, abs, err := p.renderer.RenderRouteMap(bookID, route)
	if err != nil || rel == "" {
		return book.Page{}, false
	}
	return book.NewPage(book.MapRoutePayload{
		ImagePath:    rel,
		AbsolutePath: abs,
		PointCount:   len(route),
	}), true
}

type bookStats struct {
	dayCount      int
	eventCount    int
	gpsPhotoCount int
	locationCount int
	route         []geo.Point
}

// tripStats aggregates the headline numbers for the summary pages and the
// ordered route for the map renderer. Locations are distinct ~1 km GPS cells
// (coordinates rounded to two decimals).
func tripStats(days []book.Day, dedupedDays [][]string, lookup book.Lookup) bookStats {
	stats := bookStats{dayCount: len(days)}
	cells := make(map[string]bool)
	for i, day := range days {
		for _, id := range day.AssetIDs {
			a, ok := lookup[id]
			if !ok || !a.HasGPS() {
				continue
			}
			stats.gpsPhotoCount++
			cells[fmt.Sprintf("%.2f,%.2f", *a.Lat, *a.Lon)] = true
		}
		// Events and the route come from the deduped view, matching the day
		// blocks the reader actually sees.
		assets := make([]book.Asset, 0, len(dedupedDays[i]))
		for _, id := range dedupedDays[i] {
			if a, ok := lookup[id]; ok {
				assets = append(assets, a)
			}
		}
		for _, s := range segment.SplitDay(assets) {
			stats.eventCount++
			stats.route = append(stats.route, s.Polyline...)
		}
	}
	stats.locationCount = len(cells)
	return stats
}

// subtitle formats the trip date range the way the cover prints it.
func subtitle(days []book.Day) string {
	if len(days) == 0 {
		return ""
	}
	var dates []time.Time
	for _, d := range days {
		if d.Dated() {
			dates = append(dates, d.Date)
		}
	}
	if len(dates) == 0 {
		return fmt.Sprintf("%d days", len(days))
	}
	start, end := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}
	switch {
	case start.Equal(end):
		return start.Format("January 02, 2006")
	case start.Year() == end.Year() && start.Month() == end.Month():
		return fmt.Sprintf("%s - %s", start.Format("January 02"), end.Format("02, 2006"))
	case start.Year() == end.Year():
		return fmt.Sprintf("%s - %s", start.Format("January 02"), end.Format("January 02, 2006"))
	default:
		return fmt.Sprintf("%s - %s", start.Format("January 2006"), end.Format("January 2006"))
	}
}

// account recomputes the usage counters and logs any mismatch.
func account(b book.Book, allIDs []string) book.Counters {
	used := make(map[string]bool)
	for _, page := range b.Pages {
		for _, id := range page.AssetIDs() {
			used[id] = true
		}
	}
	for _, c := range b.Clusters {
		used[c.KeptID] = true
	}

	hidden := 0
	for _, c := range b.Clusters {
		hidden += len(c.HiddenIDs)
	}

	counters := book.Counters{
		Considered:     len(allIDs),
		Used:           len(used),
		HiddenClusters: len(b.Clusters),
		HiddenAssets:   hidden,
	}
	if counters.Used+counters.HiddenAssets != counters.Considered {
		log.Printf("WARNING: book %s accounting mismatch: considered=%d used=%d hidden=%d",
			b.ID, counters.Considered, counters.Used, counters.HiddenAssets)
	}
	return counters
}
