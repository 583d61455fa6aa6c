package planner

// dayProfile captures the per-day layout posture derived from photo and
// segment counts. Small days stay compact; bigger days earn full-page heroes,
// capped book-wide by maxFullHeroes.
type dayProfile struct {
	photoCount    int
	segmentCount  int
	heroAllowance int
}

const (
	// maxFullHeroes is the book-wide full-page hero budget.
	maxFullHeroes = 2
	// heroDayMinPhotos is the deduped photo floor for any full-page hero.
	heroDayMinPhotos = 9
	// heroRelaxedMaxSegments keeps the 2-hero allowance for calm days.
	heroRelaxedMaxSegments = 3
)

func profileDay(photoCount, segmentCount int) dayProfile {
	p := dayProfile{photoCount: photoCount, segmentCount: segmentCount}
	switch {
	case photoCount < heroDayMinPhotos:
		p.heroAllowance = 0
	case segmentCount <= heroRelaxedMaxSegments:
		p.heroAllowance = 2
	default:
		p.heroAllowance = 1
	}
	return p
}
