package planner

import "github.com/kozaktomas/trip-press/internal/book"

// Layout variant names the renderer understands.
const (
	VariantDefault   = "default"
	VariantHeroThree = "hero_three"
	VariantGrid3     = "grid_3_stack"
	VariantGrid6     = "grid_6_simple"
)

// variantSelector assigns layout variants to grid pages. All of its state is
// scoped to one planning call; streaks reset at day boundaries, the
// default/alternate balance spans the whole book.
type variantSelector struct {
	lookup book.Lookup

	// book-wide balance counters for 4-photo pages
	defaultCount int
	heroCount    int

	// per-day state, reset by startDay
	lastVariant   string
	streak        int
	heroBySegment map[int]bool
}

func newVariantSelector(lookup book.Lookup) *variantSelector {
	return &variantSelector{lookup: lookup}
}

// startDay resets the streak tracker and the per-segment hero_three cap.
func (v *variantSelector) startDay() {
	v.lastVariant = ""
	v.streak = 0
	v.heroBySegment = make(map[int]bool)
}

// pick chooses the variant for one grid page. Only 3, 4 and 6 photo pages get
// a dedicated variant; everything else is default.
func (v *variantSelector) pick(assetIDs []string, segmentIndex int) string {
	switch len(assetIDs) {
	case 3:
		return v.record(VariantGrid3)
	case 6:
		return v.record(VariantGrid6)
	case 4:
		return v.record(v.pickFour(assetIDs, segmentIndex))
	default:
		return v.record(VariantDefault)
	}
}

func (v *variantSelector) pickFour(assetIDs []string, segmentIndex int) string {
	portrait, landscape := 0, 0
	for _, id := range assetIDs {
		a, ok := v.lookup[id]
		if !ok {
			continue
		}
		if a.IsPortrait() {
			portrait++
		} else if l, known := a.IsLandscape(); known && l {
			landscape++
		}
	}

	var want string
	switch {
	case portrait >= 3:
		want = VariantDefault
	case landscape >= 3:
		want = VariantHeroThree
	default:
		// no clear majority: balance the book-wide counts
		want = VariantDefault
		if v.heroCount < v.defaultCount {
			want = VariantHeroThree
		}
		// never three identical in a row within one day
		if want == v.lastVariant && v.streak >= 2 {
			want = otherFourVariant(want)
		}
	}

	if want == VariantHeroThree && !v.allowHeroThree(segmentIndex) {
		want = VariantDefault
	}
	if want == VariantHeroThree && segmentIndex > 0 {
		v.heroBySegment[segmentIndex] = true
	}

	switch want {
	case VariantHeroThree:
		v.heroCount++
	default:
		v.defaultCount++
	}
	return want
}

// allowHeroThree enforces at most one hero_three page per segment. Pages whose
// photos span segments (index 0) are unconstrained.
func (v *variantSelector) allowHeroThree(segmentIndex int) bool {
	if segmentIndex <= 0 {
		return true
	}
	return !v.heroBySegment[segmentIndex]
}

func otherFourVariant(variant string) string {
	if variant == VariantDefault {
		return VariantHeroThree
	}
	return VariantDefault
}

// record updates the streak tracker and passes the variant through.
func (v *variantSelector) record(variant string) string {
	if variant == v.lastVariant {
		v.streak++
	} else {
		v.lastVariant = variant
		v.streak = 1
	}
	return variant
}
