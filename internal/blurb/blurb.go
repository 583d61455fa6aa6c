// Package blurb generates the short deterministic texts printed on the trip
// summary and day intro pages. No templates, no randomness: the same inputs
// always produce the same sentence.
package blurb

import (
	"fmt"
	"math"
	"strings"
)

// TripSummary describes the whole trip for the summary one-liner.
type TripSummary struct {
	DayCount      int
	PhotoCount    int
	EventCount    int
	LocationCount int
}

// DayIntro describes one day for the tagline.
type DayIntro struct {
	PhotoCount     int
	DistanceKm     float64
	SegmentCount   int
	TravelSegments int
	LocalSegments  int
}

// roundDistanceKm rounds to the nearest friendly 10 km bucket.
func roundDistanceKm(distance float64) int {
	if distance <= 0 {
		return 0
	}
	return int(math.Round(distance/10.0) * 10)
}

// TripSummaryBlurb returns the one-liner for the trip summary page.
func TripSummaryBlurb(ctx TripSummary) string {
	sentence := fmt.Sprintf("A %d-day trip captured in %d photos.", ctx.DayCount, ctx.PhotoCount)

	if ctx.LocationCount >= 20 {
		sentence = fmt.Sprintf("A %d-day trip with %d photos across about %d places.",
			ctx.DayCount, ctx.PhotoCount, ctx.LocationCount)
		if ctx.EventCount > 0 {
			sentence += fmt.Sprintf(" Highlights from %d key moments.", ctx.EventCount)
		}
		return sentence
	}

	var extras []string
	if ctx.EventCount > 0 {
		plural := ""
		if ctx.EventCount != 1 {
			plural = "s"
		}
		extras = append(extras, fmt.Sprintf("%d key moment%s", ctx.EventCount, plural))
	}
	if ctx.LocationCount > 0 {
		extras = append(extras, fmt.Sprintf("%d spots", ctx.LocationCount))
	}
	if len(extras) > 0 {
		sentence = fmt.Sprintf("A %d-day trip captured in %d photos with %s.",
			ctx.DayCount, ctx.PhotoCount, strings.Join(extras, " and "))
	}
	return sentence
}

// DayIntroTagline returns a concise tagline for a day intro page, or "" when
// there is nothing worth saying (no movement data and no photos).
func DayIntroTagline(ctx DayIntro) string {
	travelHeavy := ctx.TravelSegments > 0 &&
		ctx.TravelSegments >= ctx.LocalSegments &&
		ctx.DistanceKm > 100
	localHeavy := ctx.LocalSegments > 0 && ctx.TravelSegments == 0

	if ctx.SegmentCount <= 0 && ctx.DistanceKm < 0.1 && ctx.PhotoCount <= 0 {
		return ""
	}

	roundedKm := roundDistanceKm(ctx.DistanceKm)

	switch {
	case ctx.DistanceKm >= 150:
		return fmt.Sprintf("Big travel day covering about %d km", roundedKm)
	case travelHeavy:
		return fmt.Sprintf("Travel day with %d segment(s) covering about %d km", ctx.TravelSegments, roundedKm)
	case localHeavy && ctx.DistanceKm < 50:
		return fmt.Sprintf("Exploring nearby spots with about %d photos", ctx.PhotoCount)
	case ctx.DistanceKm >= 15:
		return fmt.Sprintf("Covering some ground, moving around about %d km", roundedKm)
	case ctx.DistanceKm >= 0.3:
		return fmt.Sprintf("Exploring nearby spots with about %d photos", ctx.PhotoCount)
	case ctx.PhotoCount > 0:
		return fmt.Sprintf("A relaxed day close to home with %d photos", ctx.PhotoCount)
	}
	return "Staying close to home base today"
}
