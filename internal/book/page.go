package book

import (
	"encoding/json"
	"fmt"
)

// PageType identifies the kind of a page. The set is closed: dispatch on it
// with an exhaustive switch, never through a registry.
type PageType string

const (
	PageFrontCover  PageType = "front_cover"
	PageTitle       PageType = "title_page"
	PageTripSummary PageType = "trip_summary"
	PageMapRoute    PageType = "map_route"
	PageDayIntro    PageType = "day_intro"
	PagePhotoGrid   PageType = "photo_grid"
	PagePhotoSpread PageType = "photo_spread"
	PagePhotoFull   PageType = "photo_full"
	PageBackCover   PageType = "back_cover"
	PageBlank       PageType = "blank"
)

// Spread slot values for the two halves of a photo spread.
const (
	SpreadLeft  = "left"
	SpreadRight = "right"
)

// Payload is the type-specific content of a page. The interface is sealed:
// only the payload structs in this package implement it, which keeps the
// page-type union closed and statically checkable.
type Payload interface {
	PageType() PageType
}

// CoverPayload is the front cover content.
type CoverPayload struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	HeroAssetID string `json:"hero_asset_id,omitempty"`
}

// TitlePayload restates the title, date range and headline stats as text.
type TitlePayload struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	DayCount   int    `json:"day_count"`
	PhotoCount int    `json:"photo_count"`
}

// TripSummaryPayload carries the whole-trip statistics page.
type TripSummaryPayload struct {
	DayCount      int    `json:"day_count"`
	PhotoCount    int    `json:"photo_count"`
	EventCount    int    `json:"event_count"`
	GPSPhotoCount int    `json:"gps_photo_count"`
	LocationCount int    `json:"location_count"`
	Blurb         string `json:"blurb,omitempty"`
}

// MapRoutePayload references the rendered route map image.
type MapRoutePayload struct {
	ImagePath    string `json:"image_path"`
	AbsolutePath string `json:"absolute_path,omitempty"`
	PointCount   int    `json:"point_count"`
}

// DayIntroPayload opens one day's block of pages.
type DayIntroPayload struct {
	DayIndex       int     `json:"day_index"` // 1-based
	Date           string  `json:"date,omitempty"`
	PhotoCount     int     `json:"photo_count"`
	SegmentCount   int     `json:"segment_count"`
	TravelSegments int     `json:"travel_segments"`
	LocalSegments  int     `json:"local_segments"`
	DistanceKm     float64 `json:"distance_km"`
	DurationHours  float64 `json:"duration_hours"`
	Tagline        string  `json:"tagline,omitempty"`
	Location       string  `json:"location,omitempty"`
}

// GridPayload is a page of photos arranged by a named layout and variant.
type GridPayload struct {
	AssetIDs     []string `json:"asset_ids"`
	Layout       string   `json:"layout"`
	Variant      string   `json:"layout_variant"`
	Highlight    bool     `json:"highlight,omitempty"`
	SegmentIndex int      `json:"segment_index,omitempty"` // 1-based, 0 = none
}

// SpreadPayload is one half of the two-page photo spread.
type SpreadPayload struct {
	HeroAssetID string `json:"hero_asset_id"`
}

// FullPhotoPayload is a single full-bleed photo page.
type FullPhotoPayload struct {
	AssetID string `json:"asset_id"`
}

// BackCoverPayload closes the book.
type BackCoverPayload struct {
	Text       string `json:"text"`
	PhotoCount int    `json:"photo_count"`
}

// BlankPayload fills a parity gap before a spread.
type BlankPayload struct{}

func (CoverPayload) PageType() PageType       { return PageFrontCover }
func (TitlePayload) PageType() PageType       { return PageTitle }
func (TripSummaryPayload) PageType() PageType { return PageTripSummary }
func (MapRoutePayload) PageType() PageType    { return PageMapRoute }
func (DayIntroPayload) PageType() PageType    { return PageDayIntro }
func (GridPayload) PageType() PageType        { return PagePhotoGrid }
func (SpreadPayload) PageType() PageType      { return PagePhotoSpread }
func (FullPhotoPayload) PageType() PageType   { return PagePhotoFull }
func (BackCoverPayload) PageType() PageType   { return PageBackCover }
func (BlankPayload) PageType() PageType       { return PageBlank }

// Page is one unit of book output.
type Page struct {
	Index      int
	Type       PageType
	SpreadSlot string // "left"/"right" on spread halves, otherwise empty
	Payload    Payload
}

// NewPage builds a page whose type tag matches its payload.
func NewPage(payload Payload) Page {
	return Page{Type: payload.PageType(), Payload: payload}
}

// AssetIDs returns every asset id referenced by the page payload.
func (p Page) AssetIDs() []string {
	switch pl := p.Payload.(type) {
	case CoverPayload:
		if pl.HeroAssetID != "" {
			return []string{pl.HeroAssetID}
		}
		return nil
	case GridPayload:
		return pl.AssetIDs
	case SpreadPayload:
		return []string{pl.HeroAssetID}
	case FullPhotoPayload:
		return []string{pl.AssetID}
	case TitlePayload, TripSummaryPayload, MapRoutePayload, DayIntroPayload, BackCoverPayload, BlankPayload:
		return nil
	default:
		return nil
	}
}

type pageJSON struct {
	Index      int      `json:"index"`
	PageType   PageType `json:"page_type"`
	SpreadSlot string   `json:"spread_slot,omitempty"`
	Payload    Payload  `json:"payload"`
}

// MarshalJSON emits the wire shape {index, page_type, spread_slot, payload}.
func (p Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(pageJSON{
		Index:      p.Index,
		PageType:   p.Type,
		SpreadSlot: p.SpreadSlot,
		Payload:    p.Payload,
	})
}

// UnmarshalJSON decodes a page, dispatching the payload on page_type.
func (p *Page) UnmarshalJSON(data []byte) error {
	var raw struct {
		Index      int             `json:"index"`
		PageType   PageType        `json:"page_type"`
		SpreadSlot string          `json:"spread_slot"`
		Payload    json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Index = raw.Index
	p.Type = raw.PageType
	p.SpreadSlot = raw.SpreadSlot

	var payload Payload
	var err error
	switch raw.PageType {
	case PageFrontCover:
		var v CoverPayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PageTitle:
		var v TitlePayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PageTripSummary:
		var v TripSummaryPayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PageMapRoute:
		var v MapRoutePayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PageDayIntro:
		var v DayIntroPayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PagePhotoGrid:
		var v GridPayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PagePhotoSpread:
		var v SpreadPayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PagePhotoFull:
		var v FullPhotoPayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PageBackCover:
		var v BackCoverPayload
		err = unmarshalPayload(raw.Payload, &v)
		payload = v
	case PageBlank:
		payload = BlankPayload{}
	default:
		return fmt.Errorf("unknown page type: %q", raw.PageType)
	}
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", raw.PageType, err)
	}
	p.Payload = payload
	return nil
}

func unmarshalPayload(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
