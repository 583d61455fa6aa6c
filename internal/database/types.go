package database

import (
	"encoding/json"
	"time"

	"github.com/kozaktomas/trip-press/internal/book"
)

// StoredBook represents a photo book project stored in the database
type StoredBook struct {
	ID        string
	Title     string
	Size      book.Size
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoredAsset represents an approved photo registered for a book.
// Optional metadata columns map to nil when unknown.
type StoredAsset struct {
	ID        string
	BookID    string
	TakenAt   *time.Time
	Width     int
	Height    int
	Lat       *float64
	Lon       *float64
	CreatedAt time.Time
}

// Asset converts the stored row to the planning-core asset.
func (a StoredAsset) Asset() book.Asset {
	return book.Asset{
		ID:      a.ID,
		TakenAt: a.TakenAt,
		Width:   a.Width,
		Height:  a.Height,
		Lat:     a.Lat,
		Lon:     a.Lon,
	}
}

// StoredPlan represents the latest planned page sequence of a book,
// serialized as JSON.
type StoredPlan struct {
	BookID    string
	Plan      json.RawMessage
	CreatedAt time.Time
}

// Decode unmarshals the stored plan JSON.
func (p StoredPlan) Decode() (book.Book, error) {
	var b book.Book
	if err := json.Unmarshal(p.Plan, &b); err != nil {
		return book.Book{}, err
	}
	return b, nil
}
