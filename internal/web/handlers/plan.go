package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/trip-press/internal/book"
	"github.com/kozaktomas/trip-press/internal/database"
	"github.com/kozaktomas/trip-press/internal/geo"
	"github.com/kozaktomas/trip-press/internal/geocode"
	"github.com/kozaktomas/trip-press/internal/planner"
	"github.com/kozaktomas/trip-press/internal/timeline"
)

// Geocoder resolves coordinates to a human-readable place label.
// The second return is false when no label could be resolved.
type Geocoder interface {
	ReverseLabel(ctx context.Context, lat, lon float64) (geocode.PlaceLabel, bool)
}

// PlanHandler runs the planning pipeline and stores the result
type PlanHandler struct {
	store    database.Store
	planner  *planner.Planner
	geocoder Geocoder
}

// NewPlanHandler creates a new plan handler. geocoder may be nil, day
// intros then keep an empty location.
func NewPlanHandler(store database.Store, pl *planner.Planner, geocoder Geocoder) *PlanHandler {
	return &PlanHandler{store: store, planner: pl, geocoder: geocoder}
}

type planRequest struct {
	IncludeSpread bool `json:"include_spread"`
}

// CreatePlan plans the book from its registered photos and stores the
// resulting page sequence, replacing any previous plan.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := h.store.GetBook(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load book")
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}

	// The request body is optional.
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	stored, err := h.store.ListAssets(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}

	assets := make([]book.Asset, 0, len(stored))
	for _, a := range stored {
		assets = append(assets, a.Asset())
	}
	lookup := book.NewLookup(assets)
	days := timeline.BuildDays(assets)

	plan := h.planner.Plan(planner.Input{
		BookID: b.ID,
		Title:  b.Title,
		Size:   b.Size,
		Days:   days,
		Lookup: lookup,
	}, planner.Options{IncludeSpread: req.IncludeSpread})

	h.labelDayIntros(r.Context(), &plan, days, lookup)

	raw, err := json.Marshal(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode plan")
		return
	}
	if err := h.store.SavePlan(r.Context(), &database.StoredPlan{BookID: b.ID, Plan: raw}); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store plan")
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// GetPlan returns the stored plan of a book.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := h.store.GetBook(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load book")
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}

	plan, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load plan")
		return
	}
	if plan == nil {
		respondError(w, http.StatusNotFound, "book has no plan yet")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(plan.Plan)
}

// labelDayIntros resolves each day's GPS centroid to a short place label
// on its intro page. Geocoding failures leave the location empty.
func (h *PlanHandler) labelDayIntros(ctx context.Context, plan *book.Book, days []book.Day, lookup book.Lookup) {
	if h.geocoder == nil {
		return
	}

	labels := make(map[int]string, len(days))
	for i, day := range days {
		var points []geo.Point
		for _, id := range day.AssetIDs {
			a, ok := lookup[id]
			if !ok || !a.HasGPS() {
				continue
			}
			points = append(points, geo.Point{Lat: *a.Lat, Lon: *a.Lon})
		}
		center, ok := geo.Centroid(points)
		if !ok {
			continue
		}
		if label, ok := h.geocoder.ReverseLabel(ctx, center.Lat, center.Lon); ok {
			labels[i+1] = label.ShortLabel()
		}
	}
	if len(labels) == 0 {
		return
	}

	for i, page := range plan.Pages {
		intro, ok := page.Payload.(book.DayIntroPayload)
		if !ok {
			continue
		}
		if label, ok := labels[intro.DayIndex]; ok {
			intro.Location = label
			plan.Pages[i].Payload = intro
		}
	}
}
