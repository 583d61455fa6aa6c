package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/trip-press/internal/database"
)

// AssetsHandler handles bulk photo registration for a book
type AssetsHandler struct {
	store database.Store
}

// NewAssetsHandler creates a new assets handler
func NewAssetsHandler(store database.Store) *AssetsHandler {
	return &AssetsHandler{store: store}
}

type assetRequest struct {
	ID      string   `json:"id"`
	TakenAt string   `json:"taken_at,omitempty"` // RFC 3339, empty if unknown
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

type assetsRequest struct {
	Assets []assetRequest `json:"assets"`
}

// ReplaceAssets replaces the full photo set of a book. Photos arrive in
// selection order; ordering by capture time happens at planning time.
func (h *AssetsHandler) ReplaceAssets(w http.ResponseWriter, r *http.Request) {
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

	var req assetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	assets := make([]database.StoredAsset, 0, len(req.Assets))
	seen := make(map[string]bool, len(req.Assets))
	for _, a := range req.Assets {
		if a.ID == "" {
			respondError(w, http.StatusBadRequest, "asset id is required")
			return
		}
		if seen[a.ID] {
			respondError(w, http.StatusBadRequest, "duplicate asset id: "+a.ID)
			return
		}
		seen[a.ID] = true

		stored := database.StoredAsset{
			ID:     a.ID,
			BookID: id,
			Width:  a.Width,
			Height: a.Height,
			Lat:    a.Lat,
			Lon:    a.Lon,
		}
		if a.TakenAt != "" {
			ts, err := time.Parse(time.RFC3339, a.TakenAt)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid taken_at for asset "+a.ID)
				return
			}
			stored.TakenAt = &ts
		}
		if (a.Lat == nil) != (a.Lon == nil) {
			respondError(w, http.StatusBadRequest, "lat and lon must be set together for asset "+a.ID)
			return
		}
		assets = append(assets, stored)
	}

	if err := h.store.ReplaceAssets(r.Context(), id, assets); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store assets")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"asset_count": len(assets)})
}

// ListAssets returns the registered photos of a book.
func (h *AssetsHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
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

	assets, err := h.store.ListAssets(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}

	out := make([]assetRequest, 0, len(assets))
	for _, a := range assets {
		item := assetRequest{
			ID:     a.ID,
			Width:  a.Width,
			Height: a.Height,
			Lat:    a.Lat,
			Lon:    a.Lon,
		}
		if a.TakenAt != nil {
			item.TakenAt = a.TakenAt.Format(time.RFC3339)
		}
		out = append(out, item)
	}
	respondJSON(w, http.StatusOK, map[string]any{"assets": out})
}
