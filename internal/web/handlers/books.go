package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/trip-press/internal/book"
	"github.com/kozaktomas/trip-press/internal/database"
)

// BooksHandler handles book project endpoints
type BooksHandler struct {
	store database.Store
	sizes map[book.Size]int
}

// NewBooksHandler creates a new books handler. sizes is the set of
// supported print sizes with their photos-per-page capacities.
func NewBooksHandler(store database.Store, sizes map[book.Size]int) *BooksHandler {
	return &BooksHandler{store: store, sizes: sizes}
}

type bookRequest struct {
	Title string `json:"title"`
	Size  string `json:"size"`
}

type bookResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Size       string `json:"size"`
	AssetCount int    `json:"asset_count"`
	HasPlan    bool   `json:"has_plan"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func (h *BooksHandler) validSize(size string) bool {
	_, ok := h.sizes[book.Size(size)]
	return ok
}

func (h *BooksHandler) toResponse(r *http.Request, b database.StoredBook) bookResponse {
	count, err := h.store.CountAssets(r.Context(), b.ID)
	if err != nil {
		count = 0
	}
	plan, err := h.store.GetPlan(r.Context(), b.ID)
	hasPlan := err == nil && plan != nil
	return bookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Size:       string(b.Size),
		AssetCount: count,
		HasPlan:    hasPlan,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  b.UpdatedAt.Format(time.RFC3339),
	}
}

// ListBooks returns all book projects.
func (h *BooksHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list books")
		return
	}
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, h.toResponse(r, b))
	}
	respondJSON(w, http.StatusOK, map[string]any{"books": out})
}

// CreateBook creates a new book project.
func (h *BooksHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !h.validSize(req.Size) {
		respondError(w, http.StatusBadRequest, "unsupported book size")
		return
	}

	b := &database.StoredBook{Title: req.Title, Size: book.Size(req.Size)}
	if err := h.store.CreateBook(r.Context(), b); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create book")
		return
	}
	respondJSON(w, http.StatusCreated, h.toResponse(r, *b))
}

// GetBook returns one book project.
func (h *BooksHandler) GetBook(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, h.toResponse(r, *b))
}

// UpdateBook updates the title and size of a book project.
func (h *BooksHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
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

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Title != "" {
		b.Title = req.Title
	}
	if req.Size != "" {
		if !h.validSize(req.Size) {
			respondError(w, http.StatusBadRequest, "unsupported book size")
			return
		}
		b.Size = book.Size(req.Size)
	}

	if err := h.store.UpdateBook(r.Context(), b); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update book")
		return
	}
	respondJSON(w, http.StatusOK, h.toResponse(r, *b))
}

// DeleteBook removes a book project with its assets and plan.
func (h *BooksHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
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
	if err := h.store.DeleteBook(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete book")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
