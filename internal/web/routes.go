package web

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/trip-press/internal/database"
	"github.com/kozaktomas/trip-press/internal/planner"
	"github.com/kozaktomas/trip-press/internal/web/handlers"
)

func (s *Server) setupRoutes(store database.Store, pl *planner.Planner, geocoder handlers.Geocoder) {
	booksHandler := handlers.NewBooksHandler(store, s.config.Sizes.Capacities())
	assetsHandler := handlers.NewAssetsHandler(store)
	planHandler := handlers.NewPlanHandler(store, pl, geocoder)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/books", booksHandler.ListBooks)
		r.Post("/books", booksHandler.CreateBook)
		r.Get("/books/{id}", booksHandler.GetBook)
		r.Put("/books/{id}", booksHandler.UpdateBook)
		r.Delete("/books/{id}", booksHandler.DeleteBook)

		r.Get("/books/{id}/assets", assetsHandler.ListAssets)
		r.Put("/books/{id}/assets", assetsHandler.ReplaceAssets)

		r.Post("/books/{id}/plan", planHandler.CreatePlan)
		r.Get("/books/{id}/plan", planHandler.GetPlan)
	})

	// Rendered route maps referenced by map_route pages.
	mapsDir := filepath.Join(s.config.Storage.DataDir, "maps")
	s.router.Handle("/maps/*", http.StripPrefix("/maps/", http.FileServer(http.Dir(mapsDir))))
}
