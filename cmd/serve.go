package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/trip-press/internal/config"
	"github.com/kozaktomas/trip-press/internal/database/postgres"
	"github.com/kozaktomas/trip-press/internal/geocode"
	"github.com/kozaktomas/trip-press/internal/maprender"
	"github.com/kozaktomas/trip-press/internal/planner"
	"github.com/kozaktomas/trip-press/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Trip Press web server.
The server exposes a JSON API for managing book projects, registering
photos and running the planning pipeline.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	fmt.Printf("Connecting to PostgreSQL database...\n")
	if err := postgres.Initialize(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	pool := postgres.GetGlobalPool()
	defer pool.Close()

	store := postgres.NewRepositories(pool)

	renderer, err := maprender.New(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to set up map renderer: %w", err)
	}
	pl := planner.New(renderer, cfg.Sizes.Capacities())

	cache, err := geocode.NewCache(cfg.Geocoding.CachePath)
	if err != nil {
		fmt.Printf("Warning: place cache unavailable, geocoding uncached: %v\n", err)
		cache = nil
	} else {
		defer cache.Close()
	}
	geocoder := geocode.NewClient(cfg.Geocoding.UserAgent, cache)

	server := web.NewServer(cfg, store, pl, geocoder)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Trip Press API on http://%s\n", cfg.Server.Addr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
