package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/trip-press/internal/book"
	"github.com/kozaktomas/trip-press/internal/config"
	"github.com/kozaktomas/trip-press/internal/geo"
	"github.com/kozaktomas/trip-press/internal/geocode"
	"github.com/kozaktomas/trip-press/internal/maprender"
	"github.com/kozaktomas/trip-press/internal/planner"
	"github.com/kozaktomas/trip-press/internal/timeline"
)

var planCmd = &cobra.Command{
	Use:   "plan [manifest-file]",
	Short: "Plan a photo book from a photo manifest",
	Long: `Plan a photo book from a JSON manifest of approved photos.
The manifest lists photo ids with optional capture timestamps, pixel
dimensions and GPS coordinates. The resulting plan is written as JSON
to stdout or to the --output file.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().String("title", "", "Book title (defaults to the manifest title)")
	planCmd.Flags().String("size", "8x8", "Book size (e.g. 8x8, 10x10, 11x14)")
	planCmd.Flags().Bool("spread", false, "Include the two-page photo spread")
	planCmd.Flags().Bool("geocode", false, "Resolve day locations via Nominatim (network access, throttled)")
	planCmd.Flags().String("output", "", "Write the plan JSON to this file instead of stdout")
}

// manifest is the CLI input format: one book worth of photos.
type manifest struct {
	Title  string          `json:"title"`
	Assets []manifestAsset `json:"assets"`
}

type manifestAsset struct {
	ID      string   `json:"id"`
	TakenAt string   `json:"taken_at,omitempty"` // RFC 3339
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

func (m *manifest) bookAssets() ([]book.Asset, error) {
	assets := make([]book.Asset, 0, len(m.Assets))
	seen := make(map[string]bool, len(m.Assets))
	for _, a := range m.Assets {
		if a.ID == "" {
			return nil, fmt.Errorf("manifest asset without id")
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate asset id %q", a.ID)
		}
		seen[a.ID] = true

		asset := book.Asset{ID: a.ID, Width: a.Width, Height: a.Height, Lat: a.Lat, Lon: a.Lon}
		if a.TakenAt != "" {
			ts, err := time.Parse(time.RFC3339, a.TakenAt)
			if err != nil {
				return nil, fmt.Errorf("asset %s: invalid taken_at: %w", a.ID, err)
			}
			asset.TakenAt = &ts
		}
		if (a.Lat == nil) != (a.Lon == nil) {
			return nil, fmt.Errorf("asset %s: lat and lon must be set together", a.ID)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	m, err := loadManifest(args[0])
	if err != nil {
		return err
	}

	title := mustGetString(cmd, "title")
	if title == "" {
		title = m.Title
	}
	if title == "" {
		title = "Untitled Trip"
	}

	size := book.Size(mustGetString(cmd, "size"))
	capacities := cfg.Sizes.Capacities()
	if _, ok := capacities[size]; !ok {
		return fmt.Errorf("unsupported book size %q", size)
	}

	assets, err := m.bookAssets()
	if err != nil {
		return err
	}
	lookup := book.NewLookup(assets)
	days := timeline.BuildDays(assets)

	renderer, err := maprender.New(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to set up map renderer: %w", err)
	}

	pl := planner.New(renderer, capacities)
	plan := pl.Plan(planner.Input{
		BookID: "cli",
		Title:  title,
		Size:   size,
		Days:   days,
		Lookup: lookup,
	}, planner.Options{IncludeSpread: mustGetBool(cmd, "spread")})

	if mustGetBool(cmd, "geocode") {
		labelDays(cmd.Context(), cfg, &plan, days, lookup)
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	if output := mustGetString(cmd, "output"); output != "" {
		if err := os.WriteFile(output, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Plan with %d pages written to %s\n", len(plan.Pages), output)
		return nil
	}

	fmt.Println(string(out))
	return nil
}

// labelDays resolves each day's GPS centroid to a place label on its intro
// page. Nominatim is throttled to one request per second, so show progress.
func labelDays(ctx context.Context, cfg *config.Config, plan *book.Book, days []book.Day, lookup book.Lookup) {
	cache, err := geocode.NewCache(cfg.Geocoding.CachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: place cache unavailable, geocoding uncached: %v\n", err)
		cache = nil
	} else {
		defer cache.Close()
	}
	client := geocode.NewClient(cfg.Geocoding.UserAgent, cache)

	bar := progressbar.NewOptions(len(days),
		progressbar.OptionSetDescription("Resolving locations"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("days"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWriter(os.Stderr),
	)

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
		if center, ok := geo.Centroid(points); ok {
			if label, ok := client.ReverseLabel(ctx, center.Lat, center.Lon); ok {
				labels[i+1] = label.ShortLabel()
			}
		}
		bar.Add(1)
	}
	fmt.Fprintln(os.Stderr)

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
