// Package maprender draws the schematic route-map PNG for the map page. The
// map is not a street map: it plots the trip's dominant cluster of GPS points
// as a padded polyline with start and end markers on a plain background.
package maprender

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/draw"

	"github.com/kozaktomas/trip-press/internal/geo"
)

const (
	canvasWidth  = 1600
	canvasHeight = 1000
	// supersample renders at 2x and scales down for smooth edges.
	supersample = 2

	// clusterRadiusKm groups points around the trip's dominant area.
	clusterRadiusKm = 40.0
	// simplify parameters: cap the polyline and drop near-duplicate points.
	maxRoutePoints   = 200
	minPointDistKm   = 0.05
	paddingRatio     = 0.15
	minSpanDeg       = 0.01
	minSpanRatio     = 0.3
	lineWidthPx      = 6
	markerRadiusPx   = 10
)

var (
	background  = color.RGBA{0xf6, 0xf8, 0xfa, 0xff}
	routeBlue   = color.RGBA{0x2e, 0x8b, 0xc0, 0xff}
	startGreen  = color.RGBA{0x3c, 0xb3, 0x71, 0xff}
	startBorder = color.RGBA{0x1f, 0x7a, 0x4d, 0xff}
	endRed      = color.RGBA{0xe6, 0x39, 0x46, 0xff}
	endBorder   = color.RGBA{0xb2, 0x22, 0x34, 0xff}
)

// Renderer writes route maps under outputDir and reports paths relative to
// baseDir (the static mount root). It satisfies the planner's RouteRenderer.
type Renderer struct {
	baseDir   string
	outputDir string
}

// New prepares a renderer rooted at dataDir; maps go to dataDir/maps.
func New(dataDir string) (*Renderer, error) {
	outputDir := filepath.Join(dataDir, "maps")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create map output dir: %w", err)
	}
	return &Renderer{baseDir: dataDir, outputDir: outputDir}, nil
}

// RenderRouteMap draws the schematic map for the given ordered points and
// returns (relative, absolute) paths. Any failure returns empty paths and a
// nil or non-nil error; callers must treat empty paths as "no map page".
func (r *Renderer) RenderRouteMap(bookID string, points []geo.Point) (string, string, error) {
	if len(points) < 2 {
		return "", "", nil
	}

	core := DominantRoute(points)
	route := SimplifyRoute(core, maxRoutePoints, minPointDistKm)
	if len(route) < 2 {
		return "", "", nil
	}

	img := drawRoute(route)

	filename := fmt.Sprintf("book_%s_route.png", bookID)
	outputPath := filepath.Join(r.outputDir, filename)
	f, err := os.Create(outputPath)
	if err != nil {
		return "", "", fmt.Errorf("could not create map file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", "", fmt.Errorf("could not encode map png: %w", err)
	}

	rel, err := filepath.Rel(r.baseDir, outputPath)
	if err != nil {
		rel = filename
	}
	abs, err := filepath.Abs(outputPath)
	if err != nil {
		abs = outputPath
	}
	log.Printf("rendered route map for book %s (%d points) to %s", bookID, len(route), rel)
	return rel, abs, nil
}

// DominantRoute keeps the points of the trip's dominant 40 km cluster, in
// their original order, and trims extreme outliers inside it. When clustering
// finds nothing usable the full route is returned.
func DominantRoute(points []geo.Point) []geo.Point {
	clusters := clusterPoints(points, clusterRadiusKm)
	main := dominantCluster(clusters, len(points))
	if len(main) < 2 {
		return points
	}

	center, _ := geo.Centroid(main)
	distances := make([]float64, len(main))
	for i, pt := range main {
		distances[i] = geo.Distance(pt, center)
	}
	maxCore := 3 * median(distances)
	if maxCore < 5.0 {
		maxCore = 5.0
	}

	trimmed := make([]geo.Point, 0, len(main))
	for i, pt := range main {
		if distances[i] <= maxCore {
			trimmed = append(trimmed, pt)
		}
	}
	if len(trimmed) < 2 {
		return main
	}
	return trimmed
}

// clusterPoints groups points greedily: each point joins the first cluster
// whose founding point is within radiusKm, otherwise starts a new one.
func clusterPoints(points []geo.Point, radiusKm float64) [][]geo.Point {
	var clusters [][]geo.Point
	for _, pt := range points {
		placed := false
		for i, cluster := range clusters {
			if geo.Distance(pt, cluster[0]) <= radiusKm {
				clusters[i] = append(cluster, pt)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []geo.Point{pt})
		}
	}
	return clusters
}

// dominantCluster picks the largest cluster; when every cluster is a single
// point the whole route is used instead.
func dominantCluster(clusters [][]geo.Point, total int) []geo.Point {
	if len(clusters) == 0 {
		return nil
	}
	main := clusters[0]
	for _, c := range clusters[1:] {
		if len(c) > len(main) {
			main = c
		}
	}
	if len(main) <= 1 && total > 1 {
		var combined []geo.Point
		for _, c := range clusters {
			combined = append(combined, c...)
		}
		return combined
	}
	return main
}

// SimplifyRoute keeps the endpoints, drops points closer than minDistKm to
// the previously kept one, then downsamples to at most maxPoints.
func SimplifyRoute(points []geo.Point, maxPoints int, minDistKm float64) []geo.Point {
	if len(points) < 2 {
		return points
	}

	simplified := []geo.Point{points[0]}
	last := points[0]
	for _, pt := range points[1 : len(points)-1] {
		if geo.Distance(last, pt) >= minDistKm {
			simplified = append(simplified, pt)
			last = pt
		}
	}
	simplified = append(simplified, points[len(points)-1])

	if len(simplified) > maxPoints {
		step := int(math.Ceil(float64(len(simplified)-2) / float64(maxPoints-2)))
		sampled := []geo.Point{simplified[0]}
		for i := 1; i < len(simplified)-1; i += step {
			sampled = append(sampled, simplified[i])
		}
		simplified = append(sampled, simplified[len(simplified)-1])
	}
	if len(simplified) < 2 {
		return points
	}
	return simplified
}

type bbox struct {
	minLat, maxLat   float64
	minLon, maxLon   float64
	spanLat, spanLon float64
}

// computeBBox pads the route's bounding box and widens very skinny spans so
// straight-line trips still fill the canvas.
func computeBBox(points []geo.Point) bbox {
	b := bbox{
		minLat: points[0].Lat, maxLat: points[0].Lat,
		minLon: points[0].Lon, maxLon: points[0].Lon,
	}
	for _, pt := range points[1:] {
		b.minLat = math.Min(b.minLat, pt.Lat)
		b.maxLat = math.Max(b.maxLat, pt.Lat)
		b.minLon = math.Min(b.minLon, pt.Lon)
		b.maxLon = math.Max(b.maxLon, pt.Lon)
	}

	b.spanLat = math.Max(b.maxLat-b.minLat, minSpanDeg)
	b.spanLon = math.Max(b.maxLon-b.minLon, minSpanDeg)

	maxSpan := math.Max(b.spanLat, b.spanLon)
	minSpan := math.Min(b.spanLat, b.spanLon)
	if minSpan/maxSpan < minSpanRatio {
		if b.spanLat < b.spanLon {
			b.spanLat = maxSpan * minSpanRatio
		} else {
			b.spanLon = maxSpan * minSpanRatio
		}
	}

	b.minLat -= b.spanLat * paddingRatio
	b.maxLat += b.spanLat * paddingRatio
	b.minLon -= b.spanLon * paddingRatio
	b.maxLon += b.spanLon * paddingRatio
	b.spanLat = b.maxLat - b.minLat
	b.spanLon = b.maxLon - b.minLon
	return b
}

func (b bbox) project(pt geo.Point, width, height int) (float64, float64) {
	x := (pt.Lon - b.minLon) / math.Max(b.spanLon, 1e-9)
	y := (b.maxLat - pt.Lat) / math.Max(b.spanLat, 1e-9)
	return x * float64(width), y * float64(height)
}

// drawRoute renders the polyline at 2x and scales down with CatmullRom.
func drawRoute(route []geo.Point) *image.RGBA {
	w, h := canvasWidth*supersample, canvasHeight*supersample
	big := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(big, big.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	b := computeBBox(route)
	coords := make([]image.Point, len(route))
	for i, pt := range route {
		x, y := b.project(pt, w, h)
		coords[i] = image.Point{X: int(x), Y: int(y)}
	}

	for i := 1; i < len(coords); i++ {
		drawLine(big, coords[i-1], coords[i], lineWidthPx*supersample/2, routeBlue)
	}
	drawMarker(big, coords[0], markerRadiusPx*supersample, startGreen, startBorder)
	drawMarker(big, coords[len(coords)-1], markerRadiusPx*supersample, endRed, endBorder)

	dst := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), big, big.Bounds(), draw.Over, nil)
	return dst
}

// drawLine stamps a disc along the segment, giving a round-joined thick line.
func drawLine(dst *image.RGBA, from, to image.Point, radius int, c color.RGBA) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		fillDisc(dst, from, radius, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := from.X + dx*i/steps
		y := from.Y + dy*i/steps
		fillDisc(dst, image.Point{X: x, Y: y}, radius, c)
	}
}

func drawMarker(dst *image.RGBA, center image.Point, radius int, fill, outline color.RGBA) {
	fillDisc(dst, center, radius, outline)
	fillDisc(dst, center, radius-2*supersample, fill)
}

func fillDisc(dst *image.RGBA, center image.Point, radius int, c color.RGBA) {
	bounds := dst.Bounds()
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := center.X - radius; x <= center.X+radius; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			ddx, ddy := x-center.X, y-center.Y
			if ddx*ddx+ddy*ddy <= radius*radius {
				dst.SetRGBA(x, y, c)
			}
		}
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
