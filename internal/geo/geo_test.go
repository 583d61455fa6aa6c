package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{"same point", 50.08, 14.43, 50.08, 14.43, 0, 0.001},
		{"prague to brno", 50.0755, 14.4378, 49.1951, 16.6068, 185.0, 5.0},
		{"one degree latitude", 0, 0, 1, 0, 111.19, 0.5},
		{"across the date line", 0, 179.5, 0, -179.5, 111.19, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm = %.3f, want %.3f ± %.3f", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestPolylineKm(t *testing.T) {
	if got := PolylineKm(nil); got != 0 {
		t.Errorf("empty polyline: got %.3f, want 0", got)
	}
	if got := PolylineKm([]Point{{Lat: 50, Lon: 14}}); got != 0 {
		t.Errorf("single point: got %.3f, want 0", got)
	}

	// Two one-degree latitude hops should sum to two single hops.
	line := []Point{{0, 0}, {1, 0}, {2, 0}}
	single := HaversineKm(0, 0, 1, 0)
	got := PolylineKm(line)
	if math.Abs(got-2*single) > 0.01 {
		t.Errorf("polyline: got %.3f, want %.3f", got, 2*single)
	}
}

func TestCentroid(t *testing.T) {
	if _, ok := Centroid(nil); ok {
		t.Error("centroid of empty slice should not exist")
	}

	c, ok := Centroid([]Point{{Lat: 0, Lon: 0}, {Lat: 2, Lon: 4}})
	if !ok {
		t.Fatal("expected centroid")
	}
	if math.Abs(c.Lat-1) > 1e-9 || math.Abs(c.Lon-2) > 1e-9 {
		t.Errorf("centroid = (%.4f, %.4f), want (1, 2)", c.Lat, c.Lon)
	}
}
