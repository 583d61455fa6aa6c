package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestPlaceLabel_ShortLabel(t *testing.T) {
	tests := []struct {
		name  string
		label PlaceLabel
		want  string
	}{
		{"city and state", PlaceLabel{City: "Chicago", State: "Illinois", Country: "United States"}, "Chicago, Illinois"},
		{"city and country", PlaceLabel{City: "Praha", Country: "Česko"}, "Praha, Česko"},
		{"state and country", PlaceLabel{State: "Bayern", Country: "Deutschland"}, "Bayern, Deutschland"},
		{"city only", PlaceLabel{City: "Oslo"}, "Oslo"},
		{"country only", PlaceLabel{Country: "Iceland"}, "Iceland"},
		{"empty", PlaceLabel{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.label.ShortLabel(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Chicago, Illinois, United States", "chicago, illinois"},
		{"Plzeň, Česko", "plzen, cesko"},
		{"  Oslo ", "oslo"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.label); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestCache_RoundTrip(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "places.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	if _, ok := cache.Get(50.088, 14.421); ok {
		t.Fatal("unexpected cache hit")
	}

	label := PlaceLabel{City: "Praha", Country: "Česko"}
	if err := cache.Put(50.088, 14.421, label); err != nil {
		t.Fatal(err)
	}

	got, ok := cache.Get(50.088, 14.421)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != label {
		t.Errorf("got %+v, want %+v", got, label)
	}

	// A photo a few meters away lands in the same quantized cell.
	if _, ok := cache.Get(50.0882, 14.4208); !ok {
		t.Error("expected hit for nearby coordinate")
	}
}

func TestClient_ReverseLabel(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": {"town": "Cesky Krumlov", "state": "Jihocesky kraj", "country": "Czechia"}}`))
	}))
	defer server.Close()

	c := NewClient("test-agent/1.0", nil)
	c.baseURL = server.URL

	label, ok := c.ReverseLabel(context.Background(), 48.811, 14.315)
	if !ok {
		t.Fatal("expected a label")
	}
	if label.ShortLabel() != "Cesky Krumlov, Jihocesky kraj" {
		t.Errorf("short label = %q", label.ShortLabel())
	}
	if gotUA != "test-agent/1.0" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestClient_ReverseLabelUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"address": {"city": "Brno", "country": "Czechia"}}`))
	}))
	defer server.Close()

	cache, err := NewCache(filepath.Join(t.TempDir(), "places.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	c := NewClient("test-agent/1.0", cache)
	c.baseURL = server.URL

	if _, ok := c.ReverseLabel(context.Background(), 49.195, 16.608); !ok {
		t.Fatal("expected a label")
	}
	if _, ok := c.ReverseLabel(context.Background(), 49.195, 16.608); !ok {
		t.Fatal("expected a cached label")
	}
	if calls != 1 {
		t.Errorf("upstream calls = %d, want 1", calls)
	}
}

func TestClient_ServerErrorReturnsNoLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient("test-agent/1.0", nil)
	c.baseURL = server.URL

	if _, ok := c.ReverseLabel(context.Background(), 1, 2); ok {
		t.Error("expected no label on server error")
	}
}
