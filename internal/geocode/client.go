package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	nominatimBaseURL = "https://nominatim.openstreetmap.org/reverse"
	// minInterval spaces out upstream requests per the Nominatim usage policy.
	minInterval       = 1100 * time.Millisecond
	fallbackUserAgent = "trip-press/0.1 (contact: example@example.com)"
	requestTimeout    = 5 * time.Second
)

// Client reverse-geocodes coordinates against Nominatim. All lookups go
// through the cache first; upstream calls are globally rate limited.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cache      *Cache

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient builds a client. userAgent should identify the deployment per
// the Nominatim policy; empty falls back to a generic agent. cache may be
// nil, which disables caching.
func NewClient(userAgent string, cache *Cache) *Client {
	if userAgent == "" {
		log.Printf("WARNING: nominatim user agent not configured, using fallback")
		userAgent = fallbackUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    nominatimBaseURL,
		userAgent:  userAgent,
		cache:      cache,
	}
}

// nominatimResponse is the subset of the jsonv2 reverse response we read.
type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Hamlet  string `json:"hamlet"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// ReverseLabel resolves a coordinate to a place label. The zero label with
// ok=false means the place could not be resolved; network and decoding
// failures are logged, never returned, so callers can treat labels as
// strictly optional decoration.
func (c *Client) ReverseLabel(ctx context.Context, lat, lon float64) (PlaceLabel, bool) {
	lat, lon = roundCoord(lat), roundCoord(lon)

	if c.cache != nil {
		if label, ok := c.cache.Get(lat, lon); ok {
			return label, label.ShortLabel() != ""
		}
	}

	label, err := c.fetch(ctx, lat, lon)
	if err != nil {
		log.Printf("WARNING: reverse geocode failed for %.3f,%.3f: %v", lat, lon, err)
		return PlaceLabel{}, false
	}

	if c.cache != nil {
		if err := c.cache.Put(lat, lon, label); err != nil {
			log.Printf("WARNING: could not cache place label: %v", err)
		}
	}
	return label, label.ShortLabel() != ""
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (PlaceLabel, error) {
	c.throttle(ctx)

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", fmt.Sprintf("%.3f", lat))
	params.Set("lon", fmt.Sprintf("%.3f", lon))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return PlaceLabel{}, fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PlaceLabel{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return PlaceLabel{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return PlaceLabel{}, fmt.Errorf("could not decode response: %w", err)
	}

	city := decoded.Address.City
	if city == "" {
		city = decoded.Address.Town
	}
	if city == "" {
		city = decoded.Address.Village
	}
	if city == "" {
		city = decoded.Address.Hamlet
	}
	return PlaceLabel{
		City:    city,
		State:   decoded.Address.State,
		Country: decoded.Address.Country,
	}, nil
}

// throttle blocks until the minimum interval since the previous upstream
// call has passed or the context is cancelled.
func (c *Client) throttle(ctx context.Context) {
	c.mu.Lock()
	now := time.Now()
	wait := minInterval - now.Sub(c.lastCall)
	if wait < 0 {
		wait = 0
	}
	c.lastCall = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

// roundCoord limits request diversity before caching and lookups.
func roundCoord(v float64) float64 {
	return math.Round(v*1000) / 1000
}
