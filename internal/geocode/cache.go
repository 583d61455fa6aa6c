package geocode

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// defaultTTL keeps cached lookups for 30 days; places rarely move.
const defaultTTL = 30 * 24 * time.Hour

// Cache is a sqlite-backed reverse-geocoding cache keyed by quantized
// coordinates.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewCache opens or creates the cache database at dbPath.
func NewCache(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("could not open cache db: %w", err)
	}
	c := &Cache{db: db, ttl: defaultTTL}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate cache db: %w", err)
	}
	return c, nil
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS place_cache (
			key_lat    REAL NOT NULL,
			key_lon    REAL NOT NULL,
			label_json TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (key_lat, key_lon)
		)`)
	return err
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached label for the quantized coordinate, or ok=false on
// a miss or an expired entry.
func (c *Cache) Get(lat, lon float64) (PlaceLabel, bool) {
	keyLat, keyLon := quantize(lat), quantize(lon)
	var labelJSON string
	var createdAt int64
	err := c.db.QueryRow(
		`SELECT label_json, created_at FROM place_cache WHERE key_lat = ? AND key_lon = ?`,
		keyLat, keyLon,
	).Scan(&labelJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PlaceLabel{}, false
	}
	if err != nil {
		return PlaceLabel{}, false
	}
	if time.Since(time.Unix(createdAt, 0)) > c.ttl {
		return PlaceLabel{}, false
	}
	var label PlaceLabel
	if err := json.Unmarshal([]byte(labelJSON), &label); err != nil {
		return PlaceLabel{}, false
	}
	return label, true
}

// Put stores the label under the quantized coordinate, replacing any
// previous entry.
func (c *Cache) Put(lat, lon float64, label PlaceLabel) error {
	labelJSON, err := json.Marshal(label)
	if err != nil {
		return fmt.Errorf("could not marshal place label: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO place_cache (key_lat, key_lon, label_json, created_at)
		 VALUES (?, ?, ?, ?)`,
		quantize(lat), quantize(lon), string(labelJSON), time.Now().Unix(),
	)
	return err
}

// quantize snaps a coordinate to a ~100 m grid so nearby photos share one
// cache entry.
func quantize(v float64) float64 {
	const step = 0.001
	return math.Round(v/step) * step
}
