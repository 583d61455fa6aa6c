package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/trip-press/internal/book"
)

//go:embed sizes.yaml
var sizesYAML []byte

type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Geocoding GeocodingConfig
	Storage   StorageConfig
	Sizes     SizesConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type ServerConfig struct {
	Addr string // listen address, defaults to :8080
}

type GeocodingConfig struct {
	UserAgent string // Nominatim User-Agent, per the usage policy
	CachePath string // sqlite cache file, defaults to <data>/places_cache.sqlite
}

type StorageConfig struct {
	DataDir string // root for generated artifacts (route maps, caches)
}

type SizesConfig struct {
	Sizes map[string]SizeSpec `yaml:"sizes"`
}

type SizeSpec struct {
	PhotosPerPage int `yaml:"photos_per_page"`
}

// Capacities maps the configured book sizes to their photos-per-page limits.
func (s SizesConfig) Capacities() map[book.Size]int {
	out := make(map[book.Size]int, len(s.Sizes))
	for name, spec := range s.Sizes {
		if spec.PhotosPerPage > 0 {
			out[book.Size(name)] = spec.PhotosPerPage
		}
	}
	return out
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var sizes SizesConfig
	if err := yaml.Unmarshal(sizesYAML, &sizes); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded sizes.yaml: " + err.Error())
	}

	dataDir := envString("DATA_DIR", "data")

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Server: ServerConfig{
			Addr: envString("SERVER_ADDR", ":8080"),
		},
		Geocoding: GeocodingConfig{
			UserAgent: os.Getenv("NOMINATIM_USER_AGENT"),
			CachePath: envString("PLACES_CACHE_PATH", dataDir+"/places_cache.sqlite"),
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Sizes: sizes,
	}
}
