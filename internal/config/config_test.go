package config

import (
	"os"
	"testing"

	"github.com/kozaktomas/trip-press/internal/book"
)

func TestLoad_EmbeddedSizes(t *testing.T) {
	cfg := Load()

	capacities := cfg.Sizes.Capacities()
	want := map[book.Size]int{
		book.SizeSquare8:   4,
		book.SizeSquare10:  6,
		book.SizePortrait:  4,
		book.SizeLandscape: 6,
		book.SizeLarge:     9,
	}
	for size, capacity := range want {
		if got := capacities[size]; got != capacity {
			t.Errorf("capacity for %s = %d, want %d", size, got, capacity)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_ADDR")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("DATABASE_MAX_OPEN_CONNS")

	cfg := Load()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Storage.DataDir != "data" {
		t.Errorf("data dir = %q, want data", cfg.Storage.DataDir)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("max open conns = %d, want 25", cfg.Database.MaxOpenConns)
	}
	if cfg.Geocoding.CachePath != "data/places_cache.sqlite" {
		t.Errorf("cache path = %q", cfg.Geocoding.CachePath)
	}
}

func TestEnvInt(t *testing.T) {
	os.Setenv("TEST_ENV_INT", "42")
	defer os.Unsetenv("TEST_ENV_INT")
	if got := envInt("TEST_ENV_INT", 7); got != 42 {
		t.Errorf("got %d, want 42", got)
	}

	os.Setenv("TEST_ENV_INT", "not-a-number")
	if got := envInt("TEST_ENV_INT", 7); got != 7 {
		t.Errorf("invalid value: got %d, want default 7", got)
	}

	os.Setenv("TEST_ENV_INT", "-3")
	if got := envInt("TEST_ENV_INT", 7); got != 7 {
		t.Errorf("negative value: got %d, want default 7", got)
	}

	if got := envInt("TEST_ENV_INT_MISSING", 7); got != 7 {
		t.Errorf("missing value: got %d, want default 7", got)
	}
}
