package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PostgreSQL.Table != "units" {
		t.Errorf("Table = %q, want units", cfg.PostgreSQL.Table)
	}
	if cfg.Search.RowCap != 200 || cfg.Search.MaxResults != 20 {
		t.Errorf("search limits = %d/%d, want 200/20", cfg.Search.RowCap, cfg.Search.MaxResults)
	}
	if cfg.Search.BandHigh != 50 || cfg.Search.BandMedium != 25 {
		t.Errorf("bands = %v/%v, want 50/25", cfg.Search.BandHigh, cfg.Search.BandMedium)
	}
	if cfg.Search.MinPhraseLength != 4 {
		t.Errorf("MinPhraseLength = %d, want 4", cfg.Search.MinPhraseLength)
	}
	if !cfg.Search.ZoneStrategy {
		t.Error("ZoneStrategy default = false, want true")
	}
	if cfg.Scraper.Timeout != 20*time.Second {
		t.Errorf("scraper timeout = %v, want 20s", cfg.Scraper.Timeout)
	}
	if cfg.Cache.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty (cache disabled by default)", cfg.Cache.RedisAddr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PG_TABLE", "units_staging")
	t.Setenv("SEARCH_MAX_RESULTS", "5")
	t.Setenv("SEARCH_ZONE_STRATEGY", "false")
	t.Setenv("SCORE_BAND_HIGH", "70")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PostgreSQL.Table != "units_staging" {
		t.Errorf("Table = %q, want units_staging", cfg.PostgreSQL.Table)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("MaxResults = %d, want 5", cfg.Search.MaxResults)
	}
	if cfg.Search.ZoneStrategy {
		t.Error("ZoneStrategy = true, want disabled")
	}
	if cfg.Search.BandHigh != 70 {
		t.Errorf("BandHigh = %v, want 70", cfg.Search.BandHigh)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SEARCH_MAX_RESULTS", "lots")
	t.Setenv("SCORE_BAND_HIGH", "very high")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.MaxResults != 20 || cfg.Search.BandHigh != 50 {
		t.Errorf("invalid values must fall back to defaults, got %d/%v",
			cfg.Search.MaxResults, cfg.Search.BandHigh)
	}
}

func TestLoad_RejectsInvertedBands(t *testing.T) {
	t.Setenv("SCORE_BAND_MEDIUM", "60")
	t.Setenv("SCORE_BAND_HIGH", "50")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want band ordering error")
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "app", Password: "secret",
		Database: "dld_units", SSLMode: "disable",
	}}
	want := "host=db port=5433 user=app password=secret dbname=dld_units sslmode=disable"
	if got := cfg.GetPostgreSQLDSN(); got != want {
		t.Errorf("GetPostgreSQLDSN() = %q, want %q", got, want)
	}

	cfg.PostgreSQL.DSN = "postgres://app:secret@db:5433/dld_units"
	if got := cfg.GetPostgreSQLDSN(); got != cfg.PostgreSQL.DSN {
		t.Errorf("GetPostgreSQLDSN() = %q, want the explicit DSN", got)
	}
}
