package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string        // REVEAL_HTTP_ADDR (default ":8080")
	NATSURL     string        // REVEAL_NATS_URL (optional, empty = manual visibility, no events)
	AuthToken   string        // REVEAL_AUTH_TOKEN (optional, empty = auth disabled)
	Seed        int64         // REVEAL_SEED (default 42)
	PaletteFile string        // REVEAL_PALETTE_FILE (optional TOML palette)
	ChartTTL    time.Duration // REVEAL_CHART_TTL (default 30m; 0 = never reap)

	// Export settings
	ExportS3Bucket   string // REVEAL_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string // REVEAL_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string // REVEAL_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Prefix   string // REVEAL_EXPORT_S3_PREFIX (default "charts/")
	ExportDir        string // REVEAL_EXPORT_DIR (enables local directory export when set)
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:         envOrDefault("REVEAL_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("REVEAL_NATS_URL"),
		AuthToken:        os.Getenv("REVEAL_AUTH_TOKEN"),
		PaletteFile:      os.Getenv("REVEAL_PALETTE_FILE"),
		ExportS3Bucket:   os.Getenv("REVEAL_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("REVEAL_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("REVEAL_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Prefix:   envOrDefault("REVEAL_EXPORT_S3_PREFIX", "charts/"),
		ExportDir:        os.Getenv("REVEAL_EXPORT_DIR"),
	}

	seed, err := strconv.ParseInt(envOrDefault("REVEAL_SEED", "42"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("REVEAL_SEED: %w", err)
	}
	c.Seed = seed

	ttl, err := time.ParseDuration(envOrDefault("REVEAL_CHART_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("REVEAL_CHART_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("REVEAL_CHART_TTL: must not be negative, got %s", ttl)
	}
	c.ChartTTL = ttl

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
