package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Output configuration
	OutputDir  string `long:"output-dir" env:"OUTPUT_DIR" default:"./output" description:"Directory where generated feeds and the deletion history are written"`
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing per-source override files"`
	PublicBase string `long:"public-base" env:"PUBLIC_BASE" default:"https://feeds.example.github.io/feed-deliver" description:"Public base URL where previous runs are published"`

	// Run configuration
	WorkerCount   int `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of concurrent source workers"`
	SourceTimeout int `long:"source-timeout" env:"SOURCE_TIMEOUT" default:"300" description:"Per-source collection timeout in seconds"`
	CacheTTL      int `long:"cache-ttl" env:"CACHE_TTL" default:"3600" description:"Previous-feed cache TTL in seconds"`
	RetentionDays int `long:"retention-days" env:"RETENTION_DAYS" default:"30" description:"Deleted-article history retention in days"`

	// Preview server
	Serve bool   `long:"serve" env:"SERVE" description:"Serve the output directory over HTTP after generation"`
	Port  string `long:"port" env:"PORT" default:"8080" description:"Preview server port"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"FeedDeliver/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Tokyo)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		OutputDir:     raw.OutputDir,
		SourcesDir:    raw.SourcesDir,
		PublicBase:    raw.PublicBase,
		WorkerCount:   raw.WorkerCount,
		SourceTimeout: raw.SourceTimeout,
		CacheTTL:      raw.CacheTTL,
		RetentionDays: raw.RetentionDays,
		Serve:         raw.Serve,
		Port:          raw.Port,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Used by tests.
func Set(cfg *Cfg) {
	globalCfg = cfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
