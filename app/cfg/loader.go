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
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"newsstream.sqlite" description:"Path to the SQLite database file"`

	// News provider credentials
	NewsAPIKey     string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"NewsAPI API key"`
	GuardianAPIKey string `long:"guardian-key" env:"GUARDIAN_API_KEY" description:"The Guardian API key"`
	NYTimesAPIKey  string `long:"nytimes-key" env:"NYTIMES_API_KEY" description:"The New York Times API key"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources.d" description:"Directory containing optional per-provider configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	CacheTTL          int    `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"News result cache TTL in seconds"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	SessionTTL        int    `long:"session-ttl" env:"SESSION_TTL" default:"720" description:"Session lifetime in hours"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NewsStream/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
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
		DBPath:            raw.DBPath,
		NewsAPIKey:        raw.NewsAPIKey,
		GuardianAPIKey:    raw.GuardianAPIKey,
		NYTimesAPIKey:     raw.NYTimesAPIKey,
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		CacheTTL:          raw.CacheTTL,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		SessionTTL:        raw.SessionTTL,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
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

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
