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
	DBPath string `long:"db-path" env:"DB_PATH" default:"./cambee.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port        string   `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SourcesFile string   `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"Optional YAML file with seed source definitions"`
	Seeds       []string `long:"seed" env:"CRAWL_SEEDS" env-delim:"," default:"https://www.ewha.ac.kr/ewha/news/notice.do" description:"Seed listing URL (repeatable)"`
	IntervalMin int      `long:"crawl-interval" env:"CRAWL_INTERVAL_MIN" default:"60" description:"Crawl interval in minutes"`
	CrawlLimit  int      `long:"crawl-limit" env:"CRAWL_LIMIT" default:"50" description:"Maximum listing items processed per seed per tick"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; CambeeCrawler/0.1; +https://example.invalid)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TIMEZONE" default:"Asia/Seoul" description:"IANA timezone for the crawl schedule"`
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
		DBPath:      raw.DBPath,
		Port:        raw.Port,
		SourcesFile: raw.SourcesFile,
		Seeds:       raw.Seeds,
		IntervalMin: raw.IntervalMin,
		CrawlLimit:  raw.CrawlLimit,
		UserAgent:   raw.UserAgent,
		Timezone:    raw.Timezone,
		Debug:       raw.Debug,
		Version:     GetVersion(),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using UTC: %v\n", cfg.Timezone, err)
		loc = time.UTC
		cfg.Timezone = "UTC"
	}
	cfg.Location = loc

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
