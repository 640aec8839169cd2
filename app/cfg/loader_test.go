package cfg

import (
	"os"
	"testing"
)

func loadWithArgs(t *testing.T, args ...string) (*Cfg, error) {
	t.Helper()

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"cambee"}, args...)

	return Load()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWithArgs(t)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected configuration, got nil")
	}

	if cfg.DBPath != "./cambee.db" {
		t.Errorf("Expected default db path, got %q", cfg.DBPath)
	}
	if cfg.SourcesFile != "./sources.yml" {
		t.Errorf("Expected default sources file, got %q", cfg.SourcesFile)
	}
	if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "https://www.ewha.ac.kr/ewha/news/notice.do" {
		t.Errorf("Expected default seed, got %v", cfg.Seeds)
	}
	if cfg.CrawlLimit != 50 {
		t.Errorf("Expected default crawl limit 50, got %d", cfg.CrawlLimit)
	}
	if cfg.UserAgent == "" {
		t.Error("Expected default user agent")
	}
	if cfg.Location == nil {
		t.Error("Expected resolved location")
	}
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	cfg, err := loadWithArgs(t,
		"--db-path=/tmp/test.db",
		"--crawl-interval=15",
		"--seed=https://a.example.com/list",
		"--seed=https://b.example.com/list",
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected overridden db path, got %q", cfg.DBPath)
	}
	if cfg.IntervalMin != 15 {
		t.Errorf("Expected interval 15, got %d", cfg.IntervalMin)
	}
	if len(cfg.Seeds) != 2 {
		t.Errorf("Expected 2 seeds, got %v", cfg.Seeds)
	}
}

func TestLoadInvalidTimezoneFallsBackToUTC(t *testing.T) {
	cfg, err := loadWithArgs(t, "--timezone=Not/AZone")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Timezone != "UTC" {
		t.Errorf("Expected UTC fallback, got %q", cfg.Timezone)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("Expected UTC location, got %q", cfg.Location)
	}
}

func TestGetReturnsLoadedConfig(t *testing.T) {
	cfg, err := loadWithArgs(t, "--port=9999")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
	if Get().Port != "9999" {
		t.Errorf("Expected port 9999, got %q", Get().Port)
	}
}
