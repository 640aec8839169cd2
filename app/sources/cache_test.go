package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write sources file: %v", err)
	}
	return path
}

func TestCacheLoadsYAML(t *testing.T) {
	path := writeSourcesFile(t, `sources:
  - url: https://www.ewha.ac.kr/ewha/news/notice.do
    limit: 20
    extract_content: true
  - url: https://dorm.ewha.ac.kr/board
`)

	cache := NewCache(path, nil)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cache.Count() != 2 {
		t.Fatalf("Expected 2 sources, got %d", cache.Count())
	}

	enabled := cache.GetEnabled()
	if len(enabled) != 2 {
		t.Fatalf("Expected 2 enabled sources, got %d", len(enabled))
	}
	if enabled[0].URL != "https://www.ewha.ac.kr/ewha/news/notice.do" {
		t.Errorf("Expected first source URL, got %q", enabled[0].URL)
	}
	if enabled[0].Limit != 20 {
		t.Errorf("Expected limit 20, got %d", enabled[0].Limit)
	}
	if !enabled[0].ExtractContent {
		t.Error("Expected extract_content true")
	}
	if enabled[1].ExtractContent {
		t.Error("Expected extract_content false by default")
	}
}

func TestCacheEnabledDefaultsToTrue(t *testing.T) {
	path := writeSourcesFile(t, `sources:
  - url: https://example.com/a
  - url: https://example.com/b
    enabled: false
  - url: https://example.com/c
    enabled: true
`)

	cache := NewCache(path, nil)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cache.Count() != 3 {
		t.Errorf("Expected 3 configured sources, got %d", cache.Count())
	}

	enabled := cache.GetEnabled()
	if len(enabled) != 2 {
		t.Fatalf("Expected 2 enabled sources, got %d", len(enabled))
	}
	for _, src := range enabled {
		if src.URL == "https://example.com/b" {
			t.Error("Expected disabled source filtered out")
		}
	}

	urls := cache.URLs()
	if len(urls) != 3 {
		t.Errorf("Expected URLs to include disabled sources, got %d", len(urls))
	}
}

func TestCacheFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")

	cache := NewCache(path, []string{"https://www.ewha.ac.kr/ewha/news/notice.do"})
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	enabled := cache.GetEnabled()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 default source, got %d", len(enabled))
	}
	if enabled[0].URL != "https://www.ewha.ac.kr/ewha/news/notice.do" {
		t.Errorf("Expected default seed URL, got %q", enabled[0].URL)
	}
	if !enabled[0].Enabled {
		t.Error("Expected default source enabled")
	}
}

func TestCacheEmptyFileFallsBackToDefaults(t *testing.T) {
	path := writeSourcesFile(t, "sources: []\n")

	cache := NewCache(path, []string{"https://example.com/seed"})
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cache.Count() != 1 {
		t.Errorf("Expected default seed used, got %d sources", cache.Count())
	}
}

func TestCacheRejectsInvalidSources(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing url", "sources:\n  - limit: 5\n"},
		{"negative limit", "sources:\n  - url: https://example.com\n    limit: -1\n"},
		{"malformed yaml", "sources: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache(writeSourcesFile(t, tt.content), nil)
			if err := cache.Run(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
