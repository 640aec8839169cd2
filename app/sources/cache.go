package sources

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache holds the configured seed sources. When no sources file
// exists, the default seed list from the runtime configuration is
// used.
type Cache struct {
	path         string
	defaultSeeds []string
	mu           sync.RWMutex
	list         []Source
}

func NewCache(path string, defaultSeeds []string) *Cache {
	return &Cache{
		path:         path,
		defaultSeeds: defaultSeeds,
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		c.setDefaults()
		slog.Debug("No sources file found, using default seeds", "path", c.path, "seeds", len(c.defaultSeeds))
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	list := make([]Source, 0, len(file.Sources))
	for i, raw := range file.Sources {
		if raw.URL == "" {
			return fmt.Errorf("invalid source at index %d: url is required", i)
		}
		if raw.Limit < 0 {
			return fmt.Errorf("invalid source at index %d: limit must be non-negative", i)
		}
		list = append(list, Source{
			URL:            raw.URL,
			Enabled:        raw.Enabled == nil || *raw.Enabled,
			Limit:          raw.Limit,
			ExtractContent: raw.ExtractContent,
		})
	}

	if len(list) == 0 {
		c.setDefaults()
		return nil
	}

	c.mu.Lock()
	c.list = list
	c.mu.Unlock()

	slog.Debug("Sources loaded", "path", c.path, "count", len(list))
	return nil
}

func (c *Cache) setDefaults() {
	list := make([]Source, 0, len(c.defaultSeeds))
	for _, seed := range c.defaultSeeds {
		list = append(list, Source{URL: seed, Enabled: true})
	}
	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
}

// GetEnabled returns the sources eligible for crawling.
func (c *Cache) GetEnabled() []Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	enabled := make([]Source, 0, len(c.list))
	for _, src := range c.list {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

// URLs returns all configured seed URLs, enabled or not.
func (c *Cache) URLs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	urls := make([]string, 0, len(c.list))
	for _, src := range c.list {
		urls = append(urls, src.URL)
	}
	return urls
}

func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.list)
}
