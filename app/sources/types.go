package sources

// Source is one seed listing URL with per-source overrides.
type Source struct {
	URL            string
	Enabled        bool
	Limit          int  // 0 means the global crawl limit
	ExtractContent bool // readability fallback for empty bodies
}

type sourcesFile struct {
	Sources []rawSource `yaml:"sources"`
}

type rawSource struct {
	URL            string `yaml:"url"`
	Enabled        *bool  `yaml:"enabled"` // nil means enabled
	Limit          int    `yaml:"limit"`
	ExtractContent bool   `yaml:"extract_content"`
}
