package cfg

import "time"

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port        string
	SourcesFile string
	Seeds       []string
	IntervalMin int
	CrawlLimit  int

	// Application metadata
	UserAgent string
	Timezone  string
	Location  *time.Location
	Debug     bool
	Version   string
}
