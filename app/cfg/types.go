package cfg

type Cfg struct {
	// Output configuration
	OutputDir  string
	SourcesDir string
	PublicBase string

	// Run configuration
	WorkerCount   int
	SourceTimeout int
	CacheTTL      int
	RetentionDays int

	// Preview server
	Serve bool
	Port  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
