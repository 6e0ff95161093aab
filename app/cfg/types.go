package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// News provider credentials
	NewsAPIKey     string
	GuardianAPIKey string
	NYTimesAPIKey  string

	// Application configuration
	SourcesDir        string
	Port              string
	CacheTTL          int
	WorkerCount       int
	SchedulerInterval int
	SessionTTL        int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
