package config

// this holds the resolved configuration values from CLI
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules for named loggers
	MigrationSourceURL string // location of migration files
	BaseURL            string // base url of the results site
	ChartDir           string // directory where chart artifacts are written
)
