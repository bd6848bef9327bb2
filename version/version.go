package version

// overwritten by ldflags on release builds
var (
	Version     = "dev"
	GitCommit   = "none"
	BuildDate   = "unknown"
	FullVersion = Version
)
