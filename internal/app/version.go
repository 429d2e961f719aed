package app

import "fmt"

// AppName is attached to every log record.
const AppName = "wenyan-gloss"

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/heartmarshall/wenyan-gloss/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs, the
// health endpoint and `glossctl version`.
func BuildVersion() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", AppName, Version, Commit, BuildTime)
}
