package version

import "fmt"

// Version contains the engine version.
// This may be overridden via build-time ldflags:
// go build -ldflags "-X git.home.luguber.info/inful/mkd/internal/version.Version=v3.1.0".
var Version = "3.0.0"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// DefaultTabStop is reported in the identifier when no TABSTOP override applies.
const DefaultTabStop = 4

// Identifier returns the fixed version line reported by the engine.
func Identifier() string {
	return fmt.Sprintf("mkd %s TAB=%d", Version, DefaultTabStop)
}
