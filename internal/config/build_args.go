package config

import "fmt"

// ModuleName is the service identifier used in version output and logs
const ModuleName = "walletkit"

// Build arguments, injected at link time via -ldflags
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// GetFormattedBuildArgs returns "<module> @ <commit> (<build date>)"
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
