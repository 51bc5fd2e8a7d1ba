// Package buildconfig carries version metadata stamped at release time via
// -ldflags "-X github.com/agrienhance/farmplot/internal/buildconfig.version=...".
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

// VersionInfo reports the stamped version and commit; local builds report
// "dev"/"unknown".
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}
