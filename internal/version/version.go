// Package version records the build identity of the swell binary.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata, overridable at link time via -ldflags. Version stays
// plain text so machine consumers never see escape codes.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each semver component painted. A
// version that does not look like semver comes back unpainted.
func Colored() string {
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	patch, pre, hasPre := strings.Cut(parts[2], "-")
	out := color.New(color.FgYellow, color.Bold).Sprint(parts[0]) + "." +
		color.New(color.FgGreen, color.Bold).Sprint(parts[1]) + "." +
		color.New(color.FgBlue, color.Bold).Sprint(patch)
	if hasPre {
		out += "-" + pre
	}
	return out
}
