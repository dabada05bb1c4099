package version

import (
	"fmt"
	"runtime"
)

// Set via ldflags at build time:
//
//	go build -ldflags "-X github.com/soyeahso/cordkit/internal/version.Version=1.0.0
//	  -X github.com/soyeahso/cordkit/internal/version.Commit=abc123
//	  -X github.com/soyeahso/cordkit/internal/version.Date=2026-01-01"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// ProjectURL is advertised in the User-Agent Discord requires from bots.
const ProjectURL = "https://github.com/soyeahso/cordkit"

// Info returns a formatted version string.
func Info() string {
	return fmt.Sprintf("cordkit %s (commit: %s, built: %s, %s/%s)",
		Version, short(Commit), Date, runtime.GOOS, runtime.GOARCH)
}

// UserAgent returns the DiscordBot user agent for this build.
func UserAgent() string {
	return fmt.Sprintf("DiscordBot (%s, %s)", ProjectURL, Version)
}

func short(s string) string {
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
