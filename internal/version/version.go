// Package version exposes build metadata reported by GET /version and GET /.
package version

// Version is the released application version.
var Version = "1.0.0"

// GitCommit is the git commit hash, set at build time via ldflags.
var GitCommit = "unknown"

// BuildDate is the build date, set at build time via ldflags.
var BuildDate = "unknown"
