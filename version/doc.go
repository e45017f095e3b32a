// Package version provides version information and build metadata for fstn.
//
// Version information comes from compile-time variables (Version, Commit,
// Date) set via -ldflags, with runtime build info from debug.ReadBuildInfo()
// as a fallback for development builds.
package version
