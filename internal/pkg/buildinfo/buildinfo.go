package buildinfo

// Version is injected at release build time, e.g.
// -X github.com/yuqie6/AccomTrack/internal/pkg/buildinfo.Version=v0.3.0
var Version = "v0.3.0-dev"

// Commit is optionally injected with the git commit, e.g.
// -X github.com/yuqie6/AccomTrack/internal/pkg/buildinfo.Commit=abcdef1
var Commit = "unknown"
