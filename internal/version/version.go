package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/A2-ai/spackle/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/A2-ai/spackle/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/A2-ai/spackle/internal/version.Date={{.Date}}
)
