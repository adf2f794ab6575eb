// Package consts defines cross-module constants used throughout the application.
package consts

//go:generate go run ../cmd/buildtime generate --package consts --output buildtime_gen.go --const BuildTime=utc

// ServiceName is the application service name
const ServiceName = "buildtime"

// Project information constants
const (
	// ProjectName is the display name of the project
	ProjectName = "buildtime"

	// ProjectURL is the GitHub repository URL
	ProjectURL = "https://github.com/verustcode/buildtime"
)

// Build information - set via ldflags during build
var (
	// Version is the application version
	Version = "dev"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)
