package buildtime

import "time"

// std is the process-wide provider behind the package-level functions.
var std = New()

// Default returns the process-wide provider.
func Default() *Provider { return std }

// Instant returns the process-wide reference instant in UTC.
func Instant() (time.Time, error) { return std.Instant() }

// UTC renders the process-wide instant in UTC, RFC 3339 unless a pattern is given.
func UTC(pattern ...string) (string, error) { return std.UTC(pattern...) }

// Local renders the process-wide instant in the local zone, RFC 3339 unless a pattern is given.
func Local(pattern ...string) (string, error) { return std.Local(pattern...) }

// TimestampUTC renders the process-wide instant in UTC as RFC 3339.
func TimestampUTC() (string, error) { return std.TimestampUTC() }

// TimestampLocal renders the process-wide instant in the local zone as RFC 3339.
func TimestampLocal() (string, error) { return std.TimestampLocal() }
