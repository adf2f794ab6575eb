// Package idgen provides ID generation utilities for the application.
// It encapsulates the ID generation implementation, making it easy to change
// the underlying ID generation strategy in the future.
package idgen

import (
	"strings"
	"time"

	"github.com/rs/xid"
)

// RunIDPrefix marks identifiers of generator runs
const RunIDPrefix = "gen_"

// NewID generates a new globally unique, sortable identifier.
// Returns a 20-character string using xid format.
func NewID() string {
	return xid.New().String()
}

// NewRunID generates the identifier attached to every log line of one generator run.
func NewRunID() string {
	return RunIDPrefix + NewID()
}

// RunStartedAt extracts the creation time embedded in a run ID (second precision).
func RunStartedAt(runID string) (time.Time, bool) {
	id, err := xid.FromString(strings.TrimPrefix(runID, RunIDPrefix))
	if err != nil {
		return time.Time{}, false
	}
	return id.Time(), true
}
