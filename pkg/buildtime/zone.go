package buildtime

import "strings"

// Zone selects the offset an instant is rendered in.
type Zone string

const (
	// ZoneUTC renders with a zero offset
	ZoneUTC Zone = "utc"
	// ZoneLocal renders in the host's local time zone
	ZoneLocal Zone = "local"
)

// ParseZone accepts "utc" or "local" in any case; empty means UTC.
func ParseZone(s string) (Zone, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utc":
		return ZoneUTC, true
	case "local":
		return ZoneLocal, true
	}
	return "", false
}

// Valid reports whether z is a known zone.
func (z Zone) Valid() bool {
	return z == ZoneUTC || z == ZoneLocal
}
