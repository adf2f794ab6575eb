package config

import (
	"fmt"
	"strings"

	"github.com/verustcode/buildtime/pkg/errors"
)

// ParseConstant parses the command-line form Name[=zone[:format]], e.g.
// "BuildTime", "BuildTimeLocal=local" or "BuildDate=utc:%Y-%m-%d".
// Only the first ':' separates zone from format, so formats may contain colons.
func ParseConstant(s string) (ConstantConfig, error) {
	name, rest, hasZone := strings.Cut(s, "=")
	cc := ConstantConfig{Name: strings.TrimSpace(name), Zone: "utc"}

	if cc.Name == "" {
		return cc, errors.ErrValidation(fmt.Sprintf("constant %q: missing name", s))
	}
	if hasZone {
		zone, format, _ := strings.Cut(rest, ":")
		if zone = strings.TrimSpace(zone); zone != "" {
			cc.Zone = zone
		}
		cc.Format = format
	}
	return cc, nil
}
