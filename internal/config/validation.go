package config

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/verustcode/buildtime/pkg/buildtime"
	"github.com/verustcode/buildtime/pkg/errors"
	"github.com/verustcode/buildtime/pkg/strftime"
)

// Validate checks the configuration and returns an ErrCodeConfigInvalid error listing
// every problem found, or ErrCodePattern when the only problem is a bad pattern.
func (c *Config) Validate() error {
	var failures []string
	var patternErr error

	if !token.IsIdentifier(c.Package) {
		failures = append(failures, fmt.Sprintf("package %q is not a valid Go package name", c.Package))
	}
	if c.Output == "" {
		failures = append(failures, "output path is required")
	} else if filepath.Ext(c.Output) != ".go" {
		failures = append(failures, fmt.Sprintf("output %q must be a .go file", c.Output))
	}
	if strings.TrimSpace(c.EpochEnv) == "" {
		failures = append(failures, "epoch_env must name an environment variable")
	}
	if len(c.Constants) == 0 {
		failures = append(failures, "at least one constant is required")
	}

	seen := make(map[string]bool, len(c.Constants))
	for i, cc := range c.Constants {
		switch {
		case !token.IsIdentifier(cc.Name):
			failures = append(failures, fmt.Sprintf("constants[%d]: %q is not a valid Go identifier", i, cc.Name))
		case cc.Name == "_":
			failures = append(failures, fmt.Sprintf("constants[%d]: blank identifier is not allowed", i))
		case seen[cc.Name]:
			failures = append(failures, fmt.Sprintf("constants[%d]: duplicate name %q", i, cc.Name))
		}
		seen[cc.Name] = true

		if _, ok := buildtime.ParseZone(cc.Zone); !ok {
			failures = append(failures, fmt.Sprintf("constants[%d]: unknown zone %q (want utc or local)", i, cc.Zone))
		}
		if cc.Format != "" {
			if _, err := strftime.Compile(cc.Format); err != nil {
				failures = append(failures, fmt.Sprintf("constants[%d]: %v", i, err))
				if patternErr == nil {
					patternErr = errors.ErrPattern(cc.Format, err)
				}
			}
		}
	}

	if len(failures) == 0 {
		return nil
	}
	if len(failures) == 1 && patternErr != nil {
		return patternErr
	}
	return errors.New(errors.ErrCodeConfigInvalid, "invalid configuration: "+strings.Join(failures, "; ")).
		WithDetails(failures)
}
