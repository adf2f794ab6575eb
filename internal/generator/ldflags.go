package generator

import (
	"fmt"
	"strings"

	"github.com/verustcode/buildtime/pkg/errors"
)

// LDFlags renders values as linker flags that set string variables in pkgPath, e.g.
//
//	-X 'main.BuildTimeUTC=2021-05-29T06:55:50.418437046+00:00'
//
// The result is meant for go build -ldflags "$(buildtime ldflags ...)".
func LDFlags(pkgPath string, values []Value) (string, error) {
	if pkgPath == "" {
		return "", errors.ErrValidation("package path is required")
	}

	flags := make([]string, 0, len(values))
	for _, v := range values {
		arg, err := quoteFlag(fmt.Sprintf("%s.%s=%s", pkgPath, v.Name, v.Literal))
		if err != nil {
			return "", err
		}
		flags = append(flags, "-X "+arg)
	}
	return strings.Join(flags, " "), nil
}

// quoteFlag quotes s the way the go command splits -ldflags: single or double
// quotes without escapes.
func quoteFlag(s string) (string, error) {
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'", nil
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, nil
	default:
		return "", errors.ErrValidation(fmt.Sprintf("value %q contains both quote characters", s))
	}
}
