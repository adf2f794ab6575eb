package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/verustcode/buildtime/internal/generator"
	"github.com/verustcode/buildtime/pkg/buildtime"
)

func init() {
	color.NoColor = true
}

func TestPrint_Epoch(t *testing.T) {
	r := &Report{
		Resolution: buildtime.Resolution{
			Instant:  time.Unix(0, 0).UTC(),
			Source:   buildtime.SourceEpoch,
			EpochEnv: buildtime.DefaultEpochEnv,
		},
		UTC:   "1970-01-01T00:00:00+00:00",
		Local: "1970-01-01T01:00:00+01:00",
	}

	var buf bytes.Buffer
	r.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Build Timestamp")
	assert.Contains(t, out, "SOURCE_DATE_EPOCH (pinned, reproducible)")
	assert.Contains(t, out, "UTC:    1970-01-01T00:00:00+00:00")
	assert.Contains(t, out, "Local:  1970-01-01T01:00:00+01:00")
	assert.Contains(t, out, "✓ Build instant resolved")
	assert.NotContains(t, out, "Constants")
}

func TestPrint_Generated(t *testing.T) {
	r := &Report{
		Resolution: buildtime.Resolution{Source: buildtime.SourceClock, EpochEnv: "SOURCE_DATE_EPOCH"},
		Values: []generator.Value{
			{Constant: generator.Constant{Name: "BuildTimeUTC", Zone: buildtime.ZoneUTC}, Literal: "2021-05-29T06:55:50+00:00"},
			{Constant: generator.Constant{Name: "Day", Zone: buildtime.ZoneLocal, Format: "%F"}, Literal: "2021-05-29"},
		},
		Output:  "buildtime_gen.go",
		Changed: true,
	}

	var buf bytes.Buffer
	r.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "system clock (SOURCE_DATE_EPOCH not set)")
	assert.Contains(t, out, "Constants")
	assert.Contains(t, out, `"2021-05-29T06:55:50+00:00"  (RFC 3339)`)
	assert.Contains(t, out, `"2021-05-29"  (%F)`)
	assert.Contains(t, out, "✓ Wrote buildtime_gen.go (2 constant(s))")
}

func TestPrint_UpToDate(t *testing.T) {
	r := &Report{
		Values:  []generator.Value{{Constant: generator.Constant{Name: "A", Zone: buildtime.ZoneUTC}, Literal: "x"}},
		Output:  "gen.go",
		Changed: false,
	}

	var buf bytes.Buffer
	r.Print(&buf)
	assert.Contains(t, buf.String(), "⚠ gen.go already up to date")
}
