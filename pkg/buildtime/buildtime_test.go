package buildtime

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verustcode/buildtime/pkg/errors"
	"github.com/verustcode/buildtime/pkg/logger"
)

// env returns a lookup function backed by a fixed map.
func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// tickingClock returns a clock that advances one second per call and counts calls.
func tickingClock(start time.Time, calls *int64) func() time.Time {
	return func() time.Time {
		n := atomic.AddInt64(calls, 1)
		return start.Add(time.Duration(n-1) * time.Second)
	}
}

var buildMoment = time.Date(2021, time.May, 29, 6, 55, 50, 418_437_046, time.UTC)

func TestProvider_CallTwice(t *testing.T) {
	var calls int64
	p := New(WithLookupEnv(env(nil)), WithClock(tickingClock(buildMoment, &calls)))

	utc, err := p.UTC()
	require.NoError(t, err)
	local, err := p.Local()
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	utc1, err := p.UTC()
	require.NoError(t, err)
	local1, err := p.Local()
	require.NoError(t, err)

	assert.Equal(t, utc, utc1)
	assert.Equal(t, local, local1)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "clock should be sampled once")
	assert.Equal(t, "2021-05-29T06:55:50.418437046+00:00", utc)
}

func TestDefaultProvider_CallTwice(t *testing.T) {
	utc, err := TimestampUTC()
	require.NoError(t, err)
	local, err := TimestampLocal()
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	utc1, err := UTC()
	require.NoError(t, err)
	local1, err := Local()
	require.NoError(t, err)

	assert.Equal(t, utc, utc1)
	assert.Equal(t, local, local1)
	assert.Same(t, Default(), std)
}

func TestProvider_LocalUTCMatch(t *testing.T) {
	zones := []*time.Location{
		time.Local,
		time.FixedZone("IST", 5*3600+30*60),
		time.FixedZone("", -8*3600),
	}

	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			p := New(
				WithLookupEnv(env(nil)),
				WithClock(func() time.Time { return buildMoment }),
				WithLocation(loc),
			)

			utcStr, err := p.UTC()
			require.NoError(t, err)
			localStr, err := p.Local()
			require.NoError(t, err)

			utc, err := time.Parse(time.RFC3339Nano, utcStr)
			require.NoError(t, err)
			local, err := time.Parse(time.RFC3339Nano, localStr)
			require.NoError(t, err)

			assert.True(t, utc.Equal(local), "utc %s and local %s should be the same instant", utcStr, localStr)
		})
	}
}

func TestProvider_LocalOffset(t *testing.T) {
	p := New(
		WithLookupEnv(env(nil)),
		WithClock(func() time.Time { return buildMoment }),
		WithLocation(time.FixedZone("IST", 5*3600+30*60)),
	)

	local, err := p.TimestampLocal()
	require.NoError(t, err)
	assert.Equal(t, "2021-05-29T12:25:50.418437046+05:30", local)
}

func TestProvider_StrftimeFormat(t *testing.T) {
	p := New(WithLookupEnv(env(nil)), WithLocation(time.FixedZone("", 2*3600)))

	utcRFC3339, err := p.UTC()
	require.NoError(t, err)
	localRFC3339, err := p.Local()
	require.NoError(t, err)

	utcFormatted, err := p.UTC("%Y-%m-%dT%H:%M:%S%.f%:z")
	require.NoError(t, err)
	localFormatted, err := p.Local("%Y-%m-%dT%H:%M:%S%.f%:z")
	require.NoError(t, err)

	assert.Equal(t, utcRFC3339, utcFormatted)
	assert.Equal(t, localRFC3339, localFormatted)
}

func TestProvider_EmptyPatternIsRFC3339(t *testing.T) {
	p := New(WithLookupEnv(env(nil)), WithClock(func() time.Time { return buildMoment }))

	withEmpty, err := p.UTC("")
	require.NoError(t, err)
	reduced, err := p.TimestampUTC()
	require.NoError(t, err)

	assert.Equal(t, reduced, withEmpty)
}

func TestProvider_EpochOverride(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"unix epoch", "0", "1970-01-01T00:00:00+00:00"},
		{"positive", "1622271350", "2021-05-29T06:55:50+00:00"},
		{"negative", "-86400", "1969-12-31T00:00:00+00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int64
			p := New(
				WithLookupEnv(env(map[string]string{DefaultEpochEnv: tt.value})),
				WithClock(tickingClock(buildMoment, &calls)),
				WithLocation(time.FixedZone("", 3600)),
			)

			got, err := p.UTC()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			res, err := p.Resolve()
			require.NoError(t, err)
			assert.Equal(t, SourceEpoch, res.Source)
			assert.Equal(t, DefaultEpochEnv, res.EpochEnv)
			assert.Zero(t, atomic.LoadInt64(&calls), "clock must not be sampled when pinned")
		})
	}
}

func TestProvider_EpochOverride_RealEnv(t *testing.T) {
	t.Setenv(DefaultEpochEnv, "0")

	got, err := New().TimestampUTC()
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01T00:00:00+00:00", got)
}

func TestProvider_CustomEpochEnv(t *testing.T) {
	p := New(
		WithEpochEnv("MY_BUILD_EPOCH"),
		WithLookupEnv(env(map[string]string{
			DefaultEpochEnv:  "abc",
			"MY_BUILD_EPOCH": "86400",
		})),
	)

	got, err := p.UTC("%F")
	require.NoError(t, err)
	assert.Equal(t, "1970-01-02", got)
	assert.Equal(t, "MY_BUILD_EPOCH", p.EpochEnv())
}

func TestProvider_EmptyEpochIsInvalid(t *testing.T) {
	var calls int64
	p := New(
		WithLookupEnv(env(map[string]string{DefaultEpochEnv: ""})),
		WithClock(func() time.Time {
			atomic.AddInt64(&calls, 1)
			return buildMoment
		}),
	)

	got, err := p.UTC()
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceDateEpoch))
	assert.Zero(t, atomic.LoadInt64(&calls), "a present but empty override must not fall back to the clock")
}

func TestProvider_InvalidEpoch(t *testing.T) {
	for _, value := range []string{"abc", "1.5", " 10", "1e9"} {
		t.Run(value, func(t *testing.T) {
			var calls int64
			p := New(
				WithLookupEnv(env(map[string]string{DefaultEpochEnv: value})),
				WithClock(tickingClock(buildMoment, &calls)),
			)

			got, err := p.UTC()
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.HasCode(err, errors.ErrCodeSourceDateEpoch))
			assert.Contains(t, err.Error(), DefaultEpochEnv)

			// The failure is cached and never falls back to the clock.
			_, err2 := p.Local()
			assert.Equal(t, err, err2)
			assert.Zero(t, atomic.LoadInt64(&calls))
		})
	}
}

func TestProvider_InvalidEpochLogsQuietly(t *testing.T) {
	var buf bytes.Buffer
	logger.Set(logger.NewWithWriter(logger.Config{Level: "warn", Format: "json"}, &buf))
	t.Cleanup(func() { logger.Set(nil) })

	p := New(WithLookupEnv(env(map[string]string{DefaultEpochEnv: "tomorrow"})))
	_, err := p.UTC()
	require.Error(t, err)

	// The returned error carries the diagnostic; nothing is logged above debug.
	assert.Empty(t, buf.String())
}

func TestProvider_InvalidPattern(t *testing.T) {
	var calls int64
	p := New(
		WithLookupEnv(env(map[string]string{DefaultEpochEnv: "0"})),
		WithClock(tickingClock(buildMoment, &calls)),
	)

	got, err := p.UTC("%Y-%Q")
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, errors.HasCode(err, errors.ErrCodePattern))
	assert.Contains(t, err.Error(), `"%Q"`)

	_, err = p.Local("%")
	assert.True(t, errors.HasCode(err, errors.ErrCodePattern))
}

func TestProvider_TooManyPatterns(t *testing.T) {
	p := New(WithLookupEnv(env(nil)))

	_, err := p.UTC("%Y", "%m")
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestProvider_UnknownZone(t *testing.T) {
	p := New(WithLookupEnv(env(nil)))

	_, err := p.Render(Zone("mars"), "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestProvider_NilLocationFallsBackToUTC(t *testing.T) {
	p := New(
		WithLookupEnv(env(nil)),
		WithClock(func() time.Time { return buildMoment }),
		WithLocation(nil),
	)

	utc, err := p.TimestampUTC()
	require.NoError(t, err)
	local, err := p.TimestampLocal()
	require.NoError(t, err)

	assert.Equal(t, utc, local)
	assert.Contains(t, local, "+00:00")
}

func TestProvider_ConcurrentFirstAccess(t *testing.T) {
	var calls int64
	p := New(WithLookupEnv(env(nil)), WithClock(tickingClock(buildMoment, &calls)))

	const workers = 64
	results := make([]string, workers)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			s, err := p.UTC()
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
	for _, s := range results {
		assert.Equal(t, results[0], s)
	}
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		in   string
		want Zone
		ok   bool
	}{
		{"", ZoneUTC, true},
		{"utc", ZoneUTC, true},
		{"UTC", ZoneUTC, true},
		{" Local ", ZoneLocal, true},
		{"gmt", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseZone(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
