// Package buildtime resolves the build moment once per process and renders it as the
// string literals that get baked into generated source files.
//
// The reference instant comes from SOURCE_DATE_EPOCH when it is set, which pins the
// value for reproducible builds, and from the system clock otherwise. Every
// rendering made through one Provider derives from the same instant.
package buildtime

import (
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verustcode/buildtime/pkg/errors"
	"github.com/verustcode/buildtime/pkg/logger"
	"github.com/verustcode/buildtime/pkg/strftime"
)

// DefaultEpochEnv is the reproducible-builds override variable.
// See https://reproducible-builds.org/docs/source-date-epoch/
const DefaultEpochEnv = "SOURCE_DATE_EPOCH"

// Source records where the reference instant came from.
type Source string

const (
	// SourceEpoch means the instant was pinned by the epoch override variable
	SourceEpoch Source = "epoch"
	// SourceClock means the instant was sampled from the system clock
	SourceClock Source = "clock"
)

// Resolution is the outcome of resolving the reference instant.
type Resolution struct {
	Instant  time.Time
	Source   Source
	EpochEnv string
}

var rfc3339 = strftime.MustCompile(strftime.RFC3339)

// Provider resolves the reference instant lazily, exactly once, and formats it.
// It is safe for concurrent use.
type Provider struct {
	epochEnv  string
	lookupEnv func(string) (string, bool)
	now       func() time.Time
	location  func() *time.Location

	once       sync.Once
	resolution Resolution
	err        error
}

// Option configures a Provider.
type Option func(*Provider)

// WithEpochEnv changes the name of the override variable.
func WithEpochEnv(name string) Option {
	return func(p *Provider) {
		if name != "" {
			p.epochEnv = name
		}
	}
}

// WithLookupEnv replaces the environment lookup, os.LookupEnv by default.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(p *Provider) {
		p.lookupEnv = fn
	}
}

// WithClock replaces the clock sampled when no override is present.
func WithClock(fn func() time.Time) Option {
	return func(p *Provider) {
		p.now = fn
	}
}

// WithLocation sets the zone used by the local renderings instead of time.Local.
// A nil location makes local renderings fall back to UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *Provider) {
		p.location = func() *time.Location { return loc }
	}
}

// New creates a Provider. Nothing is resolved until the first rendering.
func New(opts ...Option) *Provider {
	p := &Provider{
		epochEnv:  DefaultEpochEnv,
		lookupEnv: os.LookupEnv,
		now:       time.Now,
		location:  func() *time.Location { return time.Local },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EpochEnv returns the name of the override variable the provider consults.
func (p *Provider) EpochEnv() string {
	return p.epochEnv
}

// Resolve returns the reference instant, resolving it on first call.
// A failed resolution is cached as well; it never falls back to the clock.
func (p *Provider) Resolve() (Resolution, error) {
	p.once.Do(func() {
		p.resolution, p.err = p.resolve()
		if p.err != nil {
			logger.Named("buildtime").Debug("Failed to resolve build instant",
				zap.String("epoch_env", p.epochEnv),
				zap.Error(p.err))
			return
		}
		logger.Named("buildtime").Debug("Resolved build instant",
			zap.Time("instant", p.resolution.Instant),
			zap.String("source", string(p.resolution.Source)))
	})
	return p.resolution, p.err
}

func (p *Provider) resolve() (Resolution, error) {
	res := Resolution{EpochEnv: p.epochEnv}

	if v, ok := p.lookupEnv(p.epochEnv); ok {
		secs, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return res, errors.ErrSourceDateEpoch(p.epochEnv, v, err)
		}
		res.Instant = time.Unix(secs, 0).UTC()
		res.Source = SourceEpoch
		return res, nil
	}

	res.Instant = p.now().UTC()
	res.Source = SourceClock
	return res, nil
}

// Instant returns the reference instant in UTC.
func (p *Provider) Instant() (time.Time, error) {
	res, err := p.Resolve()
	return res.Instant, err
}

// UTC renders the instant in UTC. Without a pattern, or with an empty one, the
// result is RFC 3339, e.g. 2021-05-29T06:55:50.418437046+00:00.
func (p *Provider) UTC(pattern ...string) (string, error) {
	return p.render(ZoneUTC, pattern)
}

// Local renders the instant in the local zone. The result denotes the same instant
// as UTC; only the offset and wall-clock fields differ.
func (p *Provider) Local(pattern ...string) (string, error) {
	return p.render(ZoneLocal, pattern)
}

// TimestampUTC renders the instant in UTC as RFC 3339.
func (p *Provider) TimestampUTC() (string, error) {
	return p.Render(ZoneUTC, "")
}

// TimestampLocal renders the instant in the local zone as RFC 3339.
func (p *Provider) TimestampLocal() (string, error) {
	return p.Render(ZoneLocal, "")
}

func (p *Provider) render(zone Zone, pattern []string) (string, error) {
	switch len(pattern) {
	case 0:
		return p.Render(zone, "")
	case 1:
		return p.Render(zone, pattern[0])
	default:
		return "", errors.ErrValidation("at most one format pattern may be given")
	}
}

// Render formats the instant in zone using pattern; an empty pattern means RFC 3339.
// The pattern is validated before the instant is resolved.
func (p *Provider) Render(zone Zone, pattern string) (string, error) {
	f := rfc3339
	if pattern != "" {
		compiled, err := strftime.Compile(pattern)
		if err != nil {
			return "", errors.ErrPattern(pattern, err)
		}
		f = compiled
	}

	if !zone.Valid() {
		return "", errors.ErrValidation("unknown zone " + strconv.Quote(string(zone)))
	}

	instant, err := p.Instant()
	if err != nil {
		return "", err
	}

	return f.Format(p.in(zone, instant)), nil
}

func (p *Provider) in(zone Zone, t time.Time) time.Time {
	if zone != ZoneLocal {
		return t
	}
	loc := p.location()
	if loc == nil {
		logger.Named("buildtime").Debug("Local time zone unavailable, using UTC")
		return t
	}
	return t.In(loc)
}
