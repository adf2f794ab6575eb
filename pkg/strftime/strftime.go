// Package strftime implements the strftime-style pattern language used to render
// build timestamps.
//
// Patterns are validated once by Compile and can then be applied to any number of
// times. The directive set follows the conventional C/POSIX strftime directives
// extended with the fractional-second and offset forms popularised by chrono:
//
//	%Y  year, zero-padded to 4 digits        %C  century (year/100)
//	%y  year modulo 100                      %m  month (01-12)
//	%b  abbreviated month name (%h alias)    %B  full month name
//	%d  day of month (01-31)                 %e  day of month, space padded
//	%a  abbreviated weekday name             %A  full weekday name
//	%w  weekday, Sunday = 0                  %u  weekday, Monday = 1
//	%U  week of year, weeks start Sunday     %W  week of year, weeks start Monday
//	%G  ISO 8601 week-based year             %g  ISO week-based year modulo 100
//	%V  ISO 8601 week number                 %j  day of year (001-366)
//	%H  hour (00-23)                         %k  hour, space padded
//	%I  hour (01-12)                         %l  hour (1-12), space padded
//	%P  am/pm                                %p  AM/PM
//	%M  minute                               %S  second
//	%f  nanoseconds, 9 digits                %.f fraction with dot, 0/3/6/9 digits
//	%.3f %.6f %.9f fraction with dot         %3f %6f %9f fraction without dot
//	%z  +hhmm offset                         %:z +hh:mm offset
//	%::z +hh:mm:ss offset                    %:::z +hh offset
//	%Z  zone abbreviation                    %s  seconds since the Unix epoch
//	%D %x  %m/%d/%y                          %F  %Y-%m-%d
//	%v  %e-%b-%Y                             %R  %H:%M
//	%T %X  %H:%M:%S                          %r  %I:%M:%S %p
//	%c  %a %b %e %H:%M:%S %Y                 %+  %Y-%m-%dT%H:%M:%S%.f%:z
//	%t  tab    %n  newline    %%  literal percent sign
//
// Numeric directives accept a padding modifier between '%' and the letter:
// '-' suppresses padding, '_' pads with spaces and '0' pads with zeros.
package strftime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	posix "github.com/ncruces/go-strftime"
)

// RFC3339 renders an instant as RFC 3339 with an explicit numeric offset and the
// shortest exact fractional second.
const RFC3339 = "%Y-%m-%dT%H:%M:%S%.f%:z"

// Error describes an invalid directive in a pattern.
type Error struct {
	Pattern   string
	Offset    int
	Directive string
	Reason    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q at offset %d", e.Reason, e.Directive, e.Offset)
}

// Pattern is a compiled strftime pattern. It is immutable and safe for concurrent use.
type Pattern struct {
	source string
	parts  []appender
}

type appender func(dst []byte, t time.Time) []byte

type padMode int

const (
	padDefault padMode = iota
	padNone
	padSpace
	padZero
)

// Compile validates pattern and prepares it for formatting.
func Compile(pattern string) (*Pattern, error) {
	p := &Pattern{source: pattern}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			p.parts = append(p.parts, literal(lit.String()))
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		if pattern[i] != '%' {
			lit.WriteByte(pattern[i])
			i++
			continue
		}

		fn, n, err := parseDirective(pattern, i)
		if err != nil {
			return nil, err
		}
		flush()
		p.parts = append(p.parts, fn)
		i += n
	}
	flush()

	return p, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("strftime: " + err.Error())
	}
	return p
}

// Format compiles pattern and renders t with it.
func Format(pattern string, t time.Time) (string, error) {
	p, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	return p.Format(t), nil
}

// String returns the source pattern.
func (p *Pattern) String() string {
	return p.source
}

// Format renders t.
func (p *Pattern) Format(t time.Time) string {
	return string(p.AppendFormat(make([]byte, 0, 2*len(p.source)+16), t))
}

// AppendFormat renders t and appends the result to dst.
func (p *Pattern) AppendFormat(dst []byte, t time.Time) []byte {
	for _, part := range p.parts {
		dst = part(dst, t)
	}
	return dst
}

// parseDirective parses the directive starting at pattern[start] (a '%') and
// returns its renderer and the number of bytes it spans.
func parseDirective(pattern string, start int) (appender, int, error) {
	i := start + 1
	if i >= len(pattern) {
		return nil, 0, invalid(pattern, start, i, "incomplete directive")
	}

	var pad padMode
	switch pattern[i] {
	case '-':
		pad = padNone
	case '_':
		pad = padSpace
	case '0':
		pad = padZero
	}
	if pad != padDefault {
		i++
		if i >= len(pattern) {
			return nil, 0, invalid(pattern, start, i, "incomplete directive")
		}
		num, ok := numerics[pattern[i]]
		if !ok {
			return nil, 0, invalid(pattern, start, i+1, "padding modifier on non-numeric directive")
		}
		return num.appender(pad), i + 1 - start, nil
	}

	switch c := pattern[i]; c {
	case '.':
		if strings.HasPrefix(pattern[i+1:], "f") {
			return autoFraction, i + 2 - start, nil
		}
		if i+2 < len(pattern) && isFractionWidth(pattern[i+1]) && pattern[i+2] == 'f' {
			return fixedFraction(int(pattern[i+1]-'0'), true), i + 3 - start, nil
		}
		return nil, 0, invalid(pattern, start, i+2, "unknown fractional-second directive")
	case '3', '6', '9':
		if strings.HasPrefix(pattern[i+1:], "f") {
			return fixedFraction(int(c-'0'), false), i + 2 - start, nil
		}
		return nil, 0, invalid(pattern, start, i+2, "unknown fractional-second directive")
	case ':':
		colons := 0
		for i < len(pattern) && pattern[i] == ':' && colons < 3 {
			colons++
			i++
		}
		if i < len(pattern) && pattern[i] == 'z' {
			return offset(colons), i + 1 - start, nil
		}
		return nil, 0, invalid(pattern, start, i+1, "unknown offset directive")
	}

	if fn, ok := directive(pattern[i]); ok {
		return fn, i + 1 - start, nil
	}
	return nil, 0, invalid(pattern, start, i+1, "unknown directive")
}

func isFractionWidth(c byte) bool {
	return c == '3' || c == '6' || c == '9'
}

// invalid builds an Error for pattern[start:end], widened to a whole rune.
func invalid(pattern string, start, end int, reason string) *Error {
	if end > len(pattern) {
		end = len(pattern)
	}
	if end < len(pattern) && !utf8.RuneStart(pattern[end]) {
		_, size := utf8.DecodeRuneInString(pattern[end-1:])
		end = end - 1 + size
	}
	return &Error{
		Pattern:   pattern,
		Offset:    start,
		Directive: pattern[start:end],
		Reason:    reason,
	}
}

func directive(c byte) (appender, bool) {
	switch c {
	case 'a', 'A', 'b', 'B', 'p', 'Z', 'd', 'e', 'H', 'I', 'j', 'm', 'M', 'S', 'y', 'Y':
		return delegate(c), true
	case 'h':
		return delegate('b'), true
	case 'C', 'g', 'G', 'k', 'l', 'u', 'U', 'V', 'w', 'W':
		return numerics[c].appender(padDefault), true
	case 'P':
		return func(dst []byte, t time.Time) []byte { return append(dst, t.Format("pm")...) }, true
	case 'f':
		return fixedFraction(9, false), true
	case 'z':
		return offset(0), true
	case 's':
		return func(dst []byte, t time.Time) []byte { return strconv.AppendInt(dst, t.Unix(), 10) }, true
	case 't':
		return literal("\t"), true
	case 'n':
		return literal("\n"), true
	case '%':
		return literal("%"), true
	case 'D', 'x':
		return expand("%m/%d/%y"), true
	case 'F':
		return expand("%Y-%m-%d"), true
	case 'v':
		return expand("%e-%b-%Y"), true
	case 'R':
		return expand("%H:%M"), true
	case 'T', 'X':
		return expand("%H:%M:%S"), true
	case 'r':
		return expand("%I:%M:%S %p"), true
	case 'c':
		return expand("%a %b %e %H:%M:%S %Y"), true
	case '+':
		return expand(RFC3339), true
	}
	return nil, false
}

// delegate renders a plain POSIX directive through the C-locale strftime implementation.
func delegate(c byte) appender {
	spec := "%" + string(c)
	return func(dst []byte, t time.Time) []byte {
		return append(dst, posix.Format(spec, t)...)
	}
}

func literal(s string) appender {
	return func(dst []byte, _ time.Time) []byte {
		return append(dst, s...)
	}
}

func expand(pattern string) appender {
	return MustCompile(pattern).AppendFormat
}

// autoFraction renders the fractional second with a leading dot using the shortest
// of 3, 6 or 9 digits that represents it exactly, or nothing when it is zero.
func autoFraction(dst []byte, t time.Time) []byte {
	ns := t.Nanosecond()
	switch {
	case ns == 0:
		return dst
	case ns%1_000_000 == 0:
		return appendFraction(append(dst, '.'), ns, 3)
	case ns%1_000 == 0:
		return appendFraction(append(dst, '.'), ns, 6)
	default:
		return appendFraction(append(dst, '.'), ns, 9)
	}
}

func fixedFraction(digits int, dot bool) appender {
	return func(dst []byte, t time.Time) []byte {
		if dot {
			dst = append(dst, '.')
		}
		return appendFraction(dst, t.Nanosecond(), digits)
	}
}

func appendFraction(dst []byte, ns, digits int) []byte {
	for i := digits; i < 9; i++ {
		ns /= 10
	}
	return appendInt(dst, ns, digits, '0')
}

// offset renders the UTC offset as +hhmm (0 colons), +hh:mm (1), +hh:mm:ss (2) or +hh (3).
func offset(colons int) appender {
	return func(dst []byte, t time.Time) []byte {
		_, off := t.Zone()
		sign := byte('+')
		if off < 0 {
			sign = '-'
			off = -off
		}

		dst = appendInt(append(dst, sign), off/3600, 2, '0')
		switch colons {
		case 0:
			dst = appendInt(dst, off/60%60, 2, '0')
		case 1:
			dst = appendInt(append(dst, ':'), off/60%60, 2, '0')
		case 2:
			dst = appendInt(append(dst, ':'), off/60%60, 2, '0')
			dst = appendInt(append(dst, ':'), off%60, 2, '0')
		}
		return dst
	}
}

// appendInt appends v left-padded with pad to width; a zero pad byte disables padding.
func appendInt(dst []byte, v, width int, pad byte) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
		width--
	}
	s := strconv.Itoa(v)
	if pad != 0 {
		for i := len(s); i < width; i++ {
			dst = append(dst, pad)
		}
	}
	return append(dst, s...)
}
