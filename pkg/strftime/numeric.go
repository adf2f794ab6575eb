package strftime

import "time"

// numeric is a directive that renders a single integer field.
type numeric struct {
	width int
	pad   byte
	value func(t time.Time) int
}

func (n numeric) appender(mode padMode) appender {
	pad := n.pad
	switch mode {
	case padNone:
		pad = 0
	case padSpace:
		pad = ' '
	case padZero:
		pad = '0'
	}
	return func(dst []byte, t time.Time) []byte {
		return appendInt(dst, n.value(t), n.width, pad)
	}
}

var numerics = map[byte]numeric{
	'Y': {4, '0', func(t time.Time) int { return t.Year() }},
	'C': {2, '0', func(t time.Time) int { return t.Year() / 100 }},
	'y': {2, '0', func(t time.Time) int { return t.Year() % 100 }},
	'm': {2, '0', func(t time.Time) int { return int(t.Month()) }},
	'd': {2, '0', func(t time.Time) int { return t.Day() }},
	'e': {2, ' ', func(t time.Time) int { return t.Day() }},
	'j': {3, '0', func(t time.Time) int { return t.YearDay() }},
	'H': {2, '0', func(t time.Time) int { return t.Hour() }},
	'k': {2, ' ', func(t time.Time) int { return t.Hour() }},
	'I': {2, '0', hour12},
	'l': {2, ' ', hour12},
	'M': {2, '0', func(t time.Time) int { return t.Minute() }},
	'S': {2, '0', func(t time.Time) int { return t.Second() }},
	'w': {1, '0', func(t time.Time) int { return int(t.Weekday()) }},
	'u': {1, '0', isoWeekday},
	'U': {2, '0', func(t time.Time) int { return (t.YearDay() - 1 + 7 - int(t.Weekday())) / 7 }},
	'W': {2, '0', func(t time.Time) int { return (t.YearDay() - 1 + 7 - (isoWeekday(t) - 1)) / 7 }},
	'V': {2, '0', isoWeek},
	'G': {4, '0', isoYear},
	'g': {2, '0', func(t time.Time) int { return isoYear(t) % 100 }},
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		return 12
	}
	return h
}

// isoWeekday returns the weekday with Monday = 1 and Sunday = 7.
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

func isoYear(t time.Time) int {
	year, _ := t.ISOWeek()
	return year
}

func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}
