// Package timeparse converts free-form English time expressions such as
// "in 2 hours", "tomorrow at 3pm" or "monday" into absolute timestamps.
// The grammar is fixed; anything outside it fails cleanly so the caller can
// ask the user to clarify. All arithmetic happens in the reference time's
// location; a deployment runs in a single timezone.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default times of day applied when an expression resolves a date but no
// explicit clock time.
const (
	DefaultHour   = 9  // "tomorrow", weekday names
	AfternoonHour = 14 // "tomorrow afternoon"
	EveningHour   = 18 // "tomorrow evening" / "tonight"
	WeekendHour   = 10 // "weekend" resolves to Saturday at 10:00
)

type relativePattern struct {
	re   *regexp.Regexp
	unit time.Duration
}

// A month is approximated as exactly 30 days. Known imprecision, kept until
// calendar-month arithmetic is actually needed.
var relativePatterns = []relativePattern{
	{regexp.MustCompile(`in (\d+) hour(?:s)?`), time.Hour},
	{regexp.MustCompile(`in (\d+) minute(?:s)?`), time.Minute},
	{regexp.MustCompile(`in (\d+) day(?:s)?`), 24 * time.Hour},
	{regexp.MustCompile(`in (\d+) week(?:s)?`), 7 * 24 * time.Hour},
	{regexp.MustCompile(`in (\d+) month(?:s)?`), 30 * 24 * time.Hour},
	{regexp.MustCompile(`(\d+) hour(?:s)? from now`), time.Hour},
	{regexp.MustCompile(`(\d+) minute(?:s)? from now`), time.Minute},
	{regexp.MustCompile(`(\d+) day(?:s)? from now`), 24 * time.Hour},
}

var (
	atClockRe   = regexp.MustCompile(`at (\d{1,2}):?(\d{2})?\s*(am|pm)?`)
	bareClockRe = regexp.MustCompile(`(\d{1,2}):?(\d{2})?\s*(am|pm)`)
)

type namedWeekday struct {
	name string
	day  time.Weekday
}

// Checked in order; longer names come before their abbreviations so that
// substring matching stays unambiguous.
var namedWeekdays = []namedWeekday{
	{"monday", time.Monday}, {"mon", time.Monday},
	{"tuesday", time.Tuesday}, {"tues", time.Tuesday}, {"tue", time.Tuesday},
	{"wednesday", time.Wednesday}, {"wed", time.Wednesday},
	{"thursday", time.Thursday}, {"thurs", time.Thursday}, {"thur", time.Thursday}, {"thu", time.Thursday},
	{"friday", time.Friday}, {"fri", time.Friday},
	{"saturday", time.Saturday}, {"sat", time.Saturday},
	{"sunday", time.Sunday}, {"sun", time.Sunday},
}

// Parse resolves a natural-language time expression against a reference
// instant. It returns false when the expression does not match the grammar;
// it never returns an error. The pattern families are tried in a fixed
// order, so an input carrying several cues ("friday in 2 hours") resolves
// by the first family that matches: relative durations win over everything.
func Parse(text string, ref time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(text))

	if t, ok := parseRelative(s, ref); ok {
		return t, true
	}
	if t, ok := parseNamedDay(s, ref); ok {
		// A named day combined with an explicit clock time overrides the
		// default hour. Combined parses trust the explicit day: no
		// roll-forward rule applies here.
		if h, m, ok2 := matchClock(atClockRe, s); ok2 {
			return atTime(t, h, m), true
		}
		return t, true
	}
	if t, ok := parseClockTime(s, ref); ok {
		return t, true
	}
	return time.Time{}, false
}

// parseRelative handles "in N <unit>" and "N <unit> from now".
func parseRelative(s string, ref time.Time) (time.Time, bool) {
	for _, p := range relativePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return ref.Add(time.Duration(n) * p.unit), true
	}
	return time.Time{}, false
}

// parseNamedDay handles "today", "tomorrow" (and its shorthand spellings),
// "day after tomorrow", "next week", "weekend" and weekday names.
func parseNamedDay(s string, ref time.Time) (time.Time, bool) {
	if strings.Contains(s, "today") {
		return atTime(ref, DefaultHour, 0), true
	}

	// Checked before "tomorrow", which is a substring of this phrase.
	if strings.Contains(s, "day after tomorrow") || strings.Contains(s, "overmorrow") {
		return atTime(ref.AddDate(0, 0, 2), DefaultHour, 0), true
	}

	if strings.Contains(s, "tomorrow") || strings.Contains(s, "tmrw") || strings.Contains(s, "tom") {
		tomorrow := ref.AddDate(0, 0, 1)
		switch {
		case strings.Contains(s, "morning"):
			return atTime(tomorrow, DefaultHour, 0), true
		case strings.Contains(s, "afternoon"):
			return atTime(tomorrow, AfternoonHour, 0), true
		case strings.Contains(s, "evening"), strings.Contains(s, "night"):
			return atTime(tomorrow, EveningHour, 0), true
		default:
			return atTime(tomorrow, DefaultHour, 0), true
		}
	}

	if strings.Contains(s, "next week") {
		return atTime(ref.AddDate(0, 0, 7), DefaultHour, 0), true
	}

	if strings.Contains(s, "weekend") {
		daysUntilSaturday := int((time.Saturday - ref.Weekday() + 7) % 7)
		if daysUntilSaturday == 0 && ref.Hour() > 12 {
			// Saturday afternoon already: assume the next weekend.
			daysUntilSaturday = 7
		}
		return atTime(ref.AddDate(0, 0, daysUntilSaturday), WeekendHour, 0), true
	}

	for _, wd := range namedWeekdays {
		if !strings.Contains(s, wd.name) {
			continue
		}
		daysAhead := int((wd.day - ref.Weekday() + 7) % 7)
		if daysAhead == 0 {
			// A named day is never "today", even when today is that day.
			daysAhead = 7
		}
		return atTime(ref.AddDate(0, 0, daysAhead), DefaultHour, 0), true
	}

	return time.Time{}, false
}

// parseClockTime handles "at 3pm", "at 15:00" and bare "3pm" forms. When the
// resolved same-day instant is not strictly after the reference, it rolls
// forward exactly one day.
func parseClockTime(s string, ref time.Time) (time.Time, bool) {
	hour, minute, ok := matchClock(atClockRe, s)
	if !ok {
		// Without the "at" prefix an am/pm marker is required, otherwise
		// any stray number would parse as a time.
		hour, minute, ok = matchClock(bareClockRe, s)
	}
	if !ok {
		return time.Time{}, false
	}

	target := atTime(ref, hour, minute)
	if !target.After(ref) {
		target = target.AddDate(0, 0, 1)
	}
	return target, true
}

// matchClock applies a clock regexp and converts a 12-hour match to
// 24-hour. Returns false when nothing matches or the hour is out of range.
func matchClock(re *regexp.Regexp, s string) (hour, minute int, ok bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}

	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch m[3] {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// atTime returns t's calendar date at the given wall-clock time.
func atTime(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// Format renders a parsed timestamp for humans relative to now: "today at
// 3:00 PM", "tomorrow at 9:00 AM", a weekday within the week, or the full
// date beyond that.
func Format(t, now time.Time) string {
	clock := t.Format("3:04 PM")

	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return "today at " + clock
	}

	tomorrow := now.AddDate(0, 0, 1)
	ny, nm, nd = tomorrow.Date()
	if ty == ny && tm == nm && td == nd {
		return "tomorrow at " + clock
	}

	if t.Before(now.AddDate(0, 0, 7)) {
		return t.Format("Monday") + " at " + clock
	}

	return t.Format("January 02, 2006") + " at " + clock
}
