// Package timespec resolves user-supplied time expressions into
// absolute timestamps for the decoder's filter. The decoder core only
// ever sees resolved time.Time values; everything fuzzy lives here.
//
// Accepted forms follow journalctl's --since/--until conventions:
// keywords ("now", "today", "yesterday", "tomorrow"), relative offsets
// ("-2h", "+30m", "2 days ago"), and absolute dates in any layout
// dateparse recognizes ("2020-08-29", "2020-08-29 15:51:00",
// "Aug 29, 2020").
package timespec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parse resolves expr relative to now.
func Parse(expr string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return time.Time{}, fmt.Errorf("timespec: empty expression")
	}

	switch strings.ToLower(s) {
	case "now":
		return now, nil
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now).AddDate(0, 0, -1), nil
	case "tomorrow":
		return midnight(now).AddDate(0, 0, 1), nil
	}

	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		d, err := parseSpan(s[1:])
		if err != nil {
			return time.Time{}, fmt.Errorf("timespec: %q: %w", expr, err)
		}
		if s[0] == '-' {
			return now.Add(-d), nil
		}
		return now.Add(d), nil
	}

	if rest, ok := strings.CutSuffix(strings.ToLower(s), " ago"); ok {
		d, err := parseSpan(rest)
		if err != nil {
			return time.Time{}, fmt.Errorf("timespec: %q: %w", expr, err)
		}
		return now.Add(-d), nil
	}

	t, err := dateparse.ParseIn(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("timespec: cannot parse %q: %w", expr, err)
	}
	return t, nil
}

func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// spanUnits maps systemd.time(7) unit spellings to durations.
var spanUnits = map[string]time.Duration{
	"us": time.Microsecond, "usec": time.Microsecond,
	"ms": time.Millisecond, "msec": time.Millisecond,
	"s": time.Second, "sec": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
}

// parseSpan reads a sequence of value/unit pairs ("2h", "1 day",
// "1h 30min") and sums them.
func parseSpan(s string) (time.Duration, error) {
	var total time.Duration
	pending := -1.0 // number still waiting for its unit token
	matched := false
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		i := 0
		for i < len(tok) && (tok[i] >= '0' && tok[i] <= '9' || tok[i] == '.') {
			i++
		}
		if i == 0 {
			// bare unit completes a pending number, as in "1 day"
			unit, ok := spanUnits[tok]
			if !ok {
				return 0, fmt.Errorf("unknown time unit %q", tok)
			}
			if pending < 0 {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			total += time.Duration(pending * float64(unit))
			pending = -1
			matched = true
			continue
		}
		value, err := strconv.ParseFloat(tok[:i], 64)
		if err != nil || pending >= 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		if tok[i:] == "" {
			pending = value
			continue
		}
		unit, ok := spanUnits[tok[i:]]
		if !ok {
			return 0, fmt.Errorf("unknown time unit %q", tok[i:])
		}
		total += time.Duration(value * float64(unit))
		matched = true
	}
	if pending >= 0 || !matched {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return total, nil
}
