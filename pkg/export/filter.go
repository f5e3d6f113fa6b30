package export

import "time"

// Filter selects which decoded entries a Reader yields. The zero value
// accepts everything. Criteria combine with AND; an unset criterion
// never rejects.
type Filter struct {
	// Unit keeps only entries whose _SYSTEMD_UNIT matches exactly.
	Unit string

	// Since and Until bound the entry timestamp, inclusive on both ends.
	// Entries with no derivable timestamp are never rejected on time.
	Since time.Time
	Until time.Time

	// Lines caps how many entries the caller renders. The Reader does
	// not enforce it; callers stop pulling once the cap is reached.
	Lines int
}

// Match reports whether e passes every configured criterion.
func (f *Filter) Match(e *Entry) bool {
	if f == nil {
		return true
	}
	if f.Unit != "" && e.Unit() != f.Unit {
		return false
	}
	if !f.Since.IsZero() || !f.Until.IsZero() {
		ts, ok := e.Realtime()
		if ok {
			if !f.Since.IsZero() && ts.Before(f.Since) {
				return false
			}
			if !f.Until.IsZero() && ts.After(f.Until) {
				return false
			}
		}
	}
	return true
}
