// Package schedule implements the seat/shift scheduling core: deciding
// whether two daily shift windows overlap and whether a seat can be
// assigned to a student under a given shift without colliding with
// another student's overlapping shift on the same seat.
package schedule

import "time"

const minutesPerDay = 24 * 60

// parseMinutes converts an "HH:MM" (or "HH:MM:SS", as MySQL TIME columns
// render) wall-clock string into minutes since midnight. The date and
// timezone components never participate; parsing onto the zero reference
// date is only a validation step.
func parseMinutes(s string) (int, bool) {
	layout := "15:04"
	if len(s) == 8 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// ValidTimeOfDay reports whether s is a parseable "HH:MM" wall-clock
// value. Handlers use it to reject malformed shift windows at the API
// boundary, before the fail-safe predicate would silently ignore them.
func ValidTimeOfDay(s string) bool {
	_, ok := parseMinutes(s)
	return ok
}

// segment is a half-open [start, end) range of minutes within a single day.
type segment struct {
	start int
	end   int
}

// daySegments normalizes a shift window into zero, one or two half-open
// segments on [0, 1440). A window whose end is numerically before its
// start wraps past midnight and is split at the day boundary, so
// 22:00-06:00 becomes [1320,1440) and [0,360). A window whose start and
// end coincide is degenerate and produces no segments.
func daySegments(start, end int) []segment {
	switch {
	case start == end:
		return nil
	case start < end:
		return []segment{{start, end}}
	default:
		return []segment{{start, minutesPerDay}, {0, end}}
	}
}

// Overlaps reports whether two shift windows share at least one instant.
// End times are exclusive: back-to-back shifts (08:00-14:00, 14:00-21:00)
// do not overlap. Windows wrapping past midnight are handled by splitting
// them at the day boundary and testing every segment pair.
//
// Unparseable time values make the predicate return false. This is a
// deliberate fail-safe: malformed shift data must not lock up seat
// assignment, so callers should log such input as a data-quality problem
// rather than rely on the predicate to reject it.
func Overlaps(start1, end1, start2, end2 string) bool {
	s1, ok1 := parseMinutes(start1)
	e1, ok2 := parseMinutes(end1)
	s2, ok3 := parseMinutes(start2)
	e2, ok4 := parseMinutes(end2)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	for _, a := range daySegments(s1, e1) {
		for _, b := range daySegments(s2, e2) {
			// Standard half-open interval intersection test.
			if a.start < b.end && b.start < a.end {
				return true
			}
		}
	}
	return false
}
