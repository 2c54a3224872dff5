package asset

import (
	"fmt"
	"math"
	"time"
)

// =============================================================================
// TEMPORAL UTILITIES - Pure month/day arithmetic shared by both engines
// =============================================================================
// The depreciation calculator works at month granularity; the booking
// engine works on instants with half-open intervals. Nothing here reads
// the wall clock: "now" is always passed in by the caller.

// MonthsBetween returns whole calendar months from a to b:
// (b.year - a.year) * 12 + (b.month - a.month).
// Day-of-month is deliberately ignored; partial months count as whole
// months, consistent with the month-granularity depreciation contract.
// Negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// DaysBetween returns the absolute whole-day count between two instants,
// ceiling-rounded.
func DaysBetween(a, b time.Time) int {
	hours := math.Abs(b.Sub(a).Hours())
	return int(math.Ceil(hours / 24))
}

// IsExpired reports whether end lies strictly in the past relative to now.
// Expiry is a derived, read-time property: reservation statuses are never
// auto-transitioned on expiry.
func IsExpired(end, now time.Time) bool {
	return now.After(end)
}

// ClampMonths bounds n to [lo, hi].
func ClampMonths(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// =============================================================================
// INTERVAL - Half-open [Start, End) time range
// =============================================================================

type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid reports whether the interval has strictly positive duration.
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals intersect:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 AND s2 < e1.
// Adjacent intervals (e1 == s2) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether t falls within the half-open interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
