package booking

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD into midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Day truncates t to its calendar day (as seen in t's location) at midnight UTC.
// All interval arithmetic is done on values normalised this way.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a day as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Interval is a half-open stay [Start, End): the guest arrives on Start and
// leaves on End, which is free for the next arrival.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval normalises both ends to calendar days
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: Day(start), End: Day(end)}
}

// IsEmpty reports whether the interval holds no night
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Overlaps is the half-open intersection test: [a,b) and [c,d) intersect iff a<d && c<b
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains reports Start <= day < End
func (i Interval) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(i.Start) && day.Before(i.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", FormatDate(i.Start), FormatDate(i.End))
}
