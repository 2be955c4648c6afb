// Package period parses the startDate/endDate filters shared by the list endpoints.
package period

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

// Range is an inclusive time window; a nil bound is open.
type Range struct {
	From *time.Time
	To   *time.Time
}

// Parse reads optional start and end values. A plain date as end covers the
// whole day. RFC 3339 timestamps are used as given.
func Parse(start, end string) (Range, error) {
	var r Range
	if start != "" {
		t, _, err := parse(start)
		if err != nil {
			return Range{}, fmt.Errorf("invalid startDate %q", start)
		}
		r.From = &t
	}
	if end != "" {
		t, dateOnly, err := parse(end)
		if err != nil {
			return Range{}, fmt.Errorf("invalid endDate %q", end)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return Range{}, fmt.Errorf("endDate is before startDate")
	}
	return r, nil
}

func parse(v string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(DateLayout, v, time.UTC); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}

// Apply restricts q to rows whose column falls inside the range.
func (r Range) Apply(q *gorm.DB, column string) *gorm.DB {
	if r.From != nil {
		q = q.Where(column+" >= ?", *r.From)
	}
	if r.To != nil {
		q = q.Where(column+" <= ?", *r.To)
	}
	return q
}

func (r Range) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}
