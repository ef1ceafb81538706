package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/sohrab4u/consultation/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// DateRange selects records whose Field falls between Start and End,
// inclusive, compared by calendar date. A zero Start or End leaves that side
// open. An empty Field means model.ColCreatedDate.
type DateRange struct {
	Start time.Time
	End   time.Time
	Field string
}

// IsZero reports whether the range imposes no constraint.
func (d DateRange) IsZero() bool { return d.Start.IsZero() && d.End.IsZero() }

// Layouts accepted for textual timestamps, tried in order.
var layouts = []string{
	time.DateTime,
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006/01/02",
	"02-Jan-2006",
	"02 Jan 2006",
}

// ParseTimestamp coerces a cell value into a point in time. Spreadsheet serial
// numbers are accepted. ok is false when the value cannot be read.
func ParseTimestamp(v any) (time.Time, bool) {
	if model.IsNull(v) {
		return time.Time{}, false
	}
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case float64:
		if x <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(x, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	s := strings.TrimSpace(model.ToText(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a user-supplied date bound in one of the accepted layouts.
// An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	return t, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ByDateRange keeps the records whose date lies within r. Records whose value
// cannot be read as a timestamp never match. When the filter as a whole cannot
// be applied the original records are returned with an *Error.
func ByDateRange(records []model.Record, r DateRange) ([]model.Record, error) {
	if len(records) == 0 || r.IsZero() {
		return records, nil
	}
	field := r.Field
	if field == "" {
		field = model.ColCreatedDate
	}

	var start, end time.Time
	if !r.Start.IsZero() {
		start = dayOf(r.Start)
	}
	if !r.End.IsZero() {
		end = dayOf(r.End)
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return []model.Record{}, nil
	}

	present := false
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		v, ok := rec.Get(field)
		if !ok {
			continue
		}
		present = true
		ts, ok := ParseTimestamp(v)
		if !ok {
			continue
		}
		day := dayOf(ts)
		if !start.IsZero() && day.Before(start) {
			continue
		}
		if !end.IsZero() && day.After(end) {
			continue
		}
		out = append(out, rec)
	}
	if !present {
		return records, &Error{Filter: NameDateRange, Err: fmt.Errorf("%w: %s", ErrColumnMissing, field)}
	}
	return out, nil
}
