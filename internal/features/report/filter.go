package report

import (
	"fmt"
	"strings"
	"time"
)

// FilterField names an equality filter of ReportFilters
type FilterField string

const (
	FilterProperty FilterField = "property"
	FilterAssignee FilterField = "assignee"
	FilterStatus   FilterField = "status"
	FilterCategory FilterField = "category"
	FilterSource   FilterField = "source"
)

// FilterFields lists every equality filter in a stable order
var FilterFields = []FilterField{FilterProperty, FilterAssignee, FilterStatus, FilterCategory, FilterSource}

const filterAll = "all"

// isActive treats "", whitespace and "all" as no constraint
func isActive(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, filterAll)
}

// Value returns the filter value for field
func (f ReportFilters) Value(field FilterField) string {
	switch field {
	case FilterProperty:
		return f.Property
	case FilterAssignee:
		return f.Assignee
	case FilterStatus:
		return f.Status
	case FilterCategory:
		return f.Category
	case FilterSource:
		return f.Source
	default:
		return ""
	}
}

// Merge overlays the non-empty fields of partial. Use "all" to clear a field.
func (f ReportFilters) Merge(partial ReportFilters) ReportFilters {
	merged := f
	if partial.Property != "" {
		merged.Property = partial.Property
	}
	if partial.Assignee != "" {
		merged.Assignee = partial.Assignee
	}
	if partial.Status != "" {
		merged.Status = partial.Status
	}
	if partial.Category != "" {
		merged.Category = partial.Category
	}
	if partial.Source != "" {
		merged.Source = partial.Source
	}
	if partial.StartDate != "" {
		merged.StartDate = partial.StartDate
	}
	if partial.EndDate != "" {
		merged.EndDate = partial.EndDate
	}
	return merged
}

// WithDateRange replaces the date bounds
func (f ReportFilters) WithDateRange(r *DateRange) ReportFilters {
	if r == nil {
		return f
	}
	f.StartDate = r.Start
	f.EndDate = r.End
	return f
}

// DateRange returns the bounds as a DateRange, or nil when both are empty
func (f ReportFilters) DateRange() *DateRange {
	if f.StartDate == "" && f.EndDate == "" {
		return nil
	}
	return &DateRange{Start: f.StartDate, End: f.EndDate}
}

type equalityCheck struct {
	key  string
	want string
}

type dateBounds struct {
	start, end       time.Time
	hasStart, hasEnd bool
}

func (b dateBounds) active() bool {
	return b.hasStart || b.hasEnd
}

func (b dateBounds) contains(d time.Time) bool {
	if b.hasStart && d.Before(b.start) {
		return false
	}
	if b.hasEnd && d.After(b.end) {
		return false
	}
	return true
}

// predicate is a compiled ReportFilters for one descriptor
type predicate struct {
	equals  []equalityCheck
	dateKey string
	bounds  dateBounds
}

func compilePredicate(d *Descriptor, filters ReportFilters) (predicate, error) {
	var p predicate
	for _, field := range FilterFields {
		want := filters.Value(field)
		if !isActive(want) {
			continue
		}
		key, ok := d.FilterKey(field)
		if !ok {
			continue
		}
		p.equals = append(p.equals, equalityCheck{key: key, want: strings.TrimSpace(want)})
	}

	if !d.SupportsDateRange() {
		return p, nil
	}
	p.dateKey = d.DateField

	if isActive(filters.StartDate) {
		start, err := parseISODate(filters.StartDate)
		if err != nil {
			return p, fmt.Errorf("invalid start date %q: %w", filters.StartDate, err)
		}
		p.bounds.start, p.bounds.hasStart = start, true
	}
	if isActive(filters.EndDate) {
		end, err := parseISODate(filters.EndDate)
		if err != nil {
			return p, fmt.Errorf("invalid end date %q: %w", filters.EndDate, err)
		}
		p.bounds.end, p.bounds.hasEnd = end, true
	}
	if p.bounds.hasStart && p.bounds.hasEnd && p.bounds.end.Before(p.bounds.start) {
		return p, fmt.Errorf("end date %s is before start date %s", filters.EndDate, filters.StartDate)
	}
	return p, nil
}

func (p predicate) matches(row Row) bool {
	for _, check := range p.equals {
		value, ok := row.Get(check.key)
		if !ok {
			continue
		}
		if fmt.Sprint(value) != check.want {
			return false
		}
	}

	if !p.bounds.active() {
		return true
	}
	value, ok := row.Get(p.dateKey)
	if !ok {
		return false
	}
	d, ok := dateValue(value)
	if !ok {
		return false
	}
	return p.bounds.contains(d)
}

// parseISODate accepts a calendar date or an RFC 3339 timestamp and keeps the day
func parseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return truncateDay(t), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateValue(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return truncateDay(d), true
	case string:
		if d == "" {
			return time.Time{}, false
		}
		t, err := parseISODate(d)
		return t, err == nil
	default:
		return time.Time{}, false
	}
}
