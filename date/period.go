package date

import (
	"fmt"
	"strings"
)

// Period is a standard calendar period.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periods lists the names of each period, adjective first.
var periods = [...]struct{ name, unit string }{
	Daily:     {"daily", "day"},
	Weekly:    {"weekly", "week"},
	Monthly:   {"monthly", "month"},
	Quarterly: {"quarterly", "quarter"},
	Yearly:    {"yearly", "year"},
}

func (p Period) valid() bool { return p >= Daily && p <= Yearly }

func (p Period) String() string {
	if !p.valid() {
		panic(fmt.Sprintf("unknown period %d", p))
	}
	return periods[p].name
}

// Range returns the range of period p that contains d.
func (p Period) Range(d Date) Range { return NewRange(d, p) }

// ParsePeriod parses a period name like "monthly" or "month", ignoring case.
func ParsePeriod(s string) (Period, error) {
	for p, names := range periods {
		if strings.EqualFold(s, names.name) || strings.EqualFold(s, names.unit) {
			return Period(p), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q", s)
}
