package date

import "fmt"

// Range is a closed interval of dates.
type Range struct{ From, To Date }

// NewRange returns the range of the period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains reports whether d is in r, bounds included.
func (r Range) Contains(d Date) bool { return r.From.Compare(d) <= 0 && d.Compare(r.To) <= 0 }

// Period returns the shortest standard period matching r exactly. ok is false
// for any other range.
func (r Range) Period() (p Period, ok bool) {
	for p := Daily; p <= Yearly; p++ {
		if NewRange(r.From, p) == r {
			return p, true
		}
	}
	return Daily, false
}

// Name is the period name of r, or "special".
func (r Range) Name() string {
	if p, ok := r.Period(); ok {
		return p.String()
	}
	return "special"
}

// Identifier is a short unique name for r, e.g. "2025-W37" or "2025-Q2".
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return r.From.String() + "_" + r.To.String()
	}
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}
