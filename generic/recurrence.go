package generic

// =============================================================================
// RECURRENCE SCHEDULE - How a repeating amount lands on the calendar
// =============================================================================

// Cadence is the recurrence interval of a rule.
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceAnnual    Cadence = "annual"
)

// Cadences lists every supported cadence.
func Cadences() []Cadence {
	return []Cadence{CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceQuarterly, CadenceAnnual}
}

// Valid reports whether c is a known cadence.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceQuarterly, CadenceAnnual:
		return true
	}
	return false
}

// dayStep returns the step in days for day-based cadences, 0 otherwise.
func (c Cadence) dayStep() int {
	switch c {
	case CadenceWeekly:
		return 7
	case CadenceBiweekly:
		return 14
	}
	return 0
}

// monthStep returns the step in months for month-based cadences, 0 otherwise.
func (c Cadence) monthStep() int {
	switch c {
	case CadenceMonthly:
		return 1
	case CadenceQuarterly:
		return 3
	case CadenceAnnual:
		return 12
	}
	return 0
}

// Schedule generates the dates on which something recurs.
type Schedule interface {
	// Occurrences returns the dates in [from, to], ascending.
	Occurrences(from, to TimePoint) []TimePoint
}

// Recurrence is a Schedule anchored at Seed and repeating every Cadence.
//
// The nth occurrence is computed from the seed directly (seed + n steps), never
// from the previous occurrence, so month-based series never drift: a series
// seeded on the 31st lands on Feb 28/29 and returns to Mar 31.
//
// Dates before Seed never occur.
type Recurrence struct {
	Seed    TimePoint
	Cadence Cadence
}

// Nth returns the nth occurrence (n >= 0).
func (r Recurrence) Nth(n int) TimePoint {
	if step := r.Cadence.dayStep(); step > 0 {
		return r.Seed.AddDays(n * step)
	}
	return AddMonthsClampedDay(r.Seed, n*r.Cadence.monthStep(), r.Seed.Day())
}

// Occurrences returns every occurrence falling in [from, to].
func (r Recurrence) Occurrences(from, to TimePoint) []TimePoint {
	if !r.Cadence.Valid() || r.Seed.IsZero() || to.Before(from) || to.Before(r.Seed) {
		return nil
	}

	n := r.firstIndexOnOrAfter(from)
	var dates []TimePoint
	for {
		d := r.Nth(n)
		if d.After(to) {
			break
		}
		if d.AfterOrEqual(from) {
			dates = append(dates, d)
		}
		n++
	}
	return dates
}

// firstIndexOnOrAfter returns an index n whose occurrence is the first one on
// or after from. For month cadences it is a safe lower estimate; the caller
// filters anything still before from.
func (r Recurrence) firstIndexOnOrAfter(from TimePoint) int {
	if !from.After(r.Seed) {
		return 0
	}
	if step := r.Cadence.dayStep(); step > 0 {
		gap := DaysBetween(r.Seed, from)
		return (gap + step - 1) / step
	}
	step := r.Cadence.monthStep()
	months := (from.Year()-r.Seed.Year())*12 + int(from.Month()) - int(r.Seed.Month())
	n := months/step - 1
	if n < 0 {
		n = 0
	}
	return n
}
