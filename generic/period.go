package generic

// =============================================================================
// PERIOD - Inclusive calendar range every budget computation is scoped to
// =============================================================================

// Period is an inclusive [Start, End] range of calendar days.
//
// Examples:
//   - Calendar month: Jan 1 - Jan 31
//   - Pay cycle: Dec 22 - Jan 25
//
// A period with End before Start is malformed; Days returns nothing for it.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps returns true if the two ranges share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	if p.End.Before(p.Start) {
		return nil
	}
	days := make([]TimePoint, 0, p.Len())
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Len returns the number of days in the period.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Months returns the first day of every calendar month the period touches.
func (p Period) Months() []TimePoint {
	if p.End.Before(p.Start) {
		return nil
	}
	var months []TimePoint
	current := StartOfMonth(p.Start.Year(), p.Start.Month())
	last := StartOfMonth(p.End.Year(), p.End.Month())
	for current.BeforeOrEqual(last) {
		months = append(months, current)
		current = current.AddMonthsClamped(1)
	}
	return months
}

// Validate returns ErrInvalidPeriod when End precedes Start.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
