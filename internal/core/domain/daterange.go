package domain

import "time"

// DateLayout is the wire and storage format for ledger dates.
const DateLayout = "2006-01-02"

// DateOnly strips the time component so ledger dates compare as pure calendar days.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StayRange is a [CheckIn, CheckOut) pair at daily granularity. Checkout is exclusive:
// a one-night stay touches exactly one ledger date.
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	r := StayRange{CheckIn: DateOnly(checkIn), CheckOut: DateOnly(checkOut)}
	if !r.CheckOut.After(r.CheckIn) {
		return StayRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Dates returns every calendar date the stay touches, ascending, checkout excluded.
// Increments use calendar-day arithmetic, not wall-clock offsets, so the sequence
// cannot drift across DST boundaries. Reserve, release, and availability all resolve
// their row scope through this one function.
func (r StayRange) Dates() ([]time.Time, error) {
	from := DateOnly(r.CheckIn)
	to := DateOnly(r.CheckOut)
	if !to.After(from) {
		return nil, ErrInvalidDateRange
	}

	var dates []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates, nil
}

// Nights is the number of ledger dates the stay consumes.
func (r StayRange) Nights() int {
	dates, err := r.Dates()
	if err != nil {
		return 0
	}
	return len(dates)
}
