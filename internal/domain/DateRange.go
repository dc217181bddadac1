package domain

import "time"

// DateRange is an inclusive [Since, Until] interval of calendar days.
type DateRange struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	return int(r.Until.Sub(r.Since).Hours()/24) + 1
}

// Contains reports whether the given day falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Since) && !d.After(r.Until)
}
