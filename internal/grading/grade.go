// Package grading converts raw score totals into the Thai 0-4 grade scale.
package grading

import (
	"math"
	"strconv"
)

// Grade is a value on the 0-4 scale, or unavailable when there is nothing to grade.
type Grade struct {
	Value     float64
	Available bool
}

// NotAvailable is the grade of a missing or unusable total.
var NotAvailable = Grade{}

// String renders the grade the way score sheets print it: "3.5", "4", or "-".
func (g Grade) String() string {
	if !g.Available {
		return "-"
	}
	return strconv.FormatFloat(g.Value, 'f', -1, 64)
}

// band is the lowest percentage that earns a grade.
type band struct {
	min   float64
	grade float64
}

var bands = []band{
	{80, 4},
	{75, 3.5},
	{70, 3},
	{65, 2.5},
	{60, 2},
	{55, 1.5},
	{50, 1},
}

// NumericGrade grades total out of maxPossible. The total is scaled to a percentage
// unless maxPossible is 100 (or not positive), then capped at 100.
func NumericGrade(total *float64, maxPossible float64) Grade {
	if total == nil || math.IsNaN(*total) || *total < 0 {
		return NotAvailable
	}

	pct := *total
	if maxPossible != 100 && maxPossible > 0 {
		pct = pct / maxPossible * 100
	}
	pct = math.Min(pct, 100)

	for _, b := range bands {
		if pct >= b.min {
			return Grade{Value: b.grade, Available: true}
		}
	}
	return Grade{Value: 0, Available: true}
}

// Percentage returns total as a share of maxPossible, or nil when either is unusable.
func Percentage(total *float64, maxPossible float64) *float64 {
	if total == nil || maxPossible <= 0 {
		return nil
	}
	p := *total / maxPossible * 100
	return &p
}
