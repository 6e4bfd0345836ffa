// Package payroll derives hours, compensation, allowances and revenue for
// assignments. Everything here is a pure function of its inputs.
package payroll

import (
	"math"
	"time"
)

// GrossHours is the wall-clock span between start and end in hours, rounded
// to one decimal. end before start yields a negative value.
func GrossHours(start, end time.Time) float64 {
	return Round(end.Sub(start).Hours(), 1)
}

// NetHours applies the default break rule to gross.
func NetHours(gross float64) float64 {
	return DefaultPolicy().NetHours(gross)
}

// NetHours subtracts the unpaid break when gross exceeds the threshold.
func (p Policy) NetHours(gross float64) float64 {
	if gross > p.BreakThresholdHours {
		return Round(gross-p.BreakHours, 1)
	}
	return gross
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
