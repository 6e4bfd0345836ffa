package payroll

import "github.com/shopspring/decimal"

// Summary totals over a set of payroll records. No rounding is applied here.
type Summary struct {
	Records           int             `json:"records"`
	TotalGrossHours   float64         `json:"total_gross_hours"`
	TotalNetHours     float64         `json:"total_net_hours"`
	TotalCompensation decimal.Decimal `json:"total_compensation"`
	TotalAllowances   decimal.Decimal `json:"total_allowances"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

// Summarize folds records additively. Net hours use the actual hours of a
// record when present.
func Summarize(records []Record) Summary {
	s := Summary{
		TotalCompensation: decimal.Zero,
		TotalAllowances:   decimal.Zero,
		TotalRevenue:      decimal.Zero,
	}
	for _, r := range records {
		s.Records++
		s.TotalGrossHours += r.GrossHours
		s.TotalNetHours += r.PayableHours
		s.TotalCompensation = s.TotalCompensation.Add(r.Compensation)
		s.TotalAllowances = s.TotalAllowances.Add(r.Allowances())
		s.TotalRevenue = s.TotalRevenue.Add(r.Revenue)
	}
	return s
}
