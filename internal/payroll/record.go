package payroll

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"staffdesk/config"
	"staffdesk/internal/model"
)

var (
	ErrMissingEvent   = errors.New("payroll: assignment has no event")
	ErrMalformedEvent = errors.New("payroll: event has neither a time span nor recorded hours")
)

// Policy holds the defaults used when an assignment carries no explicit value.
type Policy struct {
	BreakThresholdHours float64
	BreakHours          float64
	MealAllowance       decimal.Decimal
	TravelAllowance     decimal.Decimal
	DefaultSellRate     decimal.Decimal
}

// DefaultPolicy 1h break above 5h, meal 10, travel 15, sell rate 25.
func DefaultPolicy() Policy {
	return Policy{
		BreakThresholdHours: 5,
		BreakHours:          1,
		MealAllowance:       decimal.NewFromInt(10),
		TravelAllowance:     decimal.NewFromInt(15),
		DefaultSellRate:     decimal.NewFromInt(25),
	}
}

// NewPolicy builds a Policy from configuration.
func NewPolicy(cfg *config.PayrollConfig) Policy {
	return Policy{
		BreakThresholdHours: cfg.BreakThresholdHours,
		BreakHours:          cfg.BreakHours,
		MealAllowance:       decimal.NewFromFloat(cfg.MealAllowance),
		TravelAllowance:     decimal.NewFromFloat(cfg.TravelAllowance),
		DefaultSellRate:     decimal.NewFromFloat(cfg.DefaultSellRate),
	}
}

// EventInfo is the slice of an event the builder needs.
type EventInfo struct {
	EventID        string
	Title          string
	Start          time.Time
	End            time.Time
	Status         model.EventStatus
	GrossHours     *float64
	NetHours       *float64
	HourlyRateCost decimal.Decimal
	HourlyRateSell *decimal.Decimal
}

// Input is a raw assignment as stored: every pointer may be nil.
type Input struct {
	AssignmentID string
	OperatorID   string
	OperatorName string
	Role         string
	Event        *EventInfo

	HourlyRate     *decimal.Decimal // assignment rate; nil falls back to the event rate
	RateOverride   *decimal.Decimal // operator contract rate
	HourlyRateSell *decimal.Decimal

	TotalHours  *float64
	NetHours    *float64
	ActualHours *float64

	Compensation    *decimal.Decimal
	MealAllowance   *decimal.Decimal
	TravelAllowance *decimal.Decimal
	Revenue         *decimal.Decimal

	// AttendanceRecorded is true when at least one check-in/out exists for
	// the (operator, event) pair; Attendance is then the status derived
	// from those records and may be nil.
	AttendanceRecorded bool
	Attendance         *model.AttendanceStatus
	WorkedHours        *float64 // check-in to check-out span of the latest day; nil when unpaired
}

// Record is the derived payroll calculation for one assignment.
type Record struct {
	AssignmentID string                  `json:"assignment_id"`
	OperatorID   string                  `json:"operator_id"`
	OperatorName string                  `json:"operator_name,omitempty"`
	EventID      string                  `json:"event_id"`
	EventTitle   string                  `json:"event_title,omitempty"`
	Role         string                  `json:"role,omitempty"`
	EventStart   time.Time               `json:"event_start"`
	EventEnd     time.Time               `json:"event_end"`
	Status       model.EventStatus       `json:"status"`
	Attendance   *model.AttendanceStatus `json:"attendance"`
	WorkedHours  *float64                `json:"worked_hours"`

	GrossHours   float64  `json:"gross_hours"`
	NetHours     float64  `json:"net_hours"`
	ActualHours  *float64 `json:"actual_hours"`
	PayableHours float64  `json:"payable_hours"`

	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	HourlyRateSell  decimal.Decimal `json:"hourly_rate_sell"`
	Compensation    decimal.Decimal `json:"compensation"`
	MealAllowance   decimal.Decimal `json:"meal_allowance"`
	TravelAllowance decimal.Decimal `json:"travel_allowance"`
	Revenue         decimal.Decimal `json:"revenue"`
}

// Allowances meal + travel
func (r Record) Allowances() decimal.Decimal {
	return r.MealAllowance.Add(r.TravelAllowance)
}

// Total compensation plus allowances
func (r Record) Total() decimal.Decimal {
	return r.Compensation.Add(r.Allowances())
}

// resolved is an Input after every fallback chain has been applied.
type resolved struct {
	status       model.EventStatus
	gross        float64
	net          float64
	actual       *float64
	rate         decimal.Decimal
	sellRate     decimal.Decimal
	compensation *decimal.Decimal
	meal         decimal.Decimal
	travel       decimal.Decimal
	revenue      *decimal.Decimal
	attendance   *model.AttendanceStatus
}

func (p Policy) resolve(in Input, now time.Time) resolved {
	ev := in.Event
	r := resolved{
		status:       model.CorrectStatus(ev.Status, ev.End, now),
		actual:       in.ActualHours,
		compensation: in.Compensation,
		revenue:      in.Revenue,
	}

	switch {
	case in.TotalHours != nil:
		r.gross = *in.TotalHours
	case ev.GrossHours != nil:
		r.gross = *ev.GrossHours
	default:
		r.gross = GrossHours(ev.Start, ev.End)
	}

	switch {
	case in.NetHours != nil:
		r.net = *in.NetHours
	case ev.NetHours != nil && in.TotalHours == nil:
		r.net = *ev.NetHours
	default:
		r.net = p.NetHours(r.gross)
	}

	switch {
	case in.RateOverride != nil && in.RateOverride.IsPositive():
		r.rate = *in.RateOverride
	case in.HourlyRate != nil:
		r.rate = *in.HourlyRate
	default:
		r.rate = ev.HourlyRateCost
	}

	switch {
	case in.HourlyRateSell != nil:
		r.sellRate = *in.HourlyRateSell
	case ev.HourlyRateSell != nil:
		r.sellRate = *ev.HourlyRateSell
	default:
		r.sellRate = p.DefaultSellRate
	}

	if in.MealAllowance != nil {
		r.meal = *in.MealAllowance
	} else if r.gross > p.BreakThresholdHours {
		r.meal = p.MealAllowance
	} else {
		r.meal = decimal.Zero
	}

	if in.TravelAllowance != nil {
		r.travel = *in.TravelAllowance
	} else {
		r.travel = p.TravelAllowance
	}

	r.attendance = resolveAttendance(r.status, ev.End, now, in.AttendanceRecorded, in.Attendance)
	return r
}

// resolveAttendance is the single attendance rule: recorded check-ins win;
// without any record a past completed event defaults to present.
func resolveAttendance(status model.EventStatus, end, now time.Time, recorded bool, derived *model.AttendanceStatus) *model.AttendanceStatus {
	if recorded {
		return derived
	}
	if status == model.EventCompleted && end.Before(now) {
		present := model.AttendancePresent
		return &present
	}
	return nil
}

// Build derives the payroll record for in as of now.
func (p Policy) Build(in Input, now time.Time) (Record, error) {
	if in.Event == nil || in.Event.EventID == "" {
		return Record{}, ErrMissingEvent
	}
	if in.TotalHours == nil && in.Event.GrossHours == nil && (in.Event.Start.IsZero() || in.Event.End.IsZero()) {
		return Record{}, ErrMalformedEvent
	}

	r := p.resolve(in, now)

	payable := r.net
	if r.actual != nil {
		payable = *r.actual
	}

	compensation := decimal.NewFromFloat(payable).Mul(r.rate)
	if r.compensation != nil {
		compensation = *r.compensation
	}

	revenue := decimal.NewFromFloat(r.net).Mul(r.sellRate)
	if r.revenue != nil {
		revenue = *r.revenue
	}

	var actual *float64
	if r.actual != nil {
		v := *r.actual
		actual = &v
	}

	return Record{
		AssignmentID:    in.AssignmentID,
		OperatorID:      in.OperatorID,
		OperatorName:    in.OperatorName,
		EventID:         in.Event.EventID,
		EventTitle:      in.Event.Title,
		Role:            in.Role,
		EventStart:      in.Event.Start,
		EventEnd:        in.Event.End,
		Status:          r.status,
		Attendance:      r.attendance,
		WorkedHours:     in.WorkedHours,
		GrossHours:      r.gross,
		NetHours:        r.net,
		ActualHours:     actual,
		PayableHours:    payable,
		HourlyRate:      r.rate,
		HourlyRateSell:  r.sellRate,
		Compensation:    compensation,
		MealAllowance:   r.meal,
		TravelAllowance: r.travel,
		Revenue:         revenue,
	}, nil
}

// BuildAll builds every input, dropping (and logging) the ones whose event
// data is missing or malformed.
func (p Policy) BuildAll(inputs []Input, now time.Time, logger *zap.Logger) []Record {
	records := make([]Record, 0, len(inputs))
	for _, in := range inputs {
		rec, err := p.Build(in, now)
		if err != nil {
			logger.Warn("payroll record skipped",
				zap.String("assignment_id", in.AssignmentID),
				zap.String("operator_id", in.OperatorID),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	return records
}
