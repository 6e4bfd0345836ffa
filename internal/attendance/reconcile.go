package attendance

import (
	"sort"
	"time"

	"staffdesk/internal/model"
	"staffdesk/internal/payroll"
)

// The functions below expect records already filtered to one
// (operator, event) pair. Days are calendar days in loc.

// sameDay reports whether a and b fall on the same calendar day in loc
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DayStart midnight of t's day in loc
func DayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// OnDay returns the records of day in chronological order. Records with
// equal timestamps keep their stored order.
func OnDay(records []model.AttendanceRecord, day time.Time, loc *time.Location) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if sameDay(r.Timestamp, day, loc) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// NextAction toggles on the latest record of day: after a check-in comes a
// check-out, otherwise a check-in.
func NextAction(records []model.AttendanceRecord, day time.Time, loc *time.Location) model.CheckType {
	today := OnDay(records, day, loc)
	if len(today) == 0 {
		return model.CheckIn
	}
	if today[len(today)-1].Type == model.CheckIn {
		return model.CheckOut
	}
	return model.CheckIn
}

// pair earliest check-in and latest check-out of day
func pair(records []model.AttendanceRecord, day time.Time, loc *time.Location) (in, out *model.AttendanceRecord) {
	today := OnDay(records, day, loc)
	for i := range today {
		r := &today[i]
		switch r.Type {
		case model.CheckIn:
			if in == nil {
				in = r
			}
		case model.CheckOut:
			out = r
		}
	}
	return in, out
}

// WorkedHours pairs the earliest check-in with the latest check-out of day,
// rounded to two decimals. An unpaired day yields nil, never zero.
func WorkedHours(records []model.AttendanceRecord, day time.Time, loc *time.Location) *float64 {
	in, out := pair(records, day, loc)
	if in == nil || out == nil || !out.Timestamp.After(in.Timestamp) {
		return nil
	}
	h := payroll.Round(out.Timestamp.Sub(in.Timestamp).Hours(), 2)
	return &h
}

// DayStatus present when day has both a check-in and a check-out, late when
// it only has a check-in, nil otherwise.
func DayStatus(records []model.AttendanceRecord, day time.Time, loc *time.Location) *model.AttendanceStatus {
	in, out := pair(records, day, loc)
	var s model.AttendanceStatus
	switch {
	case in != nil && out != nil:
		s = model.AttendancePresent
	case in != nil:
		s = model.AttendanceLate
	default:
		return nil
	}
	return &s
}

func latest(records []model.AttendanceRecord) time.Time {
	t := records[0].Timestamp
	for _, r := range records[1:] {
		if r.Timestamp.After(t) {
			t = r.Timestamp
		}
	}
	return t
}

// LatestDayStatus DayStatus of the most recent day that has records
func LatestDayStatus(records []model.AttendanceRecord, loc *time.Location) *model.AttendanceStatus {
	if len(records) == 0 {
		return nil
	}
	return DayStatus(records, latest(records), loc)
}

// LatestWorkedHours WorkedHours of the most recent day that has records
func LatestWorkedHours(records []model.AttendanceRecord, loc *time.Location) *float64 {
	if len(records) == 0 {
		return nil
	}
	return WorkedHours(records, latest(records), loc)
}

// Day reconciled view of one calendar day
type Day struct {
	Date         time.Time               `json:"date"`
	NextAction   model.CheckType         `json:"next_action"`
	Status       *model.AttendanceStatus `json:"status"`
	FirstCheckIn *time.Time              `json:"first_check_in"`
	LastCheckOut *time.Time              `json:"last_check_out"`
	WorkedHours  *float64                `json:"worked_hours"`
	Records      int                     `json:"records"`
}

// Reconcile builds the Day view for day
func Reconcile(records []model.AttendanceRecord, day time.Time, loc *time.Location) Day {
	d := Day{
		Date:        DayStart(day, loc),
		NextAction:  NextAction(records, day, loc),
		Status:      DayStatus(records, day, loc),
		WorkedHours: WorkedHours(records, day, loc),
		Records:     len(OnDay(records, day, loc)),
	}
	in, out := pair(records, day, loc)
	if in != nil {
		t := in.Timestamp
		d.FirstCheckIn = &t
	}
	if out != nil {
		t := out.Timestamp
		d.LastCheckOut = &t
	}
	return d
}

// Days reconciles every day that has records, most recent first
func Days(records []model.AttendanceRecord, loc *time.Location) []Day {
	seen := make(map[time.Time]bool)
	var starts []time.Time
	for _, r := range records {
		s := DayStart(r.Timestamp, loc)
		if !seen[s] {
			seen[s] = true
			starts = append(starts, s)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].After(starts[j]) })

	days := make([]Day, 0, len(starts))
	for _, s := range starts {
		days = append(days, Reconcile(records, s, loc))
	}
	return days
}
