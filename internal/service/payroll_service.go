package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"staffdesk/config"
	"staffdesk/internal/attendance"
	"staffdesk/internal/dto"
	"staffdesk/internal/model"
	"staffdesk/internal/payroll"
	"staffdesk/internal/repository"
)

var ErrInvalidDateRange = errors.New("invalid date range")

// ── payroll calculator (shared by event, assignment and payroll services) ──

type pairKey struct{ operatorID, eventID string }

type payrollCalculator struct {
	policy payroll.Policy
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func newPayrollCalculator(cfg *config.Config, repo *repository.Repository, loc *time.Location, logger *zap.Logger) *payrollCalculator {
	return &payrollCalculator{
		policy: payroll.NewPolicy(&cfg.Payroll),
		repo:   repo,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// records builds payroll records for every assignment matching filter.
// Assignments whose event is missing are dropped with a warning.
func (c *payrollCalculator) records(ctx context.Context, filter repository.AssignmentFilter) ([]payroll.Record, error) {
	assignments, err := c.repo.Assignment.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	byPair, err := c.attendance(ctx, assignments)
	if err != nil {
		return nil, err
	}

	inputs := make([]payroll.Input, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		inputs = append(inputs, c.input(a, byPair[pairKey{a.OperatorID, a.EventID}]))
	}
	return c.policy.BuildAll(inputs, c.now(), c.logger), nil
}

// record builds the payroll record of a single assignment
func (c *payrollCalculator) record(ctx context.Context, a *model.Assignment) (*payroll.Record, error) {
	recs, err := c.repo.Attendance.ListByPair(ctx, a.OperatorID, a.EventID)
	if err != nil {
		return nil, err
	}
	rec, err := c.policy.Build(c.input(a, recs), c.now())
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *payrollCalculator) attendance(ctx context.Context, assignments []model.Assignment) (map[pairKey][]model.AttendanceRecord, error) {
	seen := make(map[string]bool)
	var eventIDs []string
	for _, a := range assignments {
		if !seen[a.EventID] {
			seen[a.EventID] = true
			eventIDs = append(eventIDs, a.EventID)
		}
	}
	recs, err := c.repo.Attendance.ListByEvents(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[pairKey][]model.AttendanceRecord)
	for _, r := range recs {
		k := pairKey{r.OperatorID, r.EventID}
		out[k] = append(out[k], r)
	}
	return out, nil
}

// input maps a stored assignment to the builder's raw input
func (c *payrollCalculator) input(a *model.Assignment, recs []model.AttendanceRecord) payroll.Input {
	rate := a.HourlyRate
	in := payroll.Input{
		AssignmentID:    a.AssignmentID,
		OperatorID:      a.OperatorID,
		Role:            a.Role,
		HourlyRate:      &rate,
		HourlyRateSell:  a.HourlyRateSell,
		TotalHours:      a.TotalHours,
		NetHours:        a.NetHours,
		ActualHours:     a.ActualHours,
		Compensation:    a.Compensation,
		MealAllowance:   a.MealAllowance,
		TravelAllowance: a.TravelAllowance,
		Revenue:         a.Revenue,
	}
	if a.Operator != nil {
		in.OperatorName = a.Operator.FullName()
		in.RateOverride = a.Operator.GrossSalary
	}
	if a.Event != nil {
		in.Event = toEventInfo(a.Event)
	}
	if len(recs) > 0 {
		in.AttendanceRecorded = true
		in.Attendance = attendance.LatestDayStatus(recs, c.loc)
		in.WorkedHours = attendance.LatestWorkedHours(recs, c.loc)
	}
	return in
}

func toEventInfo(e *model.Event) *payroll.EventInfo {
	return &payroll.EventInfo{
		EventID:        e.EventID,
		Title:          e.Title,
		Start:          e.StartDate,
		End:            e.EndDate,
		Status:         e.Status,
		GrossHours:     e.GrossHours,
		NetHours:       e.NetHours,
		HourlyRateCost: e.HourlyRateCost,
		HourlyRateSell: e.HourlyRateSell,
	}
}

// ── PayrollService ──

// PayrollService payroll records, summary and exports
type PayrollService interface {
	Records(ctx context.Context, req *dto.PayrollRequest) (*dto.PayrollResponse, error)
	Summary(ctx context.Context, req *dto.PayrollRequest) (*dto.PayrollSummaryResponse, error)
	ExportXLSX(ctx context.Context, req *dto.PayrollRequest) ([]byte, error)
	ExportCSV(ctx context.Context, req *dto.PayrollRequest) ([]byte, error)
}

type payrollService struct {
	calc     *payrollCalculator
	currency string
	logger   *zap.Logger
}

// NewPayrollService creates a PayrollService
func NewPayrollService(cfg *config.Config, calc *payrollCalculator, logger *zap.Logger) PayrollService {
	return &payrollService{calc: calc, currency: cfg.Payroll.Currency, logger: logger}
}

func (s *payrollService) load(ctx context.Context, req *dto.PayrollRequest) ([]payroll.Record, error) {
	from, to, err := parseRange(req.From, req.To, s.calc.loc)
	if err != nil {
		return nil, err
	}
	records, err := s.calc.records(ctx, repository.AssignmentFilter{
		EventID:    req.EventID,
		OperatorID: req.OperatorID,
		From:       from,
		To:         to,
	})
	if err != nil {
		s.logger.Error("build payroll failed", zap.Error(err))
		return nil, err
	}
	return records, nil
}

// ────────────────────── Records ──────────────────────

func (s *payrollService) Records(ctx context.Context, req *dto.PayrollRequest) (*dto.PayrollResponse, error) {
	records, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	return &dto.PayrollResponse{
		Currency: s.currency,
		Records:  records,
		Summary:  payroll.Summarize(records),
	}, nil
}

// ────────────────────── Summary ──────────────────────

func (s *payrollService) Summary(ctx context.Context, req *dto.PayrollRequest) (*dto.PayrollSummaryResponse, error) {
	records, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	return &dto.PayrollSummaryResponse{Currency: s.currency, Summary: payroll.Summarize(records)}, nil
}

// ────────────────────── Export ──────────────────────

// csvRow one exported line
type csvRow struct {
	Operator        string  `csv:"operator"`
	Event           string  `csv:"event"`
	Date            string  `csv:"date"`
	Role            string  `csv:"role"`
	Status          string  `csv:"status"`
	Attendance      string  `csv:"attendance"`
	WorkedHours     string  `csv:"worked_hours"`
	GrossHours      float64 `csv:"gross_hours"`
	NetHours        float64 `csv:"net_hours"`
	ActualHours     string  `csv:"actual_hours"`
	HourlyRate      string  `csv:"hourly_rate"`
	Compensation    string  `csv:"compensation"`
	MealAllowance   string  `csv:"meal_allowance"`
	TravelAllowance string  `csv:"travel_allowance"`
	Total           string  `csv:"total"`
	Revenue         string  `csv:"revenue"`
}

// unmatched marks a worked-hours cell whose check-in has no check-out
const unmatched = "-"

func operatorLabel(r payroll.Record) string {
	if r.OperatorName == "" {
		return r.OperatorID
	}
	return r.OperatorName
}

func attendanceLabel(r payroll.Record) string {
	if r.Attendance == nil {
		return ""
	}
	return string(*r.Attendance)
}

func (s *payrollService) toRows(records []payroll.Record) []csvRow {
	rows := make([]csvRow, 0, len(records))
	for _, r := range records {
		row := csvRow{
			Operator:        operatorLabel(r),
			Event:           r.EventTitle,
			Date:            r.EventStart.In(s.calc.loc).Format("2006-01-02"),
			Role:            r.Role,
			Status:          string(r.Status),
			Attendance:      attendanceLabel(r),
			WorkedHours:     unmatched,
			GrossHours:      r.GrossHours,
			NetHours:        r.NetHours,
			HourlyRate:      r.HourlyRate.StringFixed(2),
			Compensation:    r.Compensation.StringFixed(2),
			MealAllowance:   r.MealAllowance.StringFixed(2),
			TravelAllowance: r.TravelAllowance.StringFixed(2),
			Total:           r.Total().StringFixed(2),
			Revenue:         r.Revenue.StringFixed(2),
		}
		if r.WorkedHours != nil {
			row.WorkedHours = fmt.Sprintf("%.2f", *r.WorkedHours)
		}
		if r.ActualHours != nil {
			row.ActualHours = fmt.Sprintf("%g", *r.ActualHours)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *payrollService) ExportCSV(ctx context.Context, req *dto.PayrollRequest) ([]byte, error) {
	records, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gocsv.Marshal(s.toRows(records), &buf); err != nil {
		s.logger.Error("encode payroll csv failed", zap.Error(err))
		return nil, err
	}
	return buf.Bytes(), nil
}

var xlsxHeaders = []string{
	"Operator", "Event", "Date", "Role", "Status", "Attendance", "Worked h",
	"Gross h", "Net h", "Actual h", "Rate", "Compensation",
	"Meal", "Travel", "Total", "Revenue",
}

// first money column (Rate), 1-based; every column after it is money too
const xlsxMoneyCol = 11

// xlsxRow cell values of one record; money as numbers so the sheet's
// number format applies
func (s *payrollService) xlsxRow(r payroll.Record) []interface{} {
	var worked, actual interface{} = unmatched, ""
	if r.WorkedHours != nil {
		worked = *r.WorkedHours
	}
	if r.ActualHours != nil {
		actual = *r.ActualHours
	}
	return []interface{}{
		operatorLabel(r), r.EventTitle, r.EventStart.In(s.calc.loc).Format("2006-01-02"),
		r.Role, string(r.Status), attendanceLabel(r), worked,
		r.GrossHours, r.NetHours, actual,
		r.HourlyRate.InexactFloat64(), r.Compensation.InexactFloat64(),
		r.MealAllowance.InexactFloat64(), r.TravelAllowance.InexactFloat64(),
		r.Total().InexactFloat64(), r.Revenue.InexactFloat64(),
	}
}

func (s *payrollService) ExportXLSX(ctx context.Context, req *dto.PayrollRequest) ([]byte, error) {
	records, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	buf, err := s.writeWorkbook(records)
	if err != nil {
		s.logger.Error("encode payroll xlsx failed", zap.Error(err))
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *payrollService) writeWorkbook(records []payroll.Record) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payroll"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}
	headerStyle, err := f.NewStyle(&header)
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}
	totals := header
	totals.NumFmt = 4
	totalsStyle, err := f.NewStyle(&totals)
	if err != nil {
		return nil, err
	}

	last, err := excelize.ColumnNumberToName(len(xlsxHeaders))
	if err != nil {
		return nil, err
	}
	money, err := excelize.ColumnNumberToName(xlsxMoneyCol)
	if err != nil {
		return nil, err
	}

	// header
	if err := f.SetSheetRow(sheet, "A1", &xlsxHeaders); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "C", last, 12); err != nil {
		return nil, err
	}

	// body
	row := 2
	for _, r := range records {
		values := s.xlsxRow(r)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
		row++
	}
	if row > 2 {
		if err := f.SetCellStyle(sheet, fmt.Sprintf("%s2", money), fmt.Sprintf("%s%d", last, row-1), moneyStyle); err != nil {
			return nil, err
		}
	}

	// totals
	sum := payroll.Summarize(records)
	footer := []interface{}{
		"TOTAL", "", "", "", "", "", "",
		sum.TotalGrossHours, sum.TotalNetHours, "", "",
		sum.TotalCompensation.InexactFloat64(), "", "",
		sum.TotalCompensation.Add(sum.TotalAllowances).InexactFloat64(),
		sum.TotalRevenue.InexactFloat64(),
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &footer); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), totalsStyle); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
