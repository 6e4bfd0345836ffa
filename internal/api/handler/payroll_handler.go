package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/dto"
	"staffdesk/internal/service"
	"staffdesk/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// PayrollHandler payroll records, summary and exports
type PayrollHandler struct {
	payrollSvc service.PayrollService
}

// NewPayrollHandler creates a PayrollHandler
func NewPayrollHandler(payrollSvc service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollSvc: payrollSvc}
}

// GetPayroll records and summary for a filter
// GET /api/v1/payroll?from=&to=&event_id=&operator_id=
func (h *PayrollHandler) GetPayroll(c *gin.Context) {
	var req dto.PayrollRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.payrollSvc.Records(c.Request.Context(), &req)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, result)
}

// GetSummary totals only
// GET /api/v1/payroll/summary
func (h *PayrollHandler) GetSummary(c *gin.Context) {
	var req dto.PayrollRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.payrollSvc.Summary(c.Request.Context(), &req)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportXLSX
// GET /api/v1/payroll/export.xlsx
func (h *PayrollHandler) ExportXLSX(c *gin.Context) {
	var req dto.PayrollRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, err := h.payrollSvc.ExportXLSX(c.Request.Context(), &req)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	attachment(c, exportName(&req, "xlsx"), contentTypeXLSX, buf)
}

// ExportCSV
// GET /api/v1/payroll/export.csv
func (h *PayrollHandler) ExportCSV(c *gin.Context) {
	var req dto.PayrollRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, err := h.payrollSvc.ExportCSV(c.Request.Context(), &req)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	attachment(c, exportName(&req, "csv"), contentTypeCSV, buf)
}

func (h *PayrollHandler) handlePayrollError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 16001, "invalid date range")
	default:
		response.InternalError(c)
	}
}

// exportName payroll[_from][_to].ext
func exportName(req *dto.PayrollRequest, ext string) string {
	name := "payroll"
	if req.From != "" {
		name += "_" + req.From
	}
	if req.To != "" {
		name += "_" + req.To
	}
	return name + "." + ext
}

// attachment writes buf as a file download
func attachment(c *gin.Context, filename, contentType string, buf []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf)
}
