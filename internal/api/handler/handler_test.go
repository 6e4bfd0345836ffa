package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/dto"
	"staffdesk/internal/model"
	"staffdesk/internal/notify"
	"staffdesk/internal/service"
	pkgerrors "staffdesk/pkg/errors"
	"staffdesk/pkg/jwt"
	"staffdesk/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	logoutClaims  *jwt.Claims
	logoutRefresh string
	meResult      *dto.UserResponse
	meErr         error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, access *jwt.Claims, refresh string) error {
	m.logoutClaims, m.logoutRefresh = access, refresh
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock ClientService ──

type mockClientService struct {
	result   *dto.ClientResponse
	list     []dto.ClientResponse
	total    int64
	err      error
	callerID string
}

func (m *mockClientService) Create(_ context.Context, _ *dto.CreateClientRequest, callerID string) (*dto.ClientResponse, error) {
	m.callerID = callerID
	return m.result, m.err
}
func (m *mockClientService) GetByID(_ context.Context, _ string) (*dto.ClientResponse, error) {
	return m.result, m.err
}
func (m *mockClientService) List(_ context.Context, _ *dto.ClientListRequest) ([]dto.ClientResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockClientService) Update(_ context.Context, _ string, _ *dto.UpdateClientRequest, _ string) (*dto.ClientResponse, error) {
	return m.result, m.err
}
func (m *mockClientService) Delete(_ context.Context, _, _ string) error {
	return m.err
}

// ── Mock EventService ──

type mockEventService struct {
	result      *dto.EventResponse
	closeResult *dto.CloseEventResponse
	err         error
}

func (m *mockEventService) Create(_ context.Context, _ *dto.CreateEventRequest, _ string) (*dto.EventResponse, error) {
	return m.result, m.err
}
func (m *mockEventService) GetByID(_ context.Context, _ string) (*dto.EventResponse, error) {
	return m.result, m.err
}
func (m *mockEventService) List(_ context.Context, _ *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	return nil, 0, m.err
}
func (m *mockEventService) Update(_ context.Context, _ string, _ *dto.UpdateEventRequest, _ string) (*dto.EventResponse, error) {
	return m.result, m.err
}
func (m *mockEventService) Delete(_ context.Context, _, _ string) error { return m.err }
func (m *mockEventService) Close(_ context.Context, _, _ string) (*dto.CloseEventResponse, error) {
	return m.closeResult, m.err
}
func (m *mockEventService) CloseExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, m.err
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	result *dto.AssignmentResponse
	list   []dto.AssignmentResponse
	err    error
}

func (m *mockAssignmentService) Create(_ context.Context, _ string, _ *dto.CreateAssignmentRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.result, m.err
}
func (m *mockAssignmentService) ListByEvent(_ context.Context, _ string) ([]dto.AssignmentResponse, error) {
	return m.list, m.err
}
func (m *mockAssignmentService) Adjust(_ context.Context, _ string, _ *dto.AdjustAssignmentRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.result, m.err
}
func (m *mockAssignmentService) Delete(_ context.Context, _, _ string) error { return m.err }

// ── Mock PayrollService ──

type mockPayrollService struct {
	records *dto.PayrollResponse
	summary *dto.PayrollSummaryResponse
	file    []byte
	err     error
}

func (m *mockPayrollService) Records(_ context.Context, _ *dto.PayrollRequest) (*dto.PayrollResponse, error) {
	return m.records, m.err
}
func (m *mockPayrollService) Summary(_ context.Context, _ *dto.PayrollRequest) (*dto.PayrollSummaryResponse, error) {
	return m.summary, m.err
}
func (m *mockPayrollService) ExportXLSX(_ context.Context, _ *dto.PayrollRequest) ([]byte, error) {
	return m.file, m.err
}
func (m *mockPayrollService) ExportCSV(_ context.Context, _ *dto.PayrollRequest) ([]byte, error) {
	return m.file, m.err
}

// ── Mock OperatorService ──

type mockOperatorService struct {
	shifts     []dto.ShiftResponse
	payments   []dto.PaymentResponse
	err        error
	operatorID string
}

func (m *mockOperatorService) Create(_ context.Context, _ *dto.CreateOperatorRequest, _ string) (*dto.OperatorResponse, error) {
	return nil, m.err
}
func (m *mockOperatorService) GetByID(_ context.Context, _ string) (*dto.OperatorResponse, error) {
	return nil, m.err
}
func (m *mockOperatorService) List(_ context.Context, _ *dto.OperatorListRequest) ([]dto.OperatorResponse, int64, error) {
	return nil, 0, m.err
}
func (m *mockOperatorService) Update(_ context.Context, _ string, _ *dto.UpdateOperatorRequest, _ string) (*dto.OperatorResponse, error) {
	return nil, m.err
}
func (m *mockOperatorService) Delete(_ context.Context, _, _ string) error { return m.err }
func (m *mockOperatorService) Payments(_ context.Context, operatorID string) ([]dto.PaymentResponse, error) {
	m.operatorID = operatorID
	return m.payments, m.err
}
func (m *mockOperatorService) Shifts(_ context.Context, operatorID string, _ *dto.DateRangeQuery) ([]dto.ShiftResponse, error) {
	m.operatorID = operatorID
	return m.shifts, m.err
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	checkResult  *dto.CheckResponse
	statusResult *dto.AttendanceStatusResponse
	err          error
}

func (m *mockAttendanceService) Check(_ context.Context, _ string, _ *dto.CheckRequest) (*dto.CheckResponse, error) {
	return m.checkResult, m.err
}
func (m *mockAttendanceService) Status(_ context.Context, _, _ string) (*dto.AttendanceStatusResponse, error) {
	return m.statusResult, m.err
}
func (m *mockAttendanceService) List(_ context.Context, _ string, _ *dto.AttendanceQuery) ([]dto.AttendanceRecordResponse, error) {
	return nil, m.err
}

// ── Mock CalendarService ──

type mockCalendarService struct {
	ics []byte
	err error
}

func (m *mockCalendarService) Shifts(_ context.Context, _ string) ([]byte, error) {
	return m.ics, m.err
}

// ── Mock SyncService ──

type mockSyncService struct {
	status *dto.SyncStatusResponse
	err    error
}

func (m *mockSyncService) Status(_ context.Context) (*dto.SyncStatusResponse, error) {
	return m.status, m.err
}
func (m *mockSyncService) Retry(_ context.Context) (*dto.SyncRetryResponse, error) {
	return nil, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

const testEventID = "7b0e5f0e-3c2a-4d55-9a43-2f7d3c1b9e10"

func setAuth(c *gin.Context) {
	c.Set(CtxUserID, "test-user-id")
	c.Set(CtxRole, model.RoleAdmin)
}

func setOperatorAuth(c *gin.Context) {
	c.Set(CtxUserID, "test-user-id")
	c.Set(CtxRole, model.RoleOperator)
	c.Set(CtxOperatorID, "test-operator-id")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// serve runs one request through a single route, with auth applied first
func serve(method, route, target string, body io.Reader, auth func(*gin.Context), h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if auth != nil {
			auth(c)
		}
		h(c)
	})
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/login", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "admin",
		Password: "secret123",
	}), nil, h.Login)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", "/auth/login", strings.NewReader("invalid json"), nil, h.Login)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := serve("POST", "/auth/login", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "admin",
		Password: "wrong-password",
	}), nil, h.Login)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Refresh_Revoked(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrTokenRevoked})

	w := serve("POST", "/auth/refresh", "/auth/refresh", jsonBody(dto.RefreshRequest{RefreshToken: "old"}), nil, h.Refresh)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_PassesClaims(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)
	claims := &jwt.Claims{UserID: "test-user-id"}

	w := serve("POST", "/auth/logout", "/auth/logout", jsonBody(dto.LogoutRequest{RefreshToken: "r"}), func(c *gin.Context) {
		setAuth(c)
		c.Set(CtxClaims, claims)
	}, h.Logout)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutClaims != claims || mock.logoutRefresh != "r" {
		t.Errorf("logout got claims=%v refresh=%q", mock.logoutClaims, mock.logoutRefresh)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("GET", "/auth/me", "/auth/me", nil, nil, h.Me)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ClientHandler Tests
// ═══════════════════════════════════════════════════════════

func TestClientHandler_Create(t *testing.T) {
	mock := &mockClientService{result: &dto.ClientResponse{ID: "c1", Name: "Arena"}}
	h := NewClientHandler(mock)

	w := serve("POST", "/clients", "/clients", jsonBody(dto.CreateClientRequest{Name: "Arena"}), setAuth, h.CreateClient)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.callerID != "test-user-id" {
		t.Errorf("expected caller test-user-id, got %q", mock.callerID)
	}
}

func TestClientHandler_List_Paginated(t *testing.T) {
	mock := &mockClientService{list: []dto.ClientResponse{{ID: "c1"}, {ID: "c2"}}, total: 45}
	h := NewClientHandler(mock)

	w := serve("GET", "/clients", "/clients?page=2&page_size=20", nil, setAuth, h.ListClients)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.Page != 2 || body.Data.Pagination.TotalPages != 3 {
		t.Errorf("unexpected pagination: %+v", body.Data.Pagination)
	}
}

func TestClientHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"not found", service.ErrClientNotFound, http.StatusNotFound, 12001},
		{"has events", service.ErrClientHasEvents, http.StatusConflict, 12002},
		{"stale version", pkgerrors.ErrOptimisticLock, http.StatusConflict, 10006},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewClientHandler(&mockClientService{err: tt.err})
			w := serve("DELETE", "/clients/:id", "/clients/c1", nil, setAuth, h.DeleteClient)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// EventHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEventHandler_Close(t *testing.T) {
	mock := &mockEventService{closeResult: &dto.CloseEventResponse{PaymentsCreated: 2}}
	h := NewEventHandler(mock, &mockAssignmentService{})

	w := serve("POST", "/events/:id/close", "/events/e1/close", nil, setAuth, h.CloseEvent)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestEventHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"event missing", service.ErrEventNotFound, http.StatusNotFound, 13001},
		{"operator missing", service.ErrOperatorNotFound, http.StatusNotFound, 13003},
		{"cancelled", service.ErrEventCancelled, http.StatusConflict, 13006},
		{"duplicate", service.ErrAlreadyAssigned, http.StatusConflict, 13007},
		{"negative rate", service.ErrInvalidAmount, http.StatusBadRequest, 13008},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEventHandler(&mockEventService{}, &mockAssignmentService{err: tt.err})
			w := serve("POST", "/events/:id/assignments", "/events/e1/assignments",
				jsonBody(map[string]interface{}{"operator_id": testEventID, "role": "steward"}), setAuth, h.CreateAssignment)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestEventHandler_Create_BadDates(t *testing.T) {
	h := NewEventHandler(&mockEventService{err: service.ErrEventDateInvalid}, &mockAssignmentService{})

	w := serve("POST", "/events", "/events", jsonBody(map[string]interface{}{
		"client_id":  testEventID,
		"title":      "Expo",
		"start_date": "2026-03-11T18:00:00Z",
		"end_date":   "2026-03-11T08:00:00Z",
	}), setAuth, h.CreateEvent)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13004 {
		t.Errorf("expected code 13004, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssignmentHandler_Adjust_StaleVersion(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{err: pkgerrors.ErrOptimisticLock})

	w := serve("PUT", "/assignments/:id", "/assignments/a1", jsonBody(map[string]interface{}{"version": 1}), setAuth, h.AdjustAssignment)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAssignmentHandler_Adjust_NegativeAmount(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{err: service.ErrInvalidAmount})

	w := serve("PUT", "/assignments/:id", "/assignments/a1",
		jsonBody(map[string]interface{}{"version": 1, "meal_allowance": "-5"}), setAuth, h.AdjustAssignment)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15002 {
		t.Errorf("expected code 15002, got %d", resp.Code)
	}
}

func TestAssignmentHandler_Delete_NotFound(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{err: service.ErrAssignmentNotFound})

	w := serve("DELETE", "/assignments/:id", "/assignments/a1", nil, setAuth, h.DeleteAssignment)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PayrollHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPayrollHandler_ExportXLSX(t *testing.T) {
	h := NewPayrollHandler(&mockPayrollService{file: []byte("PK-fake-xlsx")})

	w := serve("GET", "/payroll/export.xlsx", "/payroll/export.xlsx?from=2026-03-01&to=2026-03-31", nil, setAuth, h.ExportXLSX)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "payroll_2026-03-01_2026-03-31.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if w.Body.String() != "PK-fake-xlsx" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestPayrollHandler_ExportCSV_Filename(t *testing.T) {
	h := NewPayrollHandler(&mockPayrollService{file: []byte("operator,event\n")})

	w := serve("GET", "/payroll/export.csv", "/payroll/export.csv", nil, setAuth, h.ExportCSV)

	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "payroll.csv") {
		t.Errorf("unexpected content disposition %q", cd)
	}
}

func TestPayrollHandler_InvalidRange(t *testing.T) {
	h := NewPayrollHandler(&mockPayrollService{err: service.ErrInvalidDateRange})

	w := serve("GET", "/payroll", "/payroll?from=2026-03-31&to=2026-03-01", nil, setAuth, h.GetPayroll)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 16001 {
		t.Errorf("expected code 16001, got %d", resp.Code)
	}
}

func TestPayrollHandler_BadOperatorFilter(t *testing.T) {
	h := NewPayrollHandler(&mockPayrollService{})

	w := serve("GET", "/payroll/summary", "/payroll/summary?operator_id=not-a-uuid", nil, setAuth, h.GetSummary)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// MeHandler Tests
// ═══════════════════════════════════════════════════════════

func newTestMeHandler(ops *mockOperatorService, att *mockAttendanceService, cal *mockCalendarService) *MeHandler {
	return NewMeHandler(ops, att, cal)
}

func TestMeHandler_Shifts_UsesLinkedOperator(t *testing.T) {
	ops := &mockOperatorService{shifts: []dto.ShiftResponse{{AssignmentID: "a1"}}}
	h := newTestMeHandler(ops, &mockAttendanceService{}, &mockCalendarService{})

	w := serve("GET", "/me/shifts", "/me/shifts", nil, setOperatorAuth, h.Shifts)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ops.operatorID != "test-operator-id" {
		t.Errorf("expected the linked operator, got %q", ops.operatorID)
	}
}

func TestMeHandler_ShiftsICS(t *testing.T) {
	cal := &mockCalendarService{ics: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")}
	h := newTestMeHandler(&mockOperatorService{}, &mockAttendanceService{}, cal)

	w := serve("GET", "/me/shifts.ics", "/me/shifts.ics", nil, setOperatorAuth, h.ShiftsICS)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeICS {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestMeHandler_Check_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"location unavailable", service.ErrLocationUnavailable, http.StatusUnprocessableEntity, 17005},
		{"not linked", service.ErrOperatorNotLinked, http.StatusForbidden, 17001},
		{"not assigned", service.ErrNotAssigned, http.StatusForbidden, 17002},
		{"cancelled", service.ErrEventCancelled, http.StatusConflict, 17004},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestMeHandler(&mockOperatorService{}, &mockAttendanceService{err: tt.err}, &mockCalendarService{})
			w := serve("POST", "/me/attendance", "/me/attendance", jsonBody(dto.CheckRequest{
				EventID:  testEventID,
				Readings: []dto.ReadingRequest{{Latitude: 45.46, Longitude: 9.19, Accuracy: 20}},
			}), setOperatorAuth, h.Check)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestMeHandler_Check_Created(t *testing.T) {
	att := &mockAttendanceService{checkResult: &dto.CheckResponse{Accurate: true}}
	h := newTestMeHandler(&mockOperatorService{}, att, &mockCalendarService{})

	w := serve("POST", "/me/attendance", "/me/attendance", jsonBody(dto.CheckRequest{EventID: testEventID}), setOperatorAuth, h.Check)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestMeHandler_AttendanceStatus_RequiresEvent(t *testing.T) {
	h := newTestMeHandler(&mockOperatorService{}, &mockAttendanceService{}, &mockCalendarService{})

	w := serve("GET", "/me/attendance", "/me/attendance", nil, setOperatorAuth, h.AttendanceStatus)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SyncHandler / ChangesHandler / HealthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSyncHandler_Retry_Disabled(t *testing.T) {
	h := NewSyncHandler(&mockSyncService{err: service.ErrMirrorDisabled})

	w := serve("POST", "/sync/retry", "/sync/retry", nil, setAuth, h.Retry)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestChangesVisibility(t *testing.T) {
	own := notify.Change{Collection: model.CollectionAttendance, OperatorID: "op-1"}
	other := notify.Change{Collection: model.CollectionAttendance, OperatorID: "op-2"}
	global := notify.Change{Collection: model.CollectionClients}

	if !visible(own, model.RoleOperator, "op-1") {
		t.Error("operator should see changes about them")
	}
	if visible(other, model.RoleOperator, "op-1") || visible(global, model.RoleOperator, "op-1") {
		t.Error("operator should not see other changes")
	}
	if !visible(other, model.RoleAdmin, "") || !visible(global, model.RoleAdmin, "") {
		t.Error("admin should see every change")
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{"database": stubPinger{}, "redis": nil})
	w := serve("GET", "/health", "/health", nil, nil, h.Health)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	h = NewHealthHandler(map[string]Pinger{"database": stubPinger{err: io.ErrUnexpectedEOF}})
	w = serve("GET", "/health", "/health", nil, nil, h.Health)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}
