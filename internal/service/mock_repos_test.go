package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffdesk/config"
	"staffdesk/internal/model"
	"staffdesk/internal/notify"
	"staffdesk/internal/repository"
	pkgerrors "staffdesk/pkg/errors"
	"staffdesk/pkg/jwt"
)

// ── Mock ClientRepository ──

type mockClientRepo struct {
	clients map[string]*model.Client
	events  *mockEventRepo
	seq     int
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[string]*model.Client)}
}

func (m *mockClientRepo) Create(_ context.Context, client *model.Client) error {
	if client.ClientID == "" {
		m.seq++
		client.ClientID = fmt.Sprintf("client-%d", m.seq)
	}
	c := *client
	m.clients[c.ClientID] = &c
	return nil
}

func (m *mockClientRepo) GetByID(_ context.Context, id string) (*model.Client, error) {
	if c, ok := m.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClientRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Client, error) {
	var result []model.Client
	for _, id := range ids {
		if c, err := m.GetByID(ctx, id); err == nil {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockClientRepo) List(_ context.Context, filter repository.ClientFilter, page repository.Page) ([]model.Client, int64, error) {
	var all []model.Client
	for _, c := range m.clients {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, page), int64(len(all)), nil
}

func (m *mockClientRepo) Update(_ context.Context, client *model.Client) error {
	stored, ok := m.clients[client.ClientID]
	if !ok || stored.Version != client.Version {
		return pkgerrors.ErrOptimisticLock
	}
	client.Version++
	c := *client
	m.clients[c.ClientID] = &c
	return nil
}

func (m *mockClientRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.clients[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.clients, id)
	return nil
}

func (m *mockClientRepo) CountEvents(_ context.Context, clientIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(clientIDs))
	if m.events == nil {
		return out, nil
	}
	for _, id := range clientIDs {
		for _, e := range m.events.events {
			if e.ClientID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events  map[string]*model.Event
	clients *mockClientRepo
	seq     int
}

func newMockEventRepo(clients *mockClientRepo) *mockEventRepo {
	r := &mockEventRepo{events: make(map[string]*model.Event), clients: clients}
	clients.events = r
	return r
}

func (m *mockEventRepo) load(e *model.Event) *model.Event {
	cp := *e
	cp.Client = nil
	if c, ok := m.clients.clients[e.ClientID]; ok {
		cc := *c
		cp.Client = &cc
	}
	return &cp
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("event-%d", m.seq)
	}
	e := *event
	e.Client = nil
	m.events[e.EventID] = &e
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		return m.load(e), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListByIDs(_ context.Context, ids []string) ([]model.Event, error) {
	var result []model.Event
	for _, id := range ids {
		if e, ok := m.events[id]; ok {
			result = append(result, *m.load(e))
		}
	}
	return result, nil
}

func (m *mockEventRepo) List(_ context.Context, filter repository.EventFilter, page repository.Page) ([]model.Event, int64, error) {
	var all []model.Event
	for _, e := range m.events {
		if filter.ClientID != "" && e.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.From != nil && e.EndDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.StartDate.After(*filter.To) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.Keyword)) {
			continue
		}
		all = append(all, *m.load(e))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.After(all[j].StartDate) })
	return paginate(all, page), int64(len(all)), nil
}

func (m *mockEventRepo) ListExpired(_ context.Context, now time.Time, limit int) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		if e.EndDate.Before(now) && (e.Status == model.EventUpcoming || e.Status == model.EventInProgress) {
			result = append(result, *m.load(e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EndDate.Before(result[j].EndDate) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	stored, ok := m.events[event.EventID]
	if !ok || stored.Version != event.Version {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version++
	e := *event
	e.Client = nil
	m.events[e.EventID] = &e
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

// ── Mock OperatorRepository ──

type mockOperatorRepo struct {
	operators map[string]*model.Operator
	seq       int
}

func newMockOperatorRepo() *mockOperatorRepo {
	return &mockOperatorRepo{operators: make(map[string]*model.Operator)}
}

func (m *mockOperatorRepo) Create(_ context.Context, op *model.Operator) error {
	if op.OperatorID == "" {
		m.seq++
		op.OperatorID = fmt.Sprintf("op-%d", m.seq)
	}
	o := *op
	m.operators[o.OperatorID] = &o
	return nil
}

func (m *mockOperatorRepo) GetByID(_ context.Context, id string) (*model.Operator, error) {
	if o, ok := m.operators[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOperatorRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Operator, error) {
	var result []model.Operator
	for _, id := range ids {
		if o, err := m.GetByID(ctx, id); err == nil {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOperatorRepo) List(_ context.Context, filter repository.OperatorFilter, page repository.Page) ([]model.Operator, int64, error) {
	var all []model.Operator
	for _, o := range m.operators {
		if filter.ActiveOnly && !o.IsActive {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(o.FullName()), strings.ToLower(filter.Keyword)) {
			continue
		}
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].LastName < all[j].LastName })
	return paginate(all, page), int64(len(all)), nil
}

func (m *mockOperatorRepo) Update(_ context.Context, op *model.Operator) error {
	stored, ok := m.operators[op.OperatorID]
	if !ok || stored.Version != op.Version {
		return pkgerrors.ErrOptimisticLock
	}
	op.Version++
	o := *op
	m.operators[o.OperatorID] = &o
	return nil
}

func (m *mockOperatorRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.operators[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.operators, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	items     map[string]*model.Assignment
	order     []string
	events    *mockEventRepo
	operators *mockOperatorRepo
	seq       int
}

func newMockAssignmentRepo(events *mockEventRepo, operators *mockOperatorRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{items: make(map[string]*model.Assignment), events: events, operators: operators}
}

func (m *mockAssignmentRepo) load(a *model.Assignment) model.Assignment {
	cp := *a
	cp.Event, cp.Operator = nil, nil
	if e, ok := m.events.events[a.EventID]; ok {
		cp.Event = m.events.load(e)
	}
	if o, ok := m.operators.operators[a.OperatorID]; ok {
		oc := *o
		cp.Operator = &oc
	}
	return cp
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if a.AssignmentID == "" {
		m.seq++
		a.AssignmentID = fmt.Sprintf("asg-%d", m.seq)
	}
	cp := *a
	cp.Event, cp.Operator = nil, nil
	m.items[cp.AssignmentID] = &cp
	m.order = append(m.order, cp.AssignmentID)
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.items[id]; ok {
		cp := m.load(a)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetByEventAndOperator(_ context.Context, eventID, operatorID string) (*model.Assignment, error) {
	for _, id := range m.order {
		a, ok := m.items[id]
		if ok && a.EventID == eventID && a.OperatorID == operatorID {
			cp := m.load(a)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) List(_ context.Context, filter repository.AssignmentFilter) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, id := range m.order {
		a, ok := m.items[id]
		if !ok {
			continue
		}
		if filter.EventID != "" && a.EventID != filter.EventID {
			continue
		}
		if filter.OperatorID != "" && a.OperatorID != filter.OperatorID {
			continue
		}
		cp := m.load(a)
		if filter.From != nil || filter.To != nil {
			if cp.Event == nil {
				continue
			}
			if filter.From != nil && cp.Event.StartDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !cp.Event.StartDate.Before(*filter.To) {
				continue
			}
		}
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Assignment, error) {
	list, _ := m.List(ctx, repository.AssignmentFilter{EventID: eventID})
	for i := range list {
		list[i].Event = nil
	}
	return list, nil
}

func (m *mockAssignmentRepo) CountRoles(_ context.Context, eventIDs []string) (map[string]model.RoleCounts, error) {
	out := make(map[string]model.RoleCounts, len(eventIDs))
	for _, eid := range eventIDs {
		out[eid] = model.RoleCounts{}
		for _, a := range m.items {
			if a.EventID == eid {
				out[eid][a.Role]++
			}
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.Assignment) error {
	stored, ok := m.items[a.AssignmentID]
	if !ok || stored.Version != a.Version {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version++
	cp := *a
	cp.Event, cp.Operator = nil, nil
	m.items[cp.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records []model.AttendanceRecord
}

func (m *mockAttendanceRepo) Create(_ context.Context, rec *model.AttendanceRecord) error {
	if rec.RecordID == "" {
		rec.RecordID = model.NewRecordID(rec.Timestamp)
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockAttendanceRepo) ListByPair(_ context.Context, operatorID, eventID string) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.OperatorID == operatorID && r.EventID == eventID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByOperator(_ context.Context, operatorID string, from, to *time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.OperatorID != operatorID {
			continue
		}
		if from != nil && r.Timestamp.Before(*from) {
			continue
		}
		if to != nil && !r.Timestamp.Before(*to) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByEvents(_ context.Context, eventIDs []string) ([]model.AttendanceRecord, error) {
	want := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		want[id] = true
	}
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if want[r.EventID] {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock PaymentRepository ──

type mockPaymentRepo struct {
	payments []model.OperatorPayment
}

func (m *mockPaymentRepo) CreateIfAbsent(_ context.Context, p *model.OperatorPayment) (bool, error) {
	for _, existing := range m.payments {
		if existing.OperatorID == p.OperatorID && existing.EventID == p.EventID {
			return false, nil
		}
	}
	m.payments = append(m.payments, *p)
	return true, nil
}

func (m *mockPaymentRepo) ListByOperator(_ context.Context, operatorID string) ([]model.OperatorPayment, error) {
	var result []model.OperatorPayment
	for _, p := range m.payments {
		if p.OperatorID == operatorID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPaymentRepo) ListByEvent(_ context.Context, eventID string) ([]model.OperatorPayment, error) {
	var result []model.OperatorPayment
	for _, p := range m.payments {
		if p.EventID == eventID {
			result = append(result, p)
		}
	}
	return result, nil
}

// ── Mock OutboxRepository ──

type mockOutboxRepo struct {
	entries    []model.OutboxEntry
	enqueueErr error
}

func (m *mockOutboxRepo) Enqueue(_ context.Context, collection, entityID string, revision int64, _ interface{}) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.entries = append(m.entries, model.OutboxEntry{
		OutboxID:   fmt.Sprintf("ob-%d", len(m.entries)+1),
		Collection: collection,
		EntityID:   entityID,
		Revision:   revision,
		Status:     model.OutboxPending,
	})
	return nil
}

func (m *mockOutboxRepo) ListDue(context.Context, time.Time, int) ([]model.OutboxEntry, error) {
	return nil, nil
}
func (m *mockOutboxRepo) MarkDone(context.Context, string) error { return nil }
func (m *mockOutboxRepo) MarkRetry(context.Context, string, int, time.Time, string) error {
	return nil
}
func (m *mockOutboxRepo) MarkFailed(context.Context, string, int, string) error { return nil }
func (m *mockOutboxRepo) CountByStatus(context.Context) (map[model.OutboxStatus]int64, error) {
	out := map[model.OutboxStatus]int64{model.OutboxPending: 0, model.OutboxDone: 0, model.OutboxFailed: 0}
	for _, e := range m.entries {
		out[e.Status]++
	}
	return out, nil
}
func (m *mockOutboxRepo) ResetFailed(context.Context, time.Time) (int64, error) { return 0, nil }
func (m *mockOutboxRepo) PurgeDone(context.Context, time.Time) (int64, error)   { return 0, nil }

// find entries for one entity, in enqueue order
func (m *mockOutboxRepo) find(collection, entityID string) []model.OutboxEntry {
	var out []model.OutboxEntry
	for _, e := range m.entries {
		if e.Collection == collection && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id and username
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	m.users[user.UserID] = user
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok && u.UserID == id {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok && u.Username == username {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	m.users[user.Username] = user
	return nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── Recording notifier ──

type recordingNotifier struct {
	changes []notify.Change
}

func (r *recordingNotifier) Notify(_ context.Context, c notify.Change) {
	r.changes = append(r.changes, c)
}

func (r *recordingNotifier) last() notify.Change {
	if len(r.changes) == 0 {
		return notify.Change{}
	}
	return r.changes[len(r.changes)-1]
}

// ── Test environment ──

// testNow Wednesday 2026-03-11 12:00 UTC
var testNow = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Payroll: config.PayrollConfig{
			BreakThresholdHours: 5,
			BreakHours:          1,
			MealAllowance:       10,
			TravelAllowance:     15,
			DefaultSellRate:     25,
			Currency:            "EUR",
		},
		Attendance: config.AttendanceConfig{
			MaxAttempts:             3,
			AttemptTimeout:          time.Second,
			AccuracyThresholdMeters: 50,
			GeofenceRadiusMeters:    200,
			Timezone:                "UTC",
		},
		Sync: config.SyncConfig{BatchSize: 10, MaxAttempts: 3, BaseBackoff: time.Second},
	}
}

type testEnv struct {
	cfg         *config.Config
	repo        *repository.Repository
	clients     *mockClientRepo
	events      *mockEventRepo
	operators   *mockOperatorRepo
	assignments *mockAssignmentRepo
	attendance  *mockAttendanceRepo
	payments    *mockPaymentRepo
	outbox      *mockOutboxRepo
	users       *mockUserRepo
	blacklist   *mockBlacklist
	notifier    *recordingNotifier
	jwtMgr      *jwt.Manager
	calc        *payrollCalculator

	Auth       AuthService
	Client     ClientService
	Event      EventService
	Operator   OperatorService
	Assignment AssignmentService
	Payroll    PayrollService
	Attendance AttendanceService
	Calendar   CalendarService
}

func newTestEnv() *testEnv {
	env := &testEnv{cfg: testConfig()}
	env.clients = newMockClientRepo()
	env.events = newMockEventRepo(env.clients)
	env.operators = newMockOperatorRepo()
	env.assignments = newMockAssignmentRepo(env.events, env.operators)
	env.attendance = &mockAttendanceRepo{}
	env.payments = &mockPaymentRepo{}
	env.outbox = &mockOutboxRepo{}
	env.users = newMockUserRepo()
	env.blacklist = newMockBlacklist()
	env.notifier = &recordingNotifier{}

	env.repo = &repository.Repository{
		Client:     env.clients,
		Event:      env.events,
		Operator:   env.operators,
		Assignment: env.assignments,
		Attendance: env.attendance,
		Payment:    env.payments,
		Outbox:     env.outbox,
		User:       env.users,
	}

	logger := zap.NewNop()
	env.jwtMgr = jwt.NewManager(&env.cfg.Auth)
	env.calc = newPayrollCalculator(env.cfg, env.repo, time.UTC, logger)
	env.calc.now = func() time.Time { return testNow }

	env.Auth = NewAuthService(env.cfg, env.repo, env.jwtMgr, env.blacklist, logger)
	env.Client = NewClientService(env.repo, env.notifier, logger)
	env.Event = NewEventService(env.repo, env.calc, env.notifier, logger)

	ops := NewOperatorService(env.repo, time.UTC, env.notifier, logger)
	ops.(*operatorService).now = func() time.Time { return testNow }
	env.Operator = ops

	env.Assignment = NewAssignmentService(env.repo, env.calc, env.notifier, logger)
	env.Payroll = NewPayrollService(env.cfg, env.calc, logger)

	att := NewAttendanceService(env.cfg, env.repo, env.notifier, logger)
	att.(*attendanceService).now = func() time.Time { return testNow }
	env.Attendance = att

	cal := NewCalendarService(env.repo, logger)
	cal.(*calendarService).now = func() time.Time { return testNow }
	env.Calendar = cal
	return env
}

// seedClient stores an active client
func (env *testEnv) seedClient(name string) *model.Client {
	c := &model.Client{Name: name, IsActive: true}
	c.Version = 1
	_ = env.clients.Create(context.Background(), c)
	return c
}

// seedEvent stores an event for client spanning [start, start+hours)
func (env *testEnv) seedEvent(clientID, title string, start time.Time, hours float64, status model.EventStatus) *model.Event {
	e := &model.Event{
		ClientID:  clientID,
		Title:     title,
		StartDate: start,
		EndDate:   start.Add(time.Duration(hours * float64(time.Hour))),
		Status:    status,
	}
	e.Version = 1
	_ = env.events.Create(context.Background(), e)
	return e
}

func (env *testEnv) seedOperator(first, last string) *model.Operator {
	o := &model.Operator{FirstName: first, LastName: last, IsActive: true}
	o.Version = 1
	_ = env.operators.Create(context.Background(), o)
	return o
}

func (env *testEnv) seedAssignment(eventID, operatorID string, rate int64) *model.Assignment {
	a := &model.Assignment{EventID: eventID, OperatorID: operatorID, Role: "steward"}
	a.HourlyRate = decimal.NewFromInt(rate)
	a.Version = 1
	_ = env.assignments.Create(context.Background(), a)
	return a
}

// assignmentFor finds the seeded assignment of the operator named first on eventID
func (env *testEnv) assignmentFor(eventID, first string) *model.Assignment {
	for _, a := range env.assignments.items {
		if o := env.operators.operators[a.OperatorID]; a.EventID == eventID && o != nil && o.FirstName == first {
			return a
		}
	}
	return nil
}

// paginate applies offset/limit to an in-memory slice
func paginate[T any](all []T, page repository.Page) []T {
	if page.Offset >= len(all) {
		return nil
	}
	end := len(all)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return all[page.Offset:end]
}
