package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"staffdesk/internal/dto"
	"staffdesk/internal/model"
)

func TestEventCreate_Validation(t *testing.T) {
	env := newTestEnv()
	c := env.seedClient("Arena")
	start := testNow.Add(48 * time.Hour)

	_, err := env.Event.Create(context.Background(), &dto.CreateEventRequest{
		ClientID: c.ClientID, Title: "Backwards", StartDate: start, EndDate: start,
	}, "")
	if !errors.Is(err, ErrEventDateInvalid) {
		t.Errorf("expected ErrEventDateInvalid, got %v", err)
	}

	_, err = env.Event.Create(context.Background(), &dto.CreateEventRequest{
		ClientID: "missing", Title: "Orphan", StartDate: start, EndDate: start.Add(time.Hour),
	}, "")
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}

	_, err = env.Event.Create(context.Background(), &dto.CreateEventRequest{
		ClientID: c.ClientID, Title: "Refund", StartDate: start, EndDate: start.Add(time.Hour),
		HourlyRateCost: decimal.NewFromInt(-12),
	}, "")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestEventCreate_ResolvesHours(t *testing.T) {
	env := newTestEnv()
	c := env.seedClient("Arena")
	start := testNow.Add(48 * time.Hour)

	resp, err := env.Event.Create(context.Background(), &dto.CreateEventRequest{
		ClientID:        c.ClientID,
		Title:           "Festival",
		StartDate:       start,
		EndDate:         start.Add(9 * time.Hour),
		PersonnelCounts: map[string]int{"steward": 2},
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resp.GrossHours != 9 || resp.NetHours != 8 {
		t.Errorf("expected 9/8 hours, got %v/%v", resp.GrossHours, resp.NetHours)
	}
	if resp.Status != string(model.EventUpcoming) || resp.ClientName != "Arena" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(env.outbox.find(model.CollectionEvents, resp.ID)) != 1 {
		t.Error("expected an outbox entry for the new event")
	}
}

func TestEventGet_EffectiveStatusAndStaffing(t *testing.T) {
	env := newTestEnv()
	c := env.seedClient("Arena")
	e := env.seedEvent(c.ClientID, "Yesterday", testNow.Add(-30*time.Hour), 8, model.EventUpcoming)
	e.PersonnelCounts = model.RoleCounts{"steward": 2, "security": 1}
	env.events.events[e.EventID].PersonnelCounts = e.PersonnelCounts
	op := env.seedOperator("Mario", "Rossi")
	env.seedAssignment(e.EventID, op.OperatorID, 15)

	resp, err := env.Event.GetByID(context.Background(), e.EventID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if resp.Status != string(model.EventCompleted) {
		t.Errorf("expected completed, got %s", resp.Status)
	}
	if len(resp.Staffing) != 2 {
		t.Fatalf("expected 2 roles, got %+v", resp.Staffing)
	}
	if resp.Staffing[0].Role != "security" || resp.Staffing[0].Assigned != 0 {
		t.Errorf("unexpected security coverage: %+v", resp.Staffing[0])
	}
	if resp.Staffing[1].Role != "steward" || resp.Staffing[1].Required != 2 || resp.Staffing[1].Assigned != 1 {
		t.Errorf("unexpected steward coverage: %+v", resp.Staffing[1])
	}
}

func TestEventList_SkipsEventsWithoutClient(t *testing.T) {
	env := newTestEnv()
	c := env.seedClient("Arena")
	env.seedEvent(c.ClientID, "Kept", testNow, 4, model.EventUpcoming)
	env.seedEvent("gone", "Dropped", testNow, 4, model.EventUpcoming)

	list, total, err := env.Event.List(context.Background(), &dto.EventListRequest{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || total != 1 || list[0].Title != "Kept" {
		t.Errorf("expected only the event with a client, got %d/%d %+v", len(list), total, list)
	}
}

func TestEventUpdate_StaleVersion(t *testing.T) {
	env := newTestEnv()
	c := env.seedClient("Arena")
	e := env.seedEvent(c.ClientID, "Gig", testNow.Add(24*time.Hour), 4, model.EventUpcoming)

	title := "Gig v2"
	if _, err := env.Event.Update(context.Background(), e.EventID, &dto.UpdateEventRequest{Version: 1, Title: &title}, ""); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := env.Event.Update(context.Background(), e.EventID, &dto.UpdateEventRequest{Version: 1, Title: &title}, ""); err == nil {
		t.Error("expected a conflict for a stale version")
	}
}

func TestEventClose_WritesPaymentsOnce(t *testing.T) {
	env := newTestEnv()
	c := env.seedClient("Arena")
	e := env.seedEvent(c.ClientID, "Concert", testNow.Add(-27*time.Hour), 9, model.EventUpcoming)
	mario := env.seedOperator("Mario", "Rossi")
	lucia := env.seedOperator("Lucia", "Bianchi")
	env.seedAssignment(e.EventID, mario.OperatorID, 15)
	env.seedAssignment(e.EventID, lucia.OperatorID, 15)

	resp, err := env.Event.Close(context.Background(), e.EventID, "admin-1")
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if resp.PaymentsCreated != 2 || len(resp.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d/%d", resp.PaymentsCreated, len(resp.Payments))
	}
	p := resp.Payments[0]
	if p.Hours != 8 {
		t.Errorf("expected 8 payable hours, got %v", p.Hours)
	}
	if !p.Compensation.Equal(decimal.NewFromInt(120)) || !p.Total.Equal(decimal.NewFromInt(145)) {
		t.Errorf("expected compensation 120 total 145, got %s / %s", p.Compensation, p.Total)
	}
	if resp.Event.Status != string(model.EventCompleted) || resp.Event.Version != 2 {
		t.Errorf("expected completed event at version 2, got %s v%d", resp.Event.Status, resp.Event.Version)
	}

	// closing again adds nothing
	again, err := env.Event.Close(context.Background(), e.EventID, "admin-1")
	if err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if again.PaymentsCreated != 0 || len(env.payments.payments) != 2 {
		t.Errorf("expected no new payments, got %d (stored %d)", again.PaymentsCreated, len(env.payments.payments))
	}
	if got := len(env.outbox.find(model.CollectionEvents, e.EventID)); got != 1 {
		t.Errorf("expected one event outbox entry, got %d", got)
	}
}

func TestEventClose_Cancelled(t *testing.T) {
	env := newTestEnv()
	c := env.seedClient("Arena")
	e := env.seedEvent(c.ClientID, "Rained out", testNow.Add(-48*time.Hour), 4, model.EventCancelled)

	if _, err := env.Event.Close(context.Background(), e.EventID, ""); !errors.Is(err, ErrEventCancelled) {
		t.Errorf("expected ErrEventCancelled, got %v", err)
	}
}

func TestEventCloseExpired(t *testing.T) {
	env := newTestEnv()
	c := env.seedClient("Arena")
	past := env.seedEvent(c.ClientID, "Past", testNow.Add(-48*time.Hour), 4, model.EventUpcoming)
	future := env.seedEvent(c.ClientID, "Future", testNow.Add(48*time.Hour), 4, model.EventUpcoming)
	env.seedEvent(c.ClientID, "Cancelled", testNow.Add(-48*time.Hour), 4, model.EventCancelled)

	n, err := env.Event.CloseExpired(context.Background(), testNow)
	if err != nil {
		t.Fatalf("CloseExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 event closed, got %d", n)
	}
	if env.events.events[past.EventID].Status != model.EventCompleted {
		t.Error("past event should be stored as completed")
	}
	if env.events.events[future.EventID].Status != model.EventUpcoming {
		t.Error("future event must stay upcoming")
	}
}
