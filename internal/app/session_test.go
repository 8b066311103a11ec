package app

import (
	"testing"
	"time"
)

func TestSessionProgressCarriesClockTimestamp(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	session := newSessionWithClock("form-1", "sess-1", func() time.Time { return at })

	updates, cancel := session.subscribe(15)
	defer cancel()

	initial := <-updates
	if !initial.UpdatedAt.Equal(at) {
		t.Fatalf("expected initial update at %v, got %v", at, initial.UpdatedAt)
	}

	_, update := session.setField("name", "Ana", 15)
	if !update.UpdatedAt.Equal(at) {
		t.Fatalf("expected mutation update at %v, got %v", at, update.UpdatedAt)
	}
	if update.Answered != 1 {
		t.Fatalf("expected 1 answered field, got %d", update.Answered)
	}
}

func TestSessionIdleOnlyAfterUnsubscribe(t *testing.T) {
	session := NewSession("form-1", "sess-1")

	_, cancel := session.subscribe(15)
	if session.IsIdle() {
		t.Fatalf("expected session with a live subscriber to be busy")
	}

	cancel()
	if !session.IsIdle() {
		t.Fatalf("expected session to be idle after unsubscribe")
	}

	// cancel is safe to call twice.
	cancel()
	if !session.IsIdle() {
		t.Fatalf("expected session to stay idle after repeated cancel")
	}
}
