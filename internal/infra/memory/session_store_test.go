package memory

import (
	"context"
	"testing"

	"ai-readiness-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session, created := store.GetOrCreate("ai-readiness", "sess-1")
	if session == nil || !created {
		t.Fatalf("expected freshly created session")
	}
	if _, again := store.GetOrCreate("ai-readiness", "sess-1"); again {
		t.Fatalf("expected existing session reused")
	}
	if _, ok := store.Get("sess-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("sess-1")
	if _, ok := store.Get("sess-1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestStateArchiveRoundTrip(t *testing.T) {
	archive := NewStateArchive()
	ctx := context.Background()

	state := domain.FormState{}
	state.Set(domain.FieldName, "Ana")
	state.Toggle("q6", "CRM", true)
	state.Toggle("q6", "ERP", true)

	if err := archive.Persist(ctx, "sess-1", state); err != nil {
		t.Fatalf("persist: %v", err)
	}
	restored, err := archive.Restore(ctx, "sess-1")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Value(domain.FieldName) != "Ana" || restored.Value("q6") != "CRM, ERP" {
		t.Fatalf("unexpected restored state: %v", restored)
	}

	if err := archive.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	restored, err = archive.Restore(ctx, "sess-1")
	if err != nil {
		t.Fatalf("restore after clear: %v", err)
	}
	if len(restored) != 0 {
		t.Fatalf("expected empty state after clear, got %v", restored)
	}
}
