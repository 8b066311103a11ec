package redis

import (
	"context"
	"testing"
	"time"

	"ai-readiness-service/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestStateArchiveRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	archive := NewStateArchive(newClient(mr), time.Minute)
	ctx := context.Background()

	state := domain.FormState{}
	state.Set(domain.FieldName, "Ana")
	state.Set("q1", "Efficiency")
	state.Toggle("q6", "CRM", true)

	if err := archive.Persist(ctx, "sess-1", state); err != nil {
		t.Fatalf("persist: %v", err)
	}

	restored, err := archive.Restore(ctx, "sess-1")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Value(domain.FieldName) != "Ana" || restored.Value("q1") != "Efficiency" || restored.Value("q6") != "CRM" {
		t.Fatalf("unexpected restored state: %v", restored)
	}
}

func TestStateArchiveMissingSlotReadsEmpty(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	archive := NewStateArchive(newClient(mr), time.Minute)
	state, err := archive.Restore(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(state) != 0 {
		t.Fatalf("expected empty state, got %v", state)
	}
}

func TestStateArchiveMalformedSlotFailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("form:state:sess-1", "{not json"); err != nil {
		t.Fatalf("seed corrupt slot: %v", err)
	}

	archive := NewStateArchive(newClient(mr), time.Minute)
	state, err := archive.Restore(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("corruption must not error: %v", err)
	}
	if len(state) != 0 {
		t.Fatalf("expected empty state after corrupt slot, got %v", state)
	}
}

func TestStateArchiveClear(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	archive := NewStateArchive(newClient(mr), time.Minute)
	ctx := context.Background()

	state := domain.FormState{}
	state.Set(domain.FieldName, "Ana")
	if err := archive.Persist(ctx, "sess-1", state); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := archive.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("form:state:sess-1") {
		t.Fatalf("expected slot removed")
	}
}
