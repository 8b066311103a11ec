package memory

import (
	"context"
	"encoding/json"
	"sync"

	"ai-readiness-service/internal/domain"
)

// StateArchive keeps the persisted per-session state slot in process memory.
// It stores the serialized form so restore semantics (including the fail-open
// path on malformed data) match the Redis-backed archive.
type StateArchive struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewStateArchive() *StateArchive {
	return &StateArchive{slots: make(map[string][]byte)}
}

func (a *StateArchive) Restore(_ context.Context, sessionID string) (domain.FormState, error) {
	a.mu.RLock()
	raw, ok := a.slots[sessionID]
	a.mu.RUnlock()
	if !ok {
		return domain.FormState{}, nil
	}
	var state domain.FormState
	if err := json.Unmarshal(raw, &state); err != nil {
		// Malformed slot reads as no saved state.
		return domain.FormState{}, nil
	}
	if state == nil {
		state = domain.FormState{}
	}
	return state, nil
}

func (a *StateArchive) Persist(_ context.Context, sessionID string, state domain.FormState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.slots[sessionID] = raw
	a.mu.Unlock()
	return nil
}

func (a *StateArchive) Clear(_ context.Context, sessionID string) error {
	a.mu.Lock()
	delete(a.slots, sessionID)
	a.mu.Unlock()
	return nil
}
