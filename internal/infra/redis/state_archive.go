package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-readiness-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// StateArchive persists each session's form state in a single named Redis
// slot (whole-state overwrite on every mutation). A TTL keeps abandoned
// sessions from accumulating; resuming within the TTL restores the answers.
type StateArchive struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateArchive(client *redis.Client, ttl time.Duration) *StateArchive {
	return &StateArchive{client: client, ttl: ttl}
}

// Restore reads the archived state. A missing slot or malformed payload reads
// as empty state; corruption is logged and discarded, never surfaced.
func (a *StateArchive) Restore(ctx context.Context, sessionID string) (domain.FormState, error) {
	raw, err := a.client.Get(ctx, a.key(sessionID)).Bytes()
	if err == redis.Nil {
		return domain.FormState{}, nil
	}
	if err != nil {
		return domain.FormState{}, err
	}
	var state domain.FormState
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Printf("discarding malformed archived state for session %s: %v", sessionID, err)
		return domain.FormState{}, nil
	}
	if state == nil {
		state = domain.FormState{}
	}
	return state, nil
}

func (a *StateArchive) Persist(ctx context.Context, sessionID string, state domain.FormState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return a.client.Set(ctx, a.key(sessionID), raw, a.ttl).Err()
}

func (a *StateArchive) Clear(ctx context.Context, sessionID string) error {
	return a.client.Del(ctx, a.key(sessionID)).Err()
}

func (a *StateArchive) key(sessionID string) string {
	return "form:state:" + sessionID
}
