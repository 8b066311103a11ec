package app

import (
	"sync"
	"time"

	"ai-readiness-service/internal/domain"
)

// Session is the in-memory form state store for one client. It owns the
// FormState exclusively; every other component only reads snapshots of it.
// Progress subscribers receive a fresh update after each mutation.
type Session struct {
	id          string
	formID      string
	createdAt   time.Time
	now         func() time.Time
	mu          sync.RWMutex
	state       domain.FormState
	submitting  bool
	subscribers map[chan domain.ProgressUpdate]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(formID, sessionID string) *Session {
	return newSessionWithClock(formID, sessionID, time.Now)
}

func newSessionWithClock(formID, sessionID string, now func() time.Time) *Session {
	return &Session{
		id:          sessionID,
		formID:      formID,
		createdAt:   now(),
		now:         now,
		state:       domain.FormState{},
		subscribers: make(map[chan domain.ProgressUpdate]struct{}),
	}
}

// Seed replaces the state wholesale; used when restoring a persisted session.
func (s *Session) Seed(state domain.FormState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil {
		state = domain.FormState{}
	}
	s.state = state
}

// IsIdle reports whether the session has no subscribers and no submission in
// flight, making it safe to evict from the repository.
func (s *Session) IsIdle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers) == 0 && !s.submitting
}

func (s *Session) snapshotState() domain.FormState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Session) setField(key, value string, total int) (domain.FormState, domain.ProgressUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Set(key, value)
	return s.state.Clone(), s.broadcastLocked(total)
}

func (s *Session) toggleChoice(key, choice string, included bool, total int) (domain.FormState, domain.ProgressUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Toggle(key, choice, included)
	return s.state.Clone(), s.broadcastLocked(total)
}

func (s *Session) reset(total int) domain.ProgressUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.FormState{}
	return s.broadcastLocked(total)
}

// beginSubmit marks the session busy; it reports false while an earlier
// submission is still outstanding.
func (s *Session) beginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

func (s *Session) endSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

func (s *Session) subscribe(total int) (<-chan domain.ProgressUpdate, func()) {
	ch := make(chan domain.ProgressUpdate, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.progressLocked(total)
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(total int) domain.ProgressUpdate {
	update := s.progressLocked(total)
	for ch := range s.subscribers {
		select {
		case ch <- update:
		default:
			// Drop the stale update so a slow subscriber never blocks the writer.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
	return update
}

func (s *Session) progressLocked(total int) domain.ProgressUpdate {
	return domain.ProgressUpdate{
		SessionID: s.id,
		FormID:    s.formID,
		Answered:  s.state.AnsweredCount(),
		Total:     total,
		Percent:   domain.Progress(s.state, total),
		UpdatedAt: s.now(),
	}
}
