package app

import (
	"context"
	"log"

	"ai-readiness-service/internal/domain"
)

// SessionRepository abstracts how live form sessions are held in memory.
type SessionRepository interface {
	GetOrCreate(formID, sessionID string) (*Session, bool)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// CatalogRepository loads question catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, formID string) (domain.Catalog, error)
}

// StateArchive is the persistent per-session slot mirroring the in-memory
// state, so a client can resume where it left off. Restore must fail open:
// malformed persisted data comes back as empty state, never an error that
// kills the session.
type StateArchive interface {
	Restore(ctx context.Context, sessionID string) (domain.FormState, error)
	Persist(ctx context.Context, sessionID string, state domain.FormState) error
	Clear(ctx context.Context, sessionID string) error
}

// Validator gates a submission attempt and returns the canonical contact
// number on success.
type Validator interface {
	Check(cat domain.Catalog, state domain.FormState) (string, error)
}

// Submitter delivers a validated state to the external endpoint.
type Submitter interface {
	Submit(ctx context.Context, cat domain.Catalog, state domain.FormState) (domain.Outcome, error)
}

// DocumentRenderer produces the downloadable responses document.
type DocumentRenderer interface {
	PDF(cat domain.Catalog, state domain.FormState) ([]byte, error)
	Filename() string
}

// User-facing outcome messages for a submission attempt.
const (
	MsgSubmitted      = "Thank you! Your responses have been submitted and emailed."
	MsgRejected       = "Submission failed. Please try again."
	MsgTransportError = "An error occurred. Please try again later."
)

// FormService contains the form use cases: open/resume a session, mutate its
// state, stream progress, submit, and export.
type FormService struct {
	sessions  SessionRepository
	catalogs  CatalogRepository
	archive   StateArchive
	validator Validator
	submitter Submitter
	renderer  DocumentRenderer
}

func NewFormService(
	sessions SessionRepository,
	catalogs CatalogRepository,
	archive StateArchive,
	validator Validator,
	submitter Submitter,
	renderer DocumentRenderer,
) *FormService {
	return &FormService{
		sessions:  sessions,
		catalogs:  catalogs,
		archive:   archive,
		validator: validator,
		submitter: submitter,
		renderer:  renderer,
	}
}

// Catalog exposes the question catalog for a form without touching sessions.
func (s *FormService) Catalog(ctx context.Context, formID string) (domain.Catalog, error) {
	return s.catalogs.GetCatalog(ctx, formID)
}

// Open starts or resumes a session against the given form. Freshly created
// sessions are seeded from the archive; corrupt archived state silently
// degrades to an empty form.
func (s *FormService) Open(ctx context.Context, formID, sessionID string) (domain.Catalog, domain.FormState, domain.ProgressUpdate, error) {
	cat, err := s.catalogs.GetCatalog(ctx, formID)
	if err != nil {
		return domain.Catalog{}, nil, domain.ProgressUpdate{}, err
	}

	session, created := s.sessions.GetOrCreate(formID, sessionID)
	if created {
		state, err := s.archive.Restore(ctx, sessionID)
		if err != nil {
			log.Printf("restore state for session %s: %v", sessionID, err)
			state = domain.FormState{}
		}
		session.Seed(state)
	}

	state := session.snapshotState()
	progress := domain.ProgressUpdate{
		SessionID: sessionID,
		FormID:    formID,
		Answered:  state.AnsweredCount(),
		Total:     cat.TotalFields(),
		Percent:   domain.Progress(state, cat.TotalFields()),
		UpdatedAt: session.now(),
	}
	return cat, state, progress, nil
}

// SetField overwrites a text or single-selection field and persists the
// mutated state.
func (s *FormService) SetField(ctx context.Context, formID, sessionID, key, value string) (domain.ProgressUpdate, error) {
	cat, session, err := s.lookup(ctx, formID, sessionID)
	if err != nil {
		return domain.ProgressUpdate{}, err
	}
	if err := validateSetField(cat, key, value); err != nil {
		return domain.ProgressUpdate{}, err
	}

	state, update := session.setField(key, value, cat.TotalFields())
	s.persist(ctx, sessionID, state)
	return update, nil
}

// ToggleChoice adds or removes one choice of a multi-select question and
// persists the mutated state. Toggling an already-present choice on is a
// no-op, so repeated events leave the choice present exactly once.
func (s *FormService) ToggleChoice(ctx context.Context, formID, sessionID, key, choice string, included bool) (domain.ProgressUpdate, error) {
	cat, session, err := s.lookup(ctx, formID, sessionID)
	if err != nil {
		return domain.ProgressUpdate{}, err
	}
	question, ok := cat.Question(key)
	if !ok {
		return domain.ProgressUpdate{}, domain.ErrFieldNotFound
	}
	if !question.Multiple {
		return domain.ProgressUpdate{}, domain.ErrSelectionMode
	}
	if !containsChoice(question.Choices, choice) {
		return domain.ProgressUpdate{}, domain.ErrChoiceNotFound
	}

	state, update := session.toggleChoice(key, choice, included, cat.TotalFields())
	s.persist(ctx, sessionID, state)
	return update, nil
}

// Snapshot returns the current state and progress without mutating anything.
func (s *FormService) Snapshot(ctx context.Context, formID, sessionID string) (domain.FormState, domain.ProgressUpdate, error) {
	cat, session, err := s.lookup(ctx, formID, sessionID)
	if err != nil {
		return nil, domain.ProgressUpdate{}, err
	}
	state := session.snapshotState()
	return state, domain.ProgressUpdate{
		SessionID: sessionID,
		FormID:    formID,
		Answered:  state.AnsweredCount(),
		Total:     cat.TotalFields(),
		Percent:   domain.Progress(state, cat.TotalFields()),
		UpdatedAt: session.now(),
	}, nil
}

// Submit runs the validation gate and, if it passes, delivers the state to
// the configured endpoint. Only one submission may be in flight per session.
// On success the responses document is rendered, the state is reset and the
// archived copy cleared; on rejection or transport failure the state is kept
// so the user can retry.
func (s *FormService) Submit(ctx context.Context, formID, sessionID string) (domain.SubmissionReceipt, error) {
	cat, session, err := s.lookup(ctx, formID, sessionID)
	if err != nil {
		return domain.SubmissionReceipt{}, err
	}
	if !session.beginSubmit() {
		return domain.SubmissionReceipt{}, domain.ErrSubmissionInFlight
	}
	defer session.endSubmit()

	formatted, err := s.validator.Check(cat, session.snapshotState())
	if err != nil {
		return domain.SubmissionReceipt{}, err
	}

	// The canonical rewrite is part of the contract: the submitted record and
	// the retained state both carry the formatted number.
	state, _ := session.setField(domain.FieldContact, formatted, cat.TotalFields())
	s.persist(ctx, sessionID, state)

	outcome, submitErr := s.submitter.Submit(ctx, cat, state)
	switch outcome {
	case domain.OutcomeSuccess:
		doc, renderErr := s.renderer.PDF(cat, state)
		if renderErr != nil {
			log.Printf("render responses document for session %s: %v", sessionID, renderErr)
		}
		session.reset(cat.TotalFields())
		if err := s.archive.Clear(ctx, sessionID); err != nil {
			log.Printf("clear archived state for session %s: %v", sessionID, err)
		}
		return domain.SubmissionReceipt{
			Outcome:  domain.OutcomeSuccess,
			Message:  MsgSubmitted,
			Document: doc,
			Filename: s.renderer.Filename(),
		}, nil
	case domain.OutcomeRejected:
		return domain.SubmissionReceipt{Outcome: domain.OutcomeRejected, Message: MsgRejected}, nil
	default:
		log.Printf("submission transport failure for session %s: %v", sessionID, submitErr)
		return domain.SubmissionReceipt{Outcome: domain.OutcomeTransportError, Message: MsgTransportError}, nil
	}
}

// Export renders the responses document on demand. It is gated on the form
// being complete; submission is not required.
func (s *FormService) Export(ctx context.Context, formID, sessionID string) ([]byte, string, error) {
	cat, session, err := s.lookup(ctx, formID, sessionID)
	if err != nil {
		return nil, "", err
	}
	state := session.snapshotState()
	if !cat.Complete(state) {
		return nil, "", domain.ErrFormIncomplete
	}
	doc, err := s.renderer.PDF(cat, state)
	if err != nil {
		return nil, "", err
	}
	return doc, s.renderer.Filename(), nil
}

// SubscribeProgress returns a channel receiving progress updates for a
// session. The caller must invoke the returned cancel function to avoid leaks.
func (s *FormService) SubscribeProgress(ctx context.Context, formID, sessionID string) (<-chan domain.ProgressUpdate, func(), error) {
	cat, session, err := s.lookup(ctx, formID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.subscribe(cat.TotalFields())
	return ch, cancel, nil
}

// Release drops the in-memory session once nothing references it. The
// archived state stays put so the client can resume later.
func (s *FormService) Release(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	if session.IsIdle() {
		s.sessions.Delete(sessionID)
	}
}

func (s *FormService) lookup(ctx context.Context, formID, sessionID string) (domain.Catalog, *Session, error) {
	cat, err := s.catalogs.GetCatalog(ctx, formID)
	if err != nil {
		return domain.Catalog{}, nil, err
	}
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Catalog{}, nil, domain.ErrSessionNotFound
	}
	return cat, session, nil
}

func (s *FormService) persist(ctx context.Context, sessionID string, state domain.FormState) {
	if err := s.archive.Persist(ctx, sessionID, state); err != nil {
		log.Printf("persist state for session %s: %v", sessionID, err)
	}
}

// validateSetField rejects keys outside the catalog and, for single-selection
// questions, values outside the choice list. Contact fields stay free-form.
func validateSetField(cat domain.Catalog, key, value string) error {
	for _, contact := range domain.ContactFields {
		if key == contact {
			return nil
		}
	}
	question, ok := cat.Question(key)
	if !ok {
		return domain.ErrFieldNotFound
	}
	if question.Multiple {
		return domain.ErrSelectionMode
	}
	if value != "" && !containsChoice(question.Choices, value) {
		return domain.ErrChoiceNotFound
	}
	return nil
}

func containsChoice(choices []string, choice string) bool {
	for _, c := range choices {
		if c == choice {
			return true
		}
	}
	return false
}
