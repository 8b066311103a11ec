package domain

import "errors"

var (
	// ErrCatalogNotFound indicates the form's question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrCatalogInvalid indicates a loaded catalog violates its invariants
	// (duplicate or empty question keys, question without choices).
	ErrCatalogInvalid = errors.New("catalog invalid")
	// ErrSessionNotFound is returned when a form session has not been opened.
	ErrSessionNotFound = errors.New("form session not found")
	// ErrFieldNotFound indicates a mutation referenced a key outside the catalog.
	ErrFieldNotFound = errors.New("field not found")
	// ErrChoiceNotFound indicates a toggled choice is not among the question's options.
	ErrChoiceNotFound = errors.New("choice not found")
	// ErrSelectionMode is returned when an operation does not match the
	// question's selection mode (toggling a single-choice question, or
	// overwriting a multi-select one).
	ErrSelectionMode = errors.New("operation does not match question selection mode")
	// ErrSubmissionInFlight refuses a submit while a previous one is still outstanding.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrFormIncomplete gates the export until every required field is answered.
	ErrFormIncomplete = errors.New("form is not complete")
)
