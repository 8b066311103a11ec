package domain

import (
	"strings"
	"time"
)

// Fixed contact field keys collected ahead of the questionnaire sections.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldOrganization = "organization"
	FieldCountry      = "country"
	FieldContact      = "contact"
	FieldTimestamp    = "timestamp"
)

// ContactFields lists the contact inputs in form order.
var ContactFields = []string{FieldName, FieldEmail, FieldOrganization, FieldCountry, FieldContact}

// RequiredContactFields are the contact inputs that must be answered before
// submission. Country is a hint for phone parsing only and stays optional.
var RequiredContactFields = []string{FieldName, FieldEmail, FieldOrganization, FieldContact}

// Question models one prompt with a fixed choice list.
type Question struct {
	Key      string   `json:"key"`
	Prompt   string   `json:"prompt"`
	Choices  []string `json:"choices"`
	Multiple bool     `json:"multiple"` // checkbox-style when true, single choice otherwise
}

// Section groups consecutive questions under a heading.
type Section struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Catalog is the static, ordered questionnaire for one form. Loaded once per
// form ID and immutable afterwards.
type Catalog struct {
	ID       string    `json:"id"`
	Sections []Section `json:"sections"`
}

// Question returns the question with the given key, if present.
func (c Catalog) Question(key string) (Question, bool) {
	for _, section := range c.Sections {
		for _, q := range section.Questions {
			if q.Key == key {
				return q, true
			}
		}
	}
	return Question{}, false
}

// QuestionKeys flattens the catalog into the ordered sequence of question keys.
func (c Catalog) QuestionKeys() []string {
	var keys []string
	for _, section := range c.Sections {
		for _, q := range section.Questions {
			keys = append(keys, q.Key)
		}
	}
	return keys
}

// FieldKeys returns every field of the form in display order: contact fields
// first, then the question keys.
func (c Catalog) FieldKeys() []string {
	keys := make([]string, 0, len(ContactFields))
	keys = append(keys, ContactFields...)
	return append(keys, c.QuestionKeys()...)
}

// TotalFields is the progress denominator: all question keys plus the four
// required contact fields.
func (c Catalog) TotalFields() int {
	return len(c.QuestionKeys()) + len(RequiredContactFields)
}

// Complete reports whether every required contact field and every question has
// a non-empty answer.
func (c Catalog) Complete(state FormState) bool {
	for _, key := range RequiredContactFields {
		if state.Value(key) == "" {
			return false
		}
	}
	for _, key := range c.QuestionKeys() {
		if state.Value(key) == "" {
			return false
		}
	}
	return true
}

// Validate checks the catalog invariants: question keys unique across all
// sections and every question carrying at least one choice.
func (c Catalog) Validate() error {
	seen := map[string]struct{}{}
	for _, section := range c.Sections {
		for _, q := range section.Questions {
			if q.Key == "" {
				return ErrCatalogInvalid
			}
			if _, dup := seen[q.Key]; dup {
				return ErrCatalogInvalid
			}
			seen[q.Key] = struct{}{}
			if len(q.Choices) == 0 {
				return ErrCatalogInvalid
			}
		}
	}
	return nil
}

// ChoiceSeparator joins multi-select values at wire and export boundaries.
// Internally each field keeps its values as an ordered slice, so a choice
// label containing the separator never corrupts the stored state.
const ChoiceSeparator = ", "

// FormState maps a field key to its answered values. Text and single-choice
// fields hold exactly one value; multi-select fields hold the chosen options
// in selection order.
type FormState map[string][]string

// Value returns the answer for key as a single display string, joining
// multi-select values with ChoiceSeparator. Empty string means unanswered.
func (s FormState) Value(key string) string {
	return strings.Join(s[key], ChoiceSeparator)
}

// Set overwrites a text or single-selection field. An empty value clears the
// field entirely.
func (s FormState) Set(key, value string) {
	if value == "" {
		delete(s, key)
		return
	}
	s[key] = []string{value}
}

// Toggle adds or removes choice from a multi-select field. Adding an already
// present choice or removing an absent one is a no-op.
func (s FormState) Toggle(key, choice string, included bool) {
	values := s[key]
	idx := -1
	for i, v := range values {
		if v == choice {
			idx = i
			break
		}
	}
	if included {
		if idx == -1 {
			s[key] = append(values, choice)
		}
		return
	}
	if idx == -1 {
		return
	}
	values = append(values[:idx], values[idx+1:]...)
	if len(values) == 0 {
		delete(s, key)
		return
	}
	s[key] = values
}

// AnsweredCount is the number of fields holding a non-empty answer.
func (s FormState) AnsweredCount() int {
	count := 0
	for _, values := range s {
		if len(values) > 0 {
			count++
		}
	}
	return count
}

// Clone returns an independent deep copy of the state.
func (s FormState) Clone() FormState {
	copied := make(FormState, len(s))
	for key, values := range s {
		copied[key] = append([]string(nil), values...)
	}
	return copied
}

// Progress derives the completion percentage from the answered-field count
// over a fixed denominator, clamped to [0,100].
func Progress(state FormState, totalFields int) int {
	if totalFields <= 0 {
		return 0
	}
	percent := state.AnsweredCount() * 100 / totalFields
	if percent > 100 {
		percent = 100
	}
	return percent
}

// ProgressUpdate is a snapshot pushed to progress subscribers after every
// state mutation.
type ProgressUpdate struct {
	SessionID string    `json:"sessionId"`
	FormID    string    `json:"formId"`
	Answered  int       `json:"answered"`
	Total     int       `json:"total"`
	Percent   int       `json:"percent"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Outcome is the tri-state result of one submission attempt.
type Outcome int

const (
	// OutcomeSuccess: the endpoint accepted the submission (2xx).
	OutcomeSuccess Outcome = iota
	// OutcomeRejected: the endpoint responded with a non-2xx status.
	OutcomeRejected
	// OutcomeTransportError: no response was received at all.
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// SubmissionReceipt summarizes a finished submission attempt for the caller.
// Document and Filename are set only on success.
type SubmissionReceipt struct {
	Outcome  Outcome
	Message  string
	Document []byte
	Filename string
}
