package validate

import (
	"fmt"
	"sort"
	"strings"

	"ai-readiness-service/internal/domain"

	"github.com/nyaruka/phonenumbers"
)

// FieldError carries the per-field invalid flags produced by the presence
// phase. The presentation layer uses Fields to highlight offending inputs.
type FieldError struct {
	Fields map[string]bool
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(keys, ", "))
}

// PhoneError reports a contact number that could not be parsed as a valid
// international phone number. It carries no per-field flags.
type PhoneError struct {
	Raw string
}

func (e *PhoneError) Error() string {
	return fmt.Sprintf("invalid phone number %q: expected international format, e.g. +254... or +1...", e.Raw)
}

// Engine gates a submission attempt. It is evaluated only at submit time and
// never blocks interim edits.
type Engine struct {
	defaultRegion string
}

// NewEngine builds an Engine using defaultRegion as the phone-parsing hint
// when the form carries no country selection.
func NewEngine(defaultRegion string) *Engine {
	return &Engine{defaultRegion: strings.ToUpper(defaultRegion)}
}

// Check runs the two validation phases against the state.
//
// Phase one requires every question key plus name, email, organization and
// contact to be non-empty, with email additionally containing an "@"; failures
// come back as a *FieldError. Phase two, entered only when phase one passes,
// parses the contact number (region hint from the country field, falling back
// to the engine default) and returns the canonical international rendering, or
// a *PhoneError. The caller must rewrite the contact field with the returned
// value before building the wire record.
func (e *Engine) Check(cat domain.Catalog, state domain.FormState) (string, error) {
	invalid := map[string]bool{}
	for _, key := range domain.RequiredContactFields {
		if strings.TrimSpace(state.Value(key)) == "" {
			invalid[key] = true
		}
	}
	if email := state.Value(domain.FieldEmail); email != "" && !strings.Contains(email, "@") {
		invalid[domain.FieldEmail] = true
	}
	for _, key := range cat.QuestionKeys() {
		if state.Value(key) == "" {
			invalid[key] = true
		}
	}
	if len(invalid) > 0 {
		return "", &FieldError{Fields: invalid}
	}

	raw := state.Value(domain.FieldContact)
	region := e.defaultRegion
	if country := strings.ToUpper(strings.TrimSpace(state.Value(domain.FieldCountry))); country != "" {
		region = country
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return "", &PhoneError{Raw: raw}
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL), nil
}
