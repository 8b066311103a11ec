package submit

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-readiness-service/internal/domain"
)

// Client delivers completed form state to the spreadsheet-backed endpoint as
// a single urlencoded POST. The endpoint URL and timeout are configuration;
// no retries are attempted.
type Client struct {
	endpoint   string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds a Client for the given endpoint. A zero timeout disables
// the client-side deadline.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// NewClientWithClock is test-only for deterministic timestamps.
func NewClientWithClock(endpoint string, timeout time.Duration, now func() time.Time) *Client {
	c := NewClient(endpoint, timeout)
	c.now = now
	return c
}

// Record builds the wire payload: every contact field and question key of the
// catalog, defaulted to the empty string when unanswered (multi-select values
// joined), plus a UTC timestamp.
func (c *Client) Record(cat domain.Catalog, state domain.FormState) url.Values {
	record := url.Values{}
	for _, key := range cat.FieldKeys() {
		record.Set(key, state.Value(key))
	}
	record.Set(domain.FieldTimestamp, c.now().UTC().Format(time.RFC3339))
	return record
}

// Submit issues one POST with the record for state. The returned error is
// set only alongside OutcomeTransportError and exists for diagnostics; it is
// never shown raw to the user.
func (c *Client) Submit(ctx context.Context, cat domain.Catalog, state domain.FormState) (domain.Outcome, error) {
	body := c.Record(cat, state).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return domain.OutcomeTransportError, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.OutcomeTransportError, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 == 2 {
		return domain.OutcomeSuccess, nil
	}
	return domain.OutcomeRejected, nil
}
