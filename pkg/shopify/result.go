package shopify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// Outcome classifies a token exchange attempt.
type Outcome int

const (
	OutcomeToken Outcome = iota
	OutcomeNetworkError
	OutcomeTimeout
	OutcomeHTTPStatus
	OutcomeMissingToken
)

func (o Outcome) String() string {
	switch o {
	case OutcomeToken:
		return "token"
	case OutcomeNetworkError:
		return "network_error"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeHTTPStatus:
		return "http_status"
	case OutcomeMissingToken:
		return "missing_token"
	default:
		return "unknown"
	}
}

// ExchangeResult is everything known about one exchange attempt.
// StatusCode, Header and Body are zero when no response was received.
type ExchangeResult struct {
	Outcome Outcome

	AccessToken string
	Scope       string

	URL        string
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	Err      error
	Duration time.Duration
}

// Message is a human readable description of a failed exchange.
func (r ExchangeResult) Message() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Outcome.String()
}

// Details renders the remote error payload as JSON text.
// JSON bodies are compacted, other bodies are quoted, and an empty body yields "No details".
func (r ExchangeResult) Details() string {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return `"No details"`
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Body); err == nil {
		return buf.String()
	}
	b, _ := json.Marshal(string(r.Body))
	return string(b)
}
