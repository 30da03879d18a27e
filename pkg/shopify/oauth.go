package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultExchangeTimeout bounds the single token exchange call.
const DefaultExchangeTimeout = 10 * time.Second

// maxResponseBody caps how much of the token endpoint response is read.
const maxResponseBody = 1 << 20

type OAuthExchanger struct {
	HTTPClient *http.Client
	APIKey     string
	APISecret  string

	// Timeout overrides DefaultExchangeTimeout when > 0.
	Timeout time.Duration
}

// TokenRequest is the JSON body posted to /admin/oauth/access_token.
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// NewHTTPClient returns a pooled client whose transport is traced.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(cleanhttp.DefaultPooledTransport()),
	}
}

// AccessTokenURL is the token endpoint for a shop. The shop is used as given.
func AccessTokenURL(shopDomain string) string {
	return fmt.Sprintf("https://%s/admin/oauth/access_token", shopDomain)
}

// Exchange trades an authorization code for an access token with one POST.
// It never retries and reports every failure through the returned result.
func (o OAuthExchanger) Exchange(ctx context.Context, shopDomain, code string) ExchangeResult {
	if o.HTTPClient == nil {
		o.HTTPClient = NewHTTPClient()
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultExchangeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res := o.do(ctx, shopDomain, code)
	res.URL = AccessTokenURL(shopDomain)
	res.Duration = time.Since(start)
	return res
}

func (o OAuthExchanger) do(ctx context.Context, shopDomain, code string) ExchangeResult {
	body, err := json.Marshal(TokenRequest{
		ClientID:     o.APIKey,
		ClientSecret: o.APISecret,
		Code:         code,
	})
	if err != nil {
		return ExchangeResult{Outcome: OutcomeNetworkError, Err: fmt.Errorf("encode token request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, AccessTokenURL(shopDomain), bytes.NewReader(body))
	if err != nil {
		return ExchangeResult{Outcome: OutcomeNetworkError, Err: fmt.Errorf("build token request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return ExchangeResult{Outcome: OutcomeTimeout, Err: fmt.Errorf("token exchange timed out: %w", err)}
		}
		return ExchangeResult{Outcome: OutcomeNetworkError, Err: fmt.Errorf("token exchange request failed: %w", err)}
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	res := ExchangeResult{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
		Body:       b,
	}
	if readErr != nil {
		res.Err = fmt.Errorf("read token response: %w", readErr)
		if isTimeout(ctx, readErr) {
			res.Outcome = OutcomeTimeout
		} else {
			res.Outcome = OutcomeNetworkError
		}
		return res
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Outcome = OutcomeHTTPStatus
		res.Err = fmt.Errorf("shopify token exchange failed: status=%d", resp.StatusCode)
		return res
	}

	// A 2xx body that is not JSON, or lacks access_token, is a missing token.
	var r accessTokenResponse
	if err := json.Unmarshal(b, &r); err != nil || r.AccessToken == "" {
		res.Outcome = OutcomeMissingToken
		if err != nil {
			res.Err = fmt.Errorf("decode token response: %w", err)
		} else {
			res.Err = errors.New("shopify token exchange returned empty access_token")
		}
		return res
	}

	res.Outcome = OutcomeToken
	res.AccessToken = r.AccessToken
	res.Scope = r.Scope
	return res
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
