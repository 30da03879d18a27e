package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newShop(t *testing.T, h http.HandlerFunc) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewTLSServer(h)
	t.Cleanup(srv.Close)
	return srv, strings.TrimPrefix(srv.URL, "https://")
}

func TestExchange_Success(t *testing.T) {
	var got TokenRequest
	srv, shop := newShop(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/oauth/access_token" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type %q", ct)
		}
		if a := r.Header.Get("Accept"); a != "application/json" {
			t.Errorf("accept %q", a)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok_abc","scope":"read_products"}`))
	})

	ex := OAuthExchanger{HTTPClient: srv.Client(), APIKey: "key", APISecret: "secret"}
	res := ex.Exchange(context.Background(), shop, "the-code")

	if res.Outcome != OutcomeToken {
		t.Fatalf("expected token outcome, got %s (%v)", res.Outcome, res.Err)
	}
	if res.AccessToken != "tok_abc" || res.Scope != "read_products" {
		t.Fatalf("unexpected token result: %+v", res)
	}
	if got != (TokenRequest{ClientID: "key", ClientSecret: "secret", Code: "the-code"}) {
		t.Fatalf("unexpected request body: %+v", got)
	}
	if res.URL != "https://"+shop+"/admin/oauth/access_token" {
		t.Fatalf("unexpected url %q", res.URL)
	}
}

func TestExchange_NonSuccessStatusKeepsPayload(t *testing.T) {
	srv, shop := newShop(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_request","error_description":"code was already used"}`))
	})

	res := OAuthExchanger{HTTPClient: srv.Client(), APIKey: "k", APISecret: "s"}.Exchange(context.Background(), shop, "c")
	if res.Outcome != OutcomeHTTPStatus {
		t.Fatalf("expected http_status, got %s", res.Outcome)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if !strings.Contains(res.Details(), "code was already used") {
		t.Fatalf("details missing remote payload: %s", res.Details())
	}
}

func TestExchange_MissingToken(t *testing.T) {
	cases := map[string]string{
		"no field": `{"scope":"read_products"}`,
		"empty":    `{"access_token":""}`,
		"not json": `<html>ok</html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv, shop := newShop(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			res := OAuthExchanger{HTTPClient: srv.Client(), APIKey: "k", APISecret: "s"}.Exchange(context.Background(), shop, "c")
			if res.Outcome != OutcomeMissingToken {
				t.Fatalf("expected missing_token, got %s", res.Outcome)
			}
		})
	}
}

func TestExchange_Timeout(t *testing.T) {
	srv, shop := newShop(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ex := OAuthExchanger{HTTPClient: srv.Client(), APIKey: "k", APISecret: "s", Timeout: 50 * time.Millisecond}
	res := ex.Exchange(context.Background(), shop, "c")
	if res.Outcome != OutcomeTimeout {
		t.Fatalf("expected timeout, got %s (%v)", res.Outcome, res.Err)
	}
	if res.StatusCode != 0 {
		t.Fatalf("expected no status, got %d", res.StatusCode)
	}
}

type deadlineRecorder struct {
	deadline time.Time
	ok       bool
}

func (d *deadlineRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	d.deadline, d.ok = req.Context().Deadline()
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"access_token":"t"}`)),
		Request:    req,
	}, nil
}

func TestDefaultExchangeTimeout(t *testing.T) {
	if DefaultExchangeTimeout != 10*time.Second {
		t.Fatalf("expected 10s, got %s", DefaultExchangeTimeout)
	}

	rt := &deadlineRecorder{}
	start := time.Now()
	res := OAuthExchanger{HTTPClient: &http.Client{Transport: rt}, APIKey: "k", APISecret: "s"}.
		Exchange(context.Background(), "my-shop.myshopify.com", "c")
	if res.Outcome != OutcomeToken {
		t.Fatalf("expected token outcome, got %s (%v)", res.Outcome, res.Err)
	}
	if !rt.ok {
		t.Fatal("expected the outbound request to carry a deadline")
	}
	if left := rt.deadline.Sub(start); left < 9*time.Second || left > DefaultExchangeTimeout+time.Second {
		t.Fatalf("expected deadline about 10s out, got %s", left)
	}
}

func TestExchange_NetworkError(t *testing.T) {
	srv, shop := newShop(t, func(w http.ResponseWriter, r *http.Request) {})
	client := srv.Client()
	srv.Close()

	res := OAuthExchanger{HTTPClient: client, APIKey: "k", APISecret: "s"}.Exchange(context.Background(), shop, "c")
	if res.Outcome != OutcomeNetworkError {
		t.Fatalf("expected network_error, got %s (%v)", res.Outcome, res.Err)
	}
}

func TestExchangeResult_Details(t *testing.T) {
	if got := (ExchangeResult{}).Details(); got != `"No details"` {
		t.Fatalf("unexpected empty details %s", got)
	}
	if got := (ExchangeResult{Body: []byte("{ \"a\" : 1 }")}).Details(); got != `{"a":1}` {
		t.Fatalf("unexpected json details %s", got)
	}
	if got := (ExchangeResult{Body: []byte("bad gateway")}).Details(); got != `"bad gateway"` {
		t.Fatalf("unexpected text details %s", got)
	}
}
