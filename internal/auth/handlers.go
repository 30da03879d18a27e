package auth

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopifyoauth/internal/api"
	"shopifyoauth/internal/metrics"
	"shopifyoauth/pkg/config"
	"shopifyoauth/pkg/shopify"
)

const (
	msgMissingParams  = "Missing required parameters"
	msgMissingCreds   = "Server configuration error - missing credentials"
	msgNoAccessToken  = "No access token received from Shopify"
	msgInvalidHMAC    = "Invalid HMAC signature"
	codeLogPrefixSize = 10
)

// TokenExchanger trades an authorization code for an access token.
type TokenExchanger interface {
	Exchange(ctx context.Context, shopDomain, code string) shopify.ExchangeResult
}

type Handlers struct {
	Cfg       config.ShopifyConfig
	Exchanger TokenExchanger
	Log       *zap.SugaredLogger
	Metrics   *metrics.Collector
}

// NewHandlers wires the production exchanger from cfg.
func NewHandlers(cfg config.ShopifyConfig, log *zap.SugaredLogger, m *metrics.Collector) Handlers {
	return Handlers{
		Cfg: cfg,
		Exchanger: shopify.OAuthExchanger{
			HTTPClient: shopify.NewHTTPClient(),
			APIKey:     cfg.APIKey,
			APISecret:  cfg.APISecret,
		},
		Log:     log,
		Metrics: m,
	}
}

// Install redirects the merchant to the shop's authorize page.
// The generated state is passed through but not stored; the callback does not check it.
func (h Handlers) Install(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r.Context())

	shopDomain := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shopDomain == "" {
		api.WriteError(w, http.StatusBadRequest, msgMissingParams)
		return
	}
	if h.Cfg.APIKey == "" {
		log.Errorw("install without SHOPIFY_API_KEY", "shop", shopDomain)
		api.WriteError(w, http.StatusInternalServerError, msgMissingCreds)
		return
	}

	redirectURL := h.Cfg.RedirectURL
	if redirectURL == "" {
		scheme := "https"
		if r.TLS == nil {
			scheme = "http"
		}
		redirectURL = scheme + "://" + r.Host + "/v1/auth/callback"
	}

	u := url.URL{
		Scheme: "https",
		Host:   shopDomain,
		Path:   "/admin/oauth/authorize",
	}
	q := u.Query()
	q.Set("client_id", h.Cfg.APIKey)
	q.Set("scope", h.Cfg.Scopes)
	q.Set("redirect_uri", redirectURL)
	q.Set("state", uuid.NewString())
	u.RawQuery = q.Encode()

	log.Infow("redirecting to shopify authorize", "shop", shopDomain, "redirect_uri", redirectURL, "scope", h.Cfg.Scopes)
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// Callback completes the authorization code exchange and shows the resulting token.
func (h Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r.Context())
	status := http.StatusInternalServerError
	defer func() { h.Metrics.RecordCallback(status) }()

	qs := r.URL.Query()
	code := strings.TrimSpace(qs.Get("code"))
	shopDomain := strings.TrimSpace(qs.Get("shop"))
	state := qs.Get("state")

	// state is accepted as-is; this endpoint offers no CSRF protection.
	log.Infow("oauth callback received",
		"code", truncateCode(code),
		"shop", shopDomain,
		"state", state,
		"state_verified", false,
		"params", paramNames(qs),
	)

	if code == "" || shopDomain == "" {
		log.Errorw("missing required parameters",
			"has_code", code != "",
			"has_shop", shopDomain != "",
			"code_length", len(code),
		)
		status = http.StatusBadRequest
		api.WriteError(w, status, msgMissingParams)
		return
	}

	log.Infow("environment check",
		"has_api_key", h.Cfg.APIKey != "",
		"has_api_secret", h.Cfg.APISecret != "",
		"api_key", h.Cfg.APIKey,
		"api_key_length", len(h.Cfg.APIKey),
		"api_secret_length", len(h.Cfg.APISecret),
	)
	if !h.Cfg.HasCredentials() {
		log.Errorw("missing SHOPIFY_API_KEY or SHOPIFY_API_SECRET")
		api.WriteError(w, status, msgMissingCreds)
		return
	}

	if h.Cfg.EnforceHMAC || qs.Get("hmac") != "" {
		valid := VerifyOAuthHMAC(qs, h.Cfg.APISecret)
		log.Infow("hmac check", "valid", valid, "enforced", h.Cfg.EnforceHMAC)
		if h.Cfg.EnforceHMAC && !valid {
			status = http.StatusUnauthorized
			api.WriteError(w, status, msgInvalidHMAC)
			return
		}
	}

	log.Infow("making token request", "url", shopify.AccessTokenURL(shopDomain))
	log.Infow("request payload",
		"client_id", h.Cfg.APIKey,
		"client_secret", "[REDACTED]",
		"code", truncateCode(code),
		"code_length", len(code),
	)

	// Only the exchange timeout bounds the call; a client disconnect does not abort it.
	res := h.Exchanger.Exchange(context.WithoutCancel(r.Context()), shopDomain, code)
	h.Metrics.RecordExchange(res.Outcome.String(), res.Duration)

	switch res.Outcome {
	case shopify.OutcomeToken:
		log.Infow("token response",
			"status", res.StatusCode,
			"headers", res.Header,
			"scope", res.Scope,
			"duration", res.Duration,
		)
		logTokenBanner(log, shopDomain, res.AccessToken)

		status = http.StatusOK
		if err := writeHTML(w, status, successPage, successView{
			Shop:        shopDomain,
			AccessToken: res.AccessToken,
			DelayMillis: AdminRedirectDelayMillis,
		}); err != nil {
			log.Errorw("render success page", "err", err)
		}

	case shopify.OutcomeMissingToken:
		log.Errorw("no access token in response",
			"status", res.StatusCode,
			"body", string(res.Body),
			"err", res.Err,
		)
		api.WriteError(w, status, msgNoAccessToken)

	case shopify.OutcomeNetworkError, shopify.OutcomeTimeout, shopify.OutcomeHTTPStatus:
		h.renderExchangeFailure(w, log, res)

	default:
		log.Errorw("unknown exchange outcome", "outcome", int(res.Outcome))
		h.renderExchangeFailure(w, log, res)
	}
}

func (h Handlers) renderExchangeFailure(w http.ResponseWriter, log *zap.SugaredLogger, res shopify.ExchangeResult) {
	fields := []any{
		"outcome", res.Outcome.String(),
		"err", res.Message(),
		"url", res.URL,
		"method", http.MethodPost,
		"duration", res.Duration,
	}
	if res.StatusCode != 0 {
		// The remote endpoint answered.
		fields = append(fields,
			"response_status", res.StatusCode,
			"response_status_text", res.Status,
			"response_headers", res.Header,
			"response_body", string(res.Body),
		)
	} else {
		fields = append(fields, "response", "none")
	}
	log.Errorw("oauth token exchange failed", fields...)

	view := errorView{
		Message: res.Message(),
		Status:  "Unknown",
		Details: res.Details(),
	}
	if res.StatusCode != 0 {
		view.Status = strconv.Itoa(res.StatusCode)
	}
	if err := writeHTML(w, http.StatusInternalServerError, errorPage, view); err != nil {
		log.Errorw("render error page", "err", err)
	}
}

func (h Handlers) logger(ctx context.Context) *zap.SugaredLogger {
	base := h.Log
	if base == nil {
		base = zap.NewNop().Sugar()
	}
	return api.LoggerFromContext(ctx, base)
}

// logTokenBanner prints the token so an operator can copy it into SHOPIFY_ACCESS_TOKEN.
func logTokenBanner(log *zap.SugaredLogger, shopDomain, token string) {
	rule := strings.Repeat("=", 80)
	log.Info(rule)
	log.Info("SUCCESS! COPY THIS ACCESS TOKEN TO YOUR ENVIRONMENT VARIABLES")
	log.Infow("ACCESS TOKEN", "access_token", token)
	log.Infow("SHOP", "shop", shopDomain)
	log.Info("Add this to your environment variables as: SHOPIFY_ACCESS_TOKEN")
	log.Info(rule)
}

func truncateCode(code string) string {
	if code == "" {
		return "missing"
	}
	runes := []rune(code)
	if len(runes) <= codeLogPrefixSize {
		return code + "..."
	}
	return string(runes[:codeLogPrefixSize]) + "..."
}

func paramNames(qs url.Values) []string {
	names := make([]string, 0, len(qs))
	for k := range qs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
