package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	// ServiceName is reported as the OpenTelemetry service.name resource attribute.
	ServiceName string

	Shopify ShopifyConfig
}

type ShopifyConfig struct {
	// APIKey and APISecret are sent as client_id and client_secret in the token exchange.
	APIKey    string
	APISecret string

	// Scopes and RedirectURL are only needed by the install redirect.
	Scopes      string
	RedirectURL string

	// EnforceHMAC rejects callbacks whose hmac query parameter does not verify.
	// When false the verification result is logged and the callback proceeds.
	EnforceHMAC bool
}

// HasCredentials reports whether both app credentials are configured.
func (c ShopifyConfig) HasCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:      env("APP_ENV", "dev"),
		HTTPAddr:    httpAddr,
		ServiceName: env("OTEL_SERVICE_NAME", "shopify-oauth-callback"),
		Shopify: ShopifyConfig{
			APIKey:      os.Getenv("SHOPIFY_API_KEY"),
			APISecret:   os.Getenv("SHOPIFY_API_SECRET"),
			Scopes:      os.Getenv("SHOPIFY_SCOPES"),
			RedirectURL: os.Getenv("SHOPIFY_REDIRECT_URL"),
			EnforceHMAC: envBool("SHOPIFY_ENFORCE_HMAC", false),
		},
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
