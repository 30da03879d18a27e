package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("SHOPIFY_API_KEY", "")
	t.Setenv("SHOPIFY_API_SECRET", "")
	t.Setenv("SHOPIFY_ENFORCE_HMAC", "")

	cfg := Load()
	if cfg.HTTPAddr != ":8081" {
		t.Fatalf("expected :8081, got %q", cfg.HTTPAddr)
	}
	if cfg.AppEnv != "dev" {
		t.Fatalf("expected dev, got %q", cfg.AppEnv)
	}
	if cfg.Shopify.EnforceHMAC {
		t.Fatalf("expected hmac enforcement off by default")
	}
	if cfg.Shopify.HasCredentials() {
		t.Fatalf("expected no credentials")
	}
}

func TestLoad_PortFallbackAndCredentials(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("SHOPIFY_API_KEY", "key")
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("SHOPIFY_ENFORCE_HMAC", "true")

	cfg := Load()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.HTTPAddr)
	}
	if !cfg.Shopify.HasCredentials() {
		t.Fatalf("expected credentials")
	}
	if !cfg.Shopify.EnforceHMAC {
		t.Fatalf("expected hmac enforcement on")
	}
}

func TestHasCredentials_RequiresBoth(t *testing.T) {
	if (ShopifyConfig{APIKey: "k"}).HasCredentials() {
		t.Fatalf("secret missing should not count as configured")
	}
	if (ShopifyConfig{APISecret: "s"}).HasCredentials() {
		t.Fatalf("key missing should not count as configured")
	}
}
