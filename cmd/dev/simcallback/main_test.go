package main

import "testing"

func TestDefaultCallbackURL(t *testing.T) {
	cases := map[string]string{
		"":               "http://localhost:8081/v1/auth/callback",
		":9000":          "http://localhost:9000/v1/auth/callback",
		"127.0.0.1:8081": "http://127.0.0.1:8081/v1/auth/callback",
	}
	for in, want := range cases {
		if got := defaultCallbackURL(in); got != want {
			t.Fatalf("defaultCallbackURL(%q) = %q, want %q", in, got, want)
		}
	}
}
