package config

import (
	"net/http"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/studyhub")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.AccessTokenTTL != 168*time.Hour {
		t.Fatalf("expected access ttl 168h, got %s", cfg.AccessTokenTTL)
	}
	if cfg.MinIOMaxFileSize != 20*1024*1024 {
		t.Fatalf("expected 20MiB upload limit, got %d", cfg.MinIOMaxFileSize)
	}
	if cfg.GetMinioBucketDocuments() != "documents" {
		t.Fatalf("expected documents bucket, got %q", cfg.GetMinioBucketDocuments())
	}
	if cfg.GetAIProvider() != "gemini" {
		t.Fatalf("expected gemini provider, got %q", cfg.GetAIProvider())
	}
	if cfg.IsMinIOEnabled() {
		t.Fatal("expected minio disabled without endpoint")
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AI_PROVIDER", "openai")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestLoad_WildcardOriginForcesAllowAll(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.GetCORSAllowAll() {
		t.Fatal("expected wildcard origin to enable allow-all")
	}
}

func TestParseSameSite(t *testing.T) {
	cases := map[string]http.SameSite{
		"none":    http.SameSiteNoneMode,
		"Strict":  http.SameSiteStrictMode,
		"lax":     http.SameSiteLaxMode,
		"garbage": http.SameSiteLaxMode,
	}
	for input, want := range cases {
		if got := parseSameSite(input); got != want {
			t.Fatalf("parseSameSite(%q): expected %v, got %v", input, want, got)
		}
	}
}
