package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	got, err := Load(Source{Name: "gemini api key", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key")
	if err := os.WriteFile(path, []byte("   "), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	_, err := Load(Source{Name: "gemini api key", File: path})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("RESUME_RANKER_TEST_SECRET", " env-value ")

	got, err := Load(Source{Name: "s3 secret", Env: "RESUME_RANKER_TEST_SECRET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "env-value" {
		t.Fatalf("expected env value, got %q", got)
	}
}

func TestLoadNotConfigured(t *testing.T) {
	_, err := Load(Source{})
	if err == nil || !strings.Contains(err.Error(), "secret is not configured") {
		t.Fatalf("expected not configured error, got %v", err)
	}
}

func TestOptionalReturnsEmpty(t *testing.T) {
	got, err := Optional(Source{Name: "s3 access key", Env: "RESUME_RANKER_UNSET_SECRET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "" {
		t.Fatalf("expected empty secret, got %q", got)
	}
}
