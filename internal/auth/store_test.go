package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempHome(t *testing.T) string {
	t.Helper()

	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	return tmpHome
}

func TestGetAPIKeyFromEnv(t *testing.T) {
	const testKey = "test-api-key-12345"
	t.Setenv("GEMINI_API_KEY", testKey)

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != testKey {
		t.Errorf("expected key %q, got %q", testKey, key)
	}
}

func TestGetAPIKeyNoSource(t *testing.T) {
	withTempHome(t)

	if _, err := GetAPIKey(); err == nil {
		t.Error("expected error when no API key source available")
	}
}

func TestSaveLoadClearRoundTrip(t *testing.T) {
	withTempHome(t)
	const testKey = "stored-key-67890"

	if err := SaveAPIKey(testKey); err != nil {
		t.Fatalf("unexpected error saving key: %v", err)
	}

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error loading key: %v", err)
	}
	if key != testKey {
		t.Errorf("expected key %q, got %q", testKey, key)
	}

	if err := ClearAPIKey(); err != nil {
		t.Fatalf("unexpected error clearing key: %v", err)
	}
	if _, err := GetAPIKey(); err == nil {
		t.Error("expected error after clearing credential")
	}
}

func TestSaveAPIKeyEmpty(t *testing.T) {
	withTempHome(t)

	if err := SaveAPIKey("   "); err == nil {
		t.Error("expected error saving an empty key")
	}
}

func TestClearAPIKeyAbsent(t *testing.T) {
	withTempHome(t)

	if err := ClearAPIKey(); err != nil {
		t.Errorf("clearing an absent credential should not fail: %v", err)
	}
}

func TestInsecureCredentialFileSkipped(t *testing.T) {
	tmpHome := withTempHome(t)

	credPath := filepath.Join(tmpHome, credentialDir, credentialFile)
	if err := os.MkdirAll(filepath.Dir(credPath), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(credPath, []byte("leaky-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := GetAPIKey(); err == nil {
		t.Error("expected world-readable credential file to be skipped")
	}
}

func TestCredentialPath(t *testing.T) {
	path, err := credentialPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, credentialDir, credentialFile)
	if path != expected {
		t.Errorf("expected path %q, got %q", expected, path)
	}
}
