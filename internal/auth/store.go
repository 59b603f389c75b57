// Package auth manages the Gemini API key: retrieval from the environment or
// the local credential file, durable storage, and a connectivity probe that
// confirms a key is usable.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	credentialDir  = ".pixel-studio"
	credentialFile = "credentials"
)

// GetAPIKey retrieves the Gemini API key from available sources.
// Priority order:
//  1. GEMINI_API_KEY environment variable
//  2. Credential file at ~/.pixel-studio/credentials
func GetAPIKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}

	key, err := readCredentialFile()
	if err == nil && key != "" {
		log.Debug().Msg("Using API key from credential file")
		return key, nil
	}

	return "", fmt.Errorf("API key not found. Set GEMINI_API_KEY or run 'pixel-studio auth set'")
}

// SaveAPIKey persists the key to the credential file with owner-only
// permissions, replacing any previous value.
func SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cannot save an empty API key")
	}

	credPath, err := credentialPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(credPath), 0o700); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}

	if err := os.WriteFile(credPath, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}

	log.Debug().Str("file", credPath).Msg("API key saved")
	return nil
}

// ClearAPIKey removes the stored credential. Clearing an absent credential is
// not an error.
func ClearAPIKey() error {
	credPath, err := credentialPath()
	if err != nil {
		return err
	}

	if err := os.Remove(credPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

// readCredentialFile loads the key from the credential file. Files readable
// by group or others are refused.
func readCredentialFile() (string, error) {
	credPath, err := credentialPath()
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(credPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("credential file not found at %s", credPath)
	}
	if err != nil {
		return "", err
	}

	if mode := fi.Mode().Perm(); mode&0o077 != 0 {
		log.Warn().
			Str("file", credPath).
			Str("permissions", fmt.Sprintf("%04o", mode)).
			Msg("Credential file has insecure permissions (should be 0600); skipping")
		return "", fmt.Errorf("credential file %s has insecure permissions", credPath)
	}

	raw, err := os.ReadFile(credPath)
	if err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

// credentialPath returns the full path to the credential file.
func credentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, credentialDir, credentialFile), nil
}
