package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// probeModel is a low-cost model used for the validation request.
const probeModel = "gemini-2.5-flash-lite"

// ProbeFunc issues a minimal request against the service with the given key.
type ProbeFunc func(ctx context.Context, apiKey string) error

// KeyValidator confirms an API key is usable with one minimal completion
// request. Failure reasons are deliberately not surfaced here; callers that
// need them observe classified errors from real generation calls instead.
type KeyValidator struct {
	probe ProbeFunc
}

// NewKeyValidator returns a validator backed by a live Gemini probe.
func NewKeyValidator() *KeyValidator {
	return &KeyValidator{probe: geminiProbe}
}

// Validate reports whether the key is usable. An empty key returns false
// immediately with no network attempt. All probe failures normalize to
// false; there is no retry.
func (v *KeyValidator) Validate(ctx context.Context, apiKey string) bool {
	if apiKey == "" {
		return false
	}

	start := time.Now()
	err := v.probe(ctx, apiKey)
	if err != nil {
		log.Debug().Err(err).Dur("duration", time.Since(start)).Msg("API key validation failed")
		return false
	}

	log.Debug().Dur("duration", time.Since(start)).Msg("API key validated")
	return true
}

// geminiProbe sends a minimal generation request scoped to a fresh client, so
// validation never mutates a client shared with in-flight requests.
func geminiProbe(ctx context.Context, apiKey string) error {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, probeModel, genai.Text("ping"), nil)
	if err != nil {
		return err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return fmt.Errorf("empty response from validation probe")
	}
	return nil
}
