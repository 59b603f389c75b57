// Package relay implements the server-side deployment variant: a single POST
// endpoint that forwards generation requests to the Gemini REST API on behalf
// of clients that must not hold the API key themselves.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pixel-foundry/pixel-studio/internal/textutil"
)

// defaultBaseURL is the Gemini REST API base URL.
const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Forwarder relays generateContent calls to the Gemini REST API. The client
// payload's contents and config travel through untouched except for the
// systemInstruction/generationConfig split the REST contract requires.
type Forwarder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewForwarder creates a forwarder bound to the given API key. baseURL is
// overridable for tests; pass "" for the production endpoint.
func NewForwarder(apiKey, baseURL string) *Forwarder {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Forwarder{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // image generation can take 10-30s
		},
	}
}

// --- REST API request/response types ---

type upstreamRequest struct {
	Contents          json.RawMessage `json:"contents"`
	SystemInstruction json.RawMessage `json:"systemInstruction,omitempty"`
	GenerationConfig  json.RawMessage `json:"generationConfig,omitempty"`
}

type upstreamResponse struct {
	Candidates []upstreamCandidate `json:"candidates"`
	Error      *upstreamError      `json:"error,omitempty"`
}

type upstreamCandidate struct {
	Content upstreamContent `json:"content"`
}

type upstreamContent struct {
	Parts []upstreamPart `json:"parts"`
}

type upstreamPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *upstreamBlob `json:"inlineData,omitempty"`
}

type upstreamBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type upstreamError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GenerateContent forwards one generateContent call and returns the first
// candidate's content parts.
func (f *Forwarder) GenerateContent(ctx context.Context, model string, contents, config json.RawMessage) ([]upstreamPart, error) {
	sysInstruction, genConfig, err := splitConfig(config)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	body, err := json.Marshal(upstreamRequest{
		Contents:          contents,
		SystemInstruction: sysInstruction,
		GenerationConfig:  genConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", f.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", f.apiKey)

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", textutil.Truncate(string(respBody), 500)).
			Msg("Gemini API returned error")
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, textutil.Truncate(string(respBody), 200))
	}

	var parsed upstreamResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("API error: %s (code: %d)", parsed.Error.Message, parsed.Error.Code)
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	return parsed.Candidates[0].Content.Parts, nil
}

// splitConfig separates the client-side config object into the REST
// contract's systemInstruction and generationConfig. numberOfImages is the
// client-side name for candidateCount.
func splitConfig(config json.RawMessage) (sysInstruction, genConfig json.RawMessage, err error) {
	if len(config) == 0 {
		return nil, nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(config, &fields); err != nil {
		return nil, nil, err
	}

	sysInstruction = fields["systemInstruction"]
	delete(fields, "systemInstruction")

	if n, ok := fields["numberOfImages"]; ok {
		fields["candidateCount"] = n
		delete(fields, "numberOfImages")
	}

	if len(fields) == 0 {
		return sysInstruction, nil, nil
	}

	genConfig, err = json.Marshal(fields)
	if err != nil {
		return nil, nil, err
	}
	return sysInstruction, genConfig, nil
}

// aggregateText concatenates the text parts of a candidate's content.
func aggregateText(parts []upstreamPart) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

// firstImageData returns the base64 payload of the first image-tagged part.
func firstImageData(parts []upstreamPart) string {
	for _, part := range parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		mime := part.InlineData.MIMEType
		if mime == "" || strings.HasPrefix(mime, "image/") {
			return part.InlineData.Data
		}
	}
	return ""
}
