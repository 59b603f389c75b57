// Package studio orchestrates the two-stage generation flow: synthesize a
// descriptive prompt from the user's inputs, then synthesize an image from
// that prompt. The two calls are strictly ordered; the image call never runs
// without a prompt.
package studio

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// ErrNoInputs reports a generation attempt with no subject image, no style
// image, and no goal text. Detected before any network call.
var ErrNoInputs = errors.New("supply a subject image, a style image, or a description of what to create")

// PromptFunc produces a prompt from the request inputs.
type PromptFunc func(ctx context.Context, client *genai.Client, model string, req PromptRequest) (string, error)

// ImageFunc produces an image from a prompt and optional subject.
type ImageFunc func(ctx context.Context, client *genai.Client, model, prompt string, subject *ImageAsset) (*ImageResult, error)

// GenerateRequest carries the user-supplied inputs of a generation round.
// The same request is reused across enhancement rounds.
type GenerateRequest struct {
	Subject *ImageAsset
	Style   *ImageAsset
	Goal    string
}

// Session holds the state that survives between rounds: the current prompt,
// the current image, and an optional pending edit suggestion consumed by the
// next round.
type Session struct {
	Prompt            string
	Image             *ImageResult
	PendingSuggestion string
}

// Reset discards all session state.
func (s *Session) Reset() {
	s.Prompt = ""
	s.Image = nil
	s.PendingSuggestion = ""
}

// Studio runs generation rounds against a Gemini client. The synthesizer
// functions are fields so tests can substitute fakes.
type Studio struct {
	client     *genai.Client
	textModel  string
	imageModel string

	promptFn PromptFunc
	imageFn  ImageFunc
}

// New constructs a Studio bound to the given client and models.
func New(client *genai.Client, textModel, imageModel string) *Studio {
	return &Studio{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
		promptFn:   SynthesizePrompt,
		imageFn:    SynthesizeImage,
	}
}

// Generate runs one generation round and updates the session in place.
// When the session carries both a previous prompt and a pending suggestion
// the round runs in enhancement mode. On success the session holds the new
// prompt and image and the pending suggestion is cleared; on failure the
// session is left untouched.
func (s *Studio) Generate(ctx context.Context, req GenerateRequest, sess *Session) error {
	if req.Subject == nil && req.Style == nil && strings.TrimSpace(req.Goal) == "" {
		return ErrNoInputs
	}

	prompt, err := s.promptFn(ctx, s.client, s.textModel, PromptRequest{
		Subject:        req.Subject,
		Style:          req.Style,
		Goal:           req.Goal,
		PreviousPrompt: sess.Prompt,
		Suggestion:     sess.PendingSuggestion,
	})
	if err != nil {
		return err
	}

	image, err := s.imageFn(ctx, s.client, s.imageModel, prompt, req.Subject)
	if err != nil {
		return err
	}

	sess.Prompt = prompt
	sess.Image = image
	sess.PendingSuggestion = ""

	log.Info().
		Int("prompt_length", len(prompt)).
		Str("image_mime", image.MIMEType).
		Msg("Generation round complete")

	return nil
}
