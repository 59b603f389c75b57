package studio

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/pixel-foundry/pixel-studio/internal/apierr"
)

// ErrNoImageData reports a response in which no content part carried image
// data. This is exceptional, not retryable.
var ErrNoImageData = errors.New("model response contains no image data")

// ImageResult is a generated image as a base64 payload plus its media type.
type ImageResult struct {
	MIMEType string
	Data     string // base64-encoded image bytes
}

// SynthesizeImage issues one call to the image model with the synthesized
// prompt and optional subject image, and returns the first inline image in
// the response. Service failures are classified before being returned.
func SynthesizeImage(ctx context.Context, client *genai.Client, model, prompt string, subject *ImageAsset) (*ImageResult, error) {
	parts, err := BuildImageParts(prompt, subject)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		CandidateCount:     1,
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	log.Debug().
		Str("model", model).
		Bool("has_subject", subject != nil).
		Msg("Synthesizing image")

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		log.Error().Err(err).Str("model", model).Msg("Image synthesis failed")
		return nil, apierr.Classify(err)
	}

	result, err := ExtractImage(resp)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("mime", result.MIMEType).
		Int("encoded_bytes", len(result.Data)).
		Dur("duration", time.Since(start)).
		Msg("Image synthesis complete")

	return result, nil
}

// ExtractImage scans the first candidate's parts in order and returns the
// first part tagged with an image media type. Leading non-image parts (text
// commentary) are skipped; absence of any image part yields ErrNoImageData.
func ExtractImage(resp *genai.GenerateContentResponse) (*ImageResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImageData
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}

		mimeType := part.InlineData.MIMEType
		if mimeType != "" && !strings.HasPrefix(mimeType, "image/") {
			continue
		}
		if mimeType == "" {
			mimeType = "image/png"
		}

		return &ImageResult{
			MIMEType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
		}, nil
	}

	return nil, ErrNoImageData
}
