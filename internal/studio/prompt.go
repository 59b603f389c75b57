package studio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/pixel-foundry/pixel-studio/internal/apierr"
	"github.com/pixel-foundry/pixel-studio/internal/textutil"
)

// promptSystemInstruction is the fixed output contract for prompt synthesis.
const promptSystemInstruction = `You are an expert prompt engineer for a generative image model.
Combine the user's goal with any provided subject and style images into a single rich,
descriptive prompt for image generation. Describe the subject, composition, style,
lighting, and mood in concrete visual language. A subject image shows what to transform
or reimagine; a style reference image supplies aesthetic direction only.
Respond with only the final prompt text. Do not add commentary, headings, or quotation marks.`

// enhanceSystemInstruction is appended only when the request carries both a
// previous prompt and an edit suggestion.
const enhanceSystemInstruction = `The request includes the previous prompt and the user's edit suggestion.
Integrate the suggestion into the previous prompt rather than appending it, using the
original images and goal as context where needed. The result must read as one coherent prompt.`

// promptTemperature favors creative variation between rounds.
const promptTemperature = 0.8

// PromptRequest carries the inputs of one prompt-synthesis call. Subject and
// Style are optional; PreviousPrompt and Suggestion switch the call into
// enhancement mode only when both are non-empty.
type PromptRequest struct {
	Subject        *ImageAsset
	Style          *ImageAsset
	Goal           string
	PreviousPrompt string
	Suggestion     string
}

// systemInstructionFor returns the full system instruction for the request's
// synthesis mode.
func systemInstructionFor(mode synthesisMode) string {
	if mode == modeEnhance {
		return promptSystemInstruction + "\n\n" + enhanceSystemInstruction
	}
	return promptSystemInstruction
}

// SynthesizePrompt issues one call to the text/vision model and returns the
// synthesized prompt as trimmed text. Service failures are classified before
// being returned; payload-builder failures propagate unclassified.
func SynthesizePrompt(ctx context.Context, client *genai.Client, model string, req PromptRequest) (string, error) {
	parts, err := BuildPromptParts(req.Subject, req.Style, req.Goal, req.PreviousPrompt, req.Suggestion)
	if err != nil {
		return "", err
	}

	mode := modeFor(req.PreviousPrompt, req.Suggestion)

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstructionFor(mode)}},
		},
		Temperature:    genai.Ptr[float32](promptTemperature),
		CandidateCount: 1,
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	log.Debug().
		Str("model", model).
		Int("parts", len(parts)).
		Bool("enhance", mode == modeEnhance).
		Msg("Synthesizing prompt")

	resp, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		log.Error().Err(err).Str("model", model).Msg("Prompt synthesis failed")
		return "", apierr.Classify(err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("received empty response from model")
	}

	prompt := textutil.StripMarkdownFences(text)
	log.Debug().
		Int("prompt_length", len(prompt)).
		Dur("duration", time.Since(start)).
		Msg("Prompt synthesis complete")

	return prompt, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			result.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(result.String())
}
