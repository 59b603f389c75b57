package studio

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Role labels disambiguate what each inline image means to the model. Each
// label immediately precedes its image part.
const (
	subjectImageLabel = "Subject image (the image to transform or reimagine):"
	styleImageLabel   = "Style reference image (use only for aesthetic direction):"
)

// synthesisMode selects between the two prompt-synthesis behaviors. The mode
// is decided once per call: enhancement requires BOTH a previous prompt and
// an edit suggestion; anything less runs an initial synthesis.
type synthesisMode int

const (
	modeInitial synthesisMode = iota
	modeEnhance
)

func modeFor(previousPrompt, suggestion string) synthesisMode {
	if strings.TrimSpace(previousPrompt) != "" && strings.TrimSpace(suggestion) != "" {
		return modeEnhance
	}
	return modeInitial
}

// imagePart converts an asset into an inline-data part.
func imagePart(asset *ImageAsset) (*genai.Part, error) {
	raw, err := asset.Bytes()
	if err != nil {
		return nil, err
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: asset.MIMEType,
			Data:     raw,
		},
	}, nil
}

// BuildPromptParts assembles the multimodal request for prompt synthesis.
// Each image is preceded by a short text label identifying its role, and the
// trailing text block always carries the user's goal. The previous prompt and
// edit suggestion are included literally in that block only when both are
// present (enhancement mode).
func BuildPromptParts(subject, style *ImageAsset, goal, previousPrompt, suggestion string) ([]*genai.Part, error) {
	var parts []*genai.Part

	if subject != nil {
		img, err := imagePart(subject)
		if err != nil {
			return nil, fmt.Errorf("subject image: %w", err)
		}
		parts = append(parts, genai.NewPartFromText(subjectImageLabel), img)
	}

	if style != nil {
		img, err := imagePart(style)
		if err != nil {
			return nil, fmt.Errorf("style image: %w", err)
		}
		parts = append(parts, genai.NewPartFromText(styleImageLabel), img)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "User's goal: %s", strings.TrimSpace(goal))

	if modeFor(previousPrompt, suggestion) == modeEnhance {
		fmt.Fprintf(&text, "\n\nPrevious prompt: %s", previousPrompt)
		fmt.Fprintf(&text, "\nEdit suggestion: %s", suggestion)
	}

	parts = append(parts, genai.NewPartFromText(text.String()))
	return parts, nil
}

// BuildImageParts assembles the request for image synthesis. The subject
// image, when present, must precede the prompt text: the model treats part
// order as edit-target precedence.
func BuildImageParts(prompt string, subject *ImageAsset) ([]*genai.Part, error) {
	var parts []*genai.Part

	if subject != nil {
		img, err := imagePart(subject)
		if err != nil {
			return nil, fmt.Errorf("subject image: %w", err)
		}
		parts = append(parts, img)
	}

	parts = append(parts, genai.NewPartFromText(prompt))
	return parts, nil
}
