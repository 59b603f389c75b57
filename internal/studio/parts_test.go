package studio

import (
	"strings"
	"testing"
)

func testAsset() *ImageAsset {
	return &ImageAsset{MIMEType: "image/png", Data: "iVBORw0KGgo="}
}

// --- BuildImageParts ---

func TestBuildImagePartsSubjectPrecedesPrompt(t *testing.T) {
	parts, err := BuildImageParts("a watercolor landscape", testAsset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].InlineData == nil {
		t.Error("expected first part to carry the subject image")
	}
	if parts[0].InlineData != nil && parts[0].InlineData.MIMEType != "image/png" {
		t.Errorf("expected image/png inline data, got %q", parts[0].InlineData.MIMEType)
	}
	if parts[1].Text != "a watercolor landscape" {
		t.Errorf("expected prompt text last, got %q", parts[1].Text)
	}
}

func TestBuildImagePartsWithoutSubject(t *testing.T) {
	parts, err := BuildImageParts("a watercolor landscape", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(parts) != 1 {
		t.Fatalf("expected a single text part, got %d parts", len(parts))
	}
	if parts[0].Text != "a watercolor landscape" {
		t.Errorf("expected prompt text, got %q", parts[0].Text)
	}
}

// --- BuildPromptParts ---

func TestBuildPromptPartsLabelsPrecedeImages(t *testing.T) {
	parts, err := BuildPromptParts(testAsset(), testAsset(), "make it dreamy", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// subject label, subject image, style label, style image, goal text
	if len(parts) != 5 {
		t.Fatalf("expected 5 parts, got %d", len(parts))
	}
	if parts[0].Text != subjectImageLabel {
		t.Errorf("expected subject label first, got %q", parts[0].Text)
	}
	if parts[1].InlineData == nil {
		t.Error("expected subject image after its label")
	}
	if parts[2].Text != styleImageLabel {
		t.Errorf("expected style label, got %q", parts[2].Text)
	}
	if parts[3].InlineData == nil {
		t.Error("expected style image after its label")
	}
	if !strings.Contains(parts[4].Text, "make it dreamy") {
		t.Errorf("expected trailing text block to carry the goal, got %q", parts[4].Text)
	}
}

func TestBuildPromptPartsGoalOnly(t *testing.T) {
	parts, err := BuildPromptParts(nil, nil, "a castle in the clouds", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(parts) != 1 {
		t.Fatalf("expected a single text part, got %d parts", len(parts))
	}
	if !strings.Contains(parts[0].Text, "a castle in the clouds") {
		t.Errorf("expected goal in text block, got %q", parts[0].Text)
	}
}

func TestBuildPromptPartsEnhancementIncludesBothLiterals(t *testing.T) {
	parts, err := BuildPromptParts(nil, nil, "a car", "a red car", "make it blue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := parts[len(parts)-1].Text
	if !strings.Contains(text, "a red car") {
		t.Errorf("expected previous prompt literal in text block, got %q", text)
	}
	if !strings.Contains(text, "make it blue") {
		t.Errorf("expected edit suggestion literal in text block, got %q", text)
	}
}

func TestBuildPromptPartsNoEnhancementWithOnlyOneValue(t *testing.T) {
	tests := []struct {
		name           string
		previousPrompt string
		suggestion     string
	}{
		{"only previous prompt", "a red car", ""},
		{"only suggestion", "", "make it blue"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parts, err := BuildPromptParts(nil, nil, "a car", tc.previousPrompt, tc.suggestion)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			text := parts[len(parts)-1].Text
			if strings.Contains(text, "Previous prompt:") || strings.Contains(text, "Edit suggestion:") {
				t.Errorf("expected no enhancement block, got %q", text)
			}
		})
	}
}

func TestBuildPromptPartsInvalidImagePayload(t *testing.T) {
	bad := &ImageAsset{MIMEType: "image/png", Data: "!!not base64!!"}

	if _, err := BuildPromptParts(bad, nil, "a car", "", ""); err == nil {
		t.Error("expected error for undecodable subject payload")
	}
}

// --- mode selection ---

func TestModeForRequiresBothValues(t *testing.T) {
	if modeFor("a red car", "make it blue") != modeEnhance {
		t.Error("expected enhancement mode when both values present")
	}
	if modeFor("a red car", "") != modeInitial {
		t.Error("expected initial mode with only a previous prompt")
	}
	if modeFor("", "make it blue") != modeInitial {
		t.Error("expected initial mode with only a suggestion")
	}
	if modeFor("", "") != modeInitial {
		t.Error("expected initial mode with neither value")
	}
	if modeFor("   ", "make it blue") != modeInitial {
		t.Error("expected initial mode when previous prompt is blank")
	}
}
