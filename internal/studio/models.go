package studio

import "os"

// Gemini Model IDs
//
// | Model Name              | API Model ID                   | Use Case                       |
// |-------------------------|--------------------------------|--------------------------------|
// | Gemini 2.5 Flash        | gemini-2.5-flash               | Prompt synthesis (text/vision) |
// | Gemini 2.5 Pro          | gemini-2.5-pro                 | Higher-quality synthesis       |
// | Gemini 2.5 Flash Image  | gemini-2.5-flash-image-preview | Image generation/editing       |
const (
	// ModelGemini25Flash is the default text/vision model for prompt synthesis.
	ModelGemini25Flash = "gemini-2.5-flash"

	// ModelGemini25Pro is a slower, higher-reasoning alternative.
	ModelGemini25Pro = "gemini-2.5-pro"

	// ModelGemini25FlashImage generates and edits images.
	ModelGemini25FlashImage = "gemini-2.5-flash-image-preview"
)

// DefaultTextModel is the model used for prompt synthesis unless overridden
// via the GEMINI_MODEL environment variable.
const DefaultTextModel = ModelGemini25Flash

// DefaultImageModel is the model used for image synthesis unless overridden
// via the GEMINI_IMAGE_MODEL environment variable.
const DefaultImageModel = ModelGemini25FlashImage

// GetTextModel resolves the prompt-synthesis model from GEMINI_MODEL,
// falling back to DefaultTextModel.
func GetTextModel() string {
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return DefaultTextModel
}

// GetImageModel resolves the image-synthesis model from GEMINI_IMAGE_MODEL,
// falling back to DefaultImageModel.
func GetImageModel() string {
	if env := os.Getenv("GEMINI_IMAGE_MODEL"); env != "" {
		return env
	}
	return DefaultImageModel
}
