package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/pixel-foundry/pixel-studio/internal/auth"
	"github.com/pixel-foundry/pixel-studio/internal/logging"
	"github.com/pixel-foundry/pixel-studio/internal/studio"
)

// CLI flags
var (
	subjectFlag    string
	styleFlag      string
	goalFlag       string
	outFlag        string
	modelFlag      string
	imageModelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "pixel-studio",
	Short: "AI image studio: turn a photo, a style reference, and an idea into a generated image",
	Long: `Pixel Studio combines a subject image, a style reference image, and/or a short
text idea into a single rich prompt, then generates an image from that prompt.

After each result you can type a free-text suggestion ("make it blue",
"add falling snow") and the suggestion is merged into the previous prompt
for a refined image.

Examples:
  pixel-studio --subject photo.jpg --goal "make it look like a watercolor"
  pixel-studio -s photo.jpg --style monet.jpg -g "paint my house in this style"
  pixel-studio -g "a castle in the clouds at sunset" -o castle.png
  pixel-studio  # Interactive mode - prompts for a description`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&subjectFlag, "subject", "s", "", "Subject image file (the image to transform)")
	rootCmd.Flags().StringVar(&styleFlag, "style", "", "Style reference image file (aesthetic direction only)")
	rootCmd.Flags().StringVarP(&goalFlag, "goal", "g", "", "Description of what to create")
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", "pixel-studio-output.png", "Output file for the generated image")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", studio.DefaultTextModel, "Gemini model for prompt synthesis")
	rootCmd.Flags().StringVar(&imageModelFlag, "image-model", studio.DefaultImageModel, "Gemini model for image generation")

	rootCmd.AddCommand(authCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()
	_ = godotenv.Load()

	ctx := context.Background()
	apiKey := mustValidatedKey(ctx)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	textModel := studio.GetTextModel()
	if cmd.Flags().Changed("model") {
		textModel = modelFlag
	}
	imageModel := studio.GetImageModel()
	if cmd.Flags().Changed("image-model") {
		imageModel = imageModelFlag
	}

	req := buildRequest()
	st := studio.New(client, textModel, imageModel)
	sess := &studio.Session{}

	round := 1
	if err := st.Generate(ctx, req, sess); err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}
	showRound(sess, round)

	// Enhancement loop: each suggestion is merged into the previous prompt.
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\nEnhancement suggestion (press Enter to finish): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		suggestion := strings.TrimSpace(input)
		if suggestion == "" {
			break
		}

		sess.PendingSuggestion = suggestion
		round++
		if err := st.Generate(ctx, req, sess); err != nil {
			log.Error().Err(err).Msg("Enhancement round failed")
			round--
			continue
		}
		showRound(sess, round)
	}

	log.Info().Int("rounds", round).Msg("Done")
}

// mustValidatedKey retrieves the API key and verifies it with a probe call.
// A stored key that fails validation is cleared so the next run re-prompts.
func mustValidatedKey(ctx context.Context) string {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to retrieve API key")
	}

	if !auth.NewKeyValidator().Validate(ctx, apiKey) {
		if clearErr := auth.ClearAPIKey(); clearErr != nil {
			log.Warn().Err(clearErr).Msg("Failed to clear stored API key")
		}
		log.Fatal().Msg("API key failed validation. Check the key and your network connection, then run 'pixel-studio auth set'")
	}

	log.Info().Msg("API key validated")
	return apiKey
}

// buildRequest loads the flag-specified assets and prompts for a goal when
// nothing at all was supplied.
func buildRequest() studio.GenerateRequest {
	var req studio.GenerateRequest

	if subjectFlag != "" {
		asset, err := studio.LoadImageAsset(subjectFlag)
		if err != nil {
			log.Fatal().Err(err).Str("path", subjectFlag).Msg("Failed to load subject image")
		}
		req.Subject = asset
	}

	if styleFlag != "" {
		asset, err := studio.LoadImageAsset(styleFlag)
		if err != nil {
			log.Fatal().Err(err).Str("path", styleFlag).Msg("Failed to load style image")
		}
		req.Style = asset
	}

	req.Goal = goalFlag
	if req.Subject == nil && req.Style == nil && strings.TrimSpace(req.Goal) == "" {
		req.Goal = promptForGoal()
	}

	return req
}

// promptForGoal asks interactively for a description.
func promptForGoal() string {
	fmt.Print("Describe what to create: ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}
	return strings.TrimSpace(input)
}

// showRound writes the round's image to disk and prints the prompt that
// produced it.
func showRound(sess *studio.Session, round int) {
	path := outputPath(outFlag, round)
	if err := writeImage(sess.Image, path); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write image")
	}

	fmt.Printf("\nPrompt:\n%s\n", sess.Prompt)
	fmt.Printf("\nImage written to %s\n", path)
}

// outputPath appends the round number to the base output path after the
// first round: out.png, out-2.png, out-3.png, ...
func outputPath(base string, round int) string {
	if round == 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), round, ext)
}

// writeImage decodes the base64 result payload and writes it to disk.
func writeImage(img *studio.ImageResult, path string) error {
	raw, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return fmt.Errorf("decode image payload: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
