package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pixel-foundry/pixel-studio/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored Gemini API key",
}

var authSetCmd = &cobra.Command{
	Use:   "set [api-key]",
	Short: "Validate and store a Gemini API key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		apiKey := args[0]

		if !auth.NewKeyValidator().Validate(context.Background(), apiKey) {
			log.Error().Msg("API key failed validation; not saving")
			os.Exit(1)
		}

		if err := auth.SaveAPIKey(apiKey); err != nil {
			log.Fatal().Err(err).Msg("Failed to save API key")
		}
		fmt.Println("API key validated and saved")
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Run: func(cmd *cobra.Command, args []string) {
		if err := auth.ClearAPIKey(); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear API key")
		}
		fmt.Println("Stored API key removed")
	},
}

var authCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured API key works",
	Run: func(cmd *cobra.Command, args []string) {
		apiKey, err := auth.GetAPIKey()
		if err != nil {
			log.Fatal().Err(err).Msg("No API key configured")
		}

		if auth.NewKeyValidator().Validate(context.Background(), apiKey) {
			fmt.Println("API key is valid")
			return
		}
		fmt.Println("API key is invalid or unreachable")
		os.Exit(1)
	},
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authClearCmd)
	authCmd.AddCommand(authCheckCmd)
}
