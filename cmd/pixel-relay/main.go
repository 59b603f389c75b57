// Command pixel-relay serves the hosted deployment variant: a small HTTP
// service holding the Gemini API key so browser and mobile clients never
// see it. Clients POST generation requests to /api/generate and receive
// the shaped {text} or {imageData} response.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pixel-foundry/pixel-studio/internal/auth"
	"github.com/pixel-foundry/pixel-studio/internal/logging"
	"github.com/pixel-foundry/pixel-studio/internal/relay"
)

var portFlag string

var rootCmd = &cobra.Command{
	Use:   "pixel-relay",
	Short: "HTTP relay that forwards generation requests to the Gemini API",
	Run:   runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Listen port (default $PORT or 8080)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	logging.Init()
	_ = godotenv.Load()

	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("GEMINI_API_KEY is required")
	}

	port := portFlag
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}

	handler := relay.NewHandler(relay.NewForwarder(apiKey, ""))

	mux := http.NewServeMux()
	mux.Handle("/api/generate", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // image generation is slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	log.Info().Str("port", port).Msg("Relay listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// withLogging logs API requests with timing.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
		}
	})
}
