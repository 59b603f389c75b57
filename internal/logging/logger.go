// Package logging configures the global zerolog logger for the pixel-studio
// binaries.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. PIXEL_LOG_LEVEL selects the level
// (trace, debug, info, warn, error; default info); output is a console
// writer on stderr so generated prompts on stdout stay clean.
func Init() {
	level := zerolog.InfoLevel
	if env := strings.ToLower(strings.TrimSpace(os.Getenv("PIXEL_LOG_LEVEL"))); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
