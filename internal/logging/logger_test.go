package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{" Debug ", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tc := range tests {
		t.Setenv("PIXEL_LOG_LEVEL", tc.env)
		Init()
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Errorf("env %q: expected level %v, got %v", tc.env, tc.want, got)
		}
	}
}
