package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_Level(t *testing.T) {
	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{level: "debug", expected: zerolog.DebugLevel},
		{level: "trace", expected: zerolog.TraceLevel},
		{level: "warn", expected: zerolog.WarnLevel},
		{level: "", expected: zerolog.InfoLevel},
		{level: "loud", expected: zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		logger := NewWithWriter(tc.level, &bytes.Buffer{})
		if logger.GetLevel() != tc.expected {
			t.Errorf("New(%q) level = %s; want %s", tc.level, logger.GetLevel(), tc.expected)
		}
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn message in output, got %q", out)
	}
}
