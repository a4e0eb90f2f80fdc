package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	testCases := []struct {
		name          string
		level         string
		expectedLevel zerolog.Level
	}{
		{name: "Debug level", level: "debug", expectedLevel: zerolog.DebugLevel},
		{name: "Upper case level", level: "WARN", expectedLevel: zerolog.WarnLevel},
		{name: "Invalid level falls back to info", level: "chatty", expectedLevel: zerolog.InfoLevel},
		{name: "Empty level falls back to info", level: "", expectedLevel: zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewWithWriter(&buf, tc.level, "test")

			if l.GetLevel() != tc.expectedLevel {
				t.Errorf("Expected level %s, got %s", tc.expectedLevel, l.GetLevel())
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info", "postboard")

	l.Error().Stack().Err(errors.New("boom")).Msg("Error fetching posts")

	out := buf.String()
	for _, want := range []string{"Error fetching posts", "postboard", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q, got %s", want, out)
		}
	}
}
