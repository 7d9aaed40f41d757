package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewAddsServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", ServiceName: "loop-api", Output: &buf})
	l.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"service":"loop-api"`) {
		t.Errorf("expected service field, got %s", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message, got %s", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "error", Output: &buf})
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line should be filtered at error level, got %s", buf.String())
	}
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	child := New(Config{Output: &buf}).With().Str(FieldRequestID, "abc").Logger()

	ctx := WithLogger(context.Background(), child)
	l := Ctx(ctx)
	l.Info().Msg("scoped")
	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Errorf("expected request-scoped logger, got %s", buf.String())
	}

	// No logger in context: must not panic and must return a usable logger.
	g := Ctx(context.Background())
	g.Debug().Msg("global")
}
