package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.raw); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFromContextDefault(t *testing.T) {
	if got := FromContext(context.Background()); got != L {
		t.Error("expected global logger for bare context")
	}
}

func TestWithContextRoundTrip(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(discardWriter{}, nil))
	ctx := WithContext(context.Background(), custom)
	if got := FromContext(ctx); got != custom {
		t.Error("expected logger stored in context")
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
