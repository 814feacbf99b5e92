package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", want: slog.LevelDebug},
		{name: "info", want: slog.LevelInfo},
		{name: "", want: slog.LevelInfo},
		{name: "warn", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
		{name: "trace", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseLevel(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Expected error for level %q", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Failed to parse level %q: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Expected level %v for %q, got %v", tc.want, tc.name, got)
		}
	}
}

func TestInit(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	var buf bytes.Buffer
	if err := Init("warn", &buf); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	slog.Info("should be filtered")
	slog.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be filtered") {
		t.Error("Expected info messages to be filtered at warn level")
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("Expected warn message in output, got %q", output)
	}
}

func TestInit_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("loud", &buf); err == nil {
		t.Error("Expected error for unknown level")
	}
}
