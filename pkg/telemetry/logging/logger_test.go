package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestNew_Defaults tests that empty config produces a JSON info logger.
func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Slog().Info("rotation complete", "policy", "wifi-scan")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "rotation complete" {
		t.Errorf("Expected msg 'rotation complete', got %v", entry["msg"])
	}
	if entry["policy"] != "wifi-scan" {
		t.Errorf("Expected policy field 'wifi-scan', got %v", entry["policy"])
	}
}

// TestNew_TextFormat tests text handler selection.
func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Slog().Info("sweep complete")

	if !strings.Contains(buf.String(), "msg=\"sweep complete\"") {
		t.Errorf("Expected text format output, got %q", buf.String())
	}
}

// TestNew_LevelFiltering tests that messages below the level are dropped.
func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Slog().Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at warn level, got %q", buf.String())
	}

	logger.Slog().Warn("should be kept")
	if buf.Len() == 0 {
		t.Error("Expected warn message to be written")
	}
}

// TestNew_InvalidConfig tests level and format validation.
func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "bad level", cfg: Config{Level: "loud"}},
		{name: "bad format", cfg: Config{Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("Expected error for invalid config")
			}
		})
	}
}

// TestLogger_With tests field inheritance.
func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	child := logger.With("component", "rotation.handle")
	child.Slog().Info("rotated")

	if !strings.Contains(buf.String(), "rotation.handle") {
		t.Errorf("Expected component field in output, got %q", buf.String())
	}
}
