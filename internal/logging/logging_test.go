package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		env     string
		verbose bool
		debug   bool
	}{
		{"dev", false, false},
		{"dev", true, true},
		{"prod", false, false},
		{"prod", true, true},
	}
	for _, tt := range tests {
		logger, err := New(tt.env, tt.verbose)
		if err != nil {
			t.Fatalf("New(%q, %v): %v", tt.env, tt.verbose, err)
		}
		if got := logger.Core().Enabled(zap.DebugLevel); got != tt.debug {
			t.Errorf("New(%q, %v) debug enabled = %v", tt.env, tt.verbose, got)
		}
		if zap.L() != logger {
			t.Error("global logger not replaced")
		}
	}
}
