package logger_test

import (
	"testing"

	"github.com/riverbed-labs/nwisfetch/pkg/logger"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := logger.New("loud", false); err == nil {
		t.Error("expected error for invalid level, got nil")
	}
}

func TestNew_ValidLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		if _, err := logger.New(lvl, true); err != nil {
			t.Errorf("level %s: unexpected error %v", lvl, err)
		}
	}
}
