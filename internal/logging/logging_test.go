package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewAppliesLevel(t *testing.T) {
	logger, err := New("warn", "json")
	if err != nil {
		t.Fatalf("new logger failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected error to be enabled at warn level")
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New("loud", "console"); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Fatalf("expected unknown encoding to fail")
	}
}
