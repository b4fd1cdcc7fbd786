package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		verbose   bool
		wantDebug bool
	}{
		{"console quiet", "", false, false},
		{"console verbose", "console", true, true},
		{"json quiet", "json", false, false},
		{"json verbose", "production", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_FORMAT", tt.format)

			l, err := New("test", tt.verbose)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !l.Core().Enabled(zapcore.WarnLevel) {
				t.Error("warn level should always be enabled")
			}
		})
	}
}

func TestNewOrNop(t *testing.T) {
	if NewOrNop("test", false) == nil {
		t.Fatal("expected a logger")
	}
}

func TestNewAtLevel(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")

	l, err := NewAtLevel("test", zapcore.InfoLevel)
	if err != nil {
		t.Fatalf("NewAtLevel() error: %v", err)
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info level should be enabled")
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be disabled")
	}
}
