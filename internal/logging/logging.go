package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a stderr logger for component. LOG_FORMAT selects the encoder:
// "json" or "production" gives structured JSON, anything else the console
// encoder. Only warnings and errors are emitted unless verbose is set.
func New(component string, verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return NewAtLevel(component, level)
}

// NewAtLevel is New with an explicit minimum level.
func NewAtLevel(component string, level zapcore.Level) (*zap.Logger, error) {
	var cfg zap.Config
	switch os.Getenv("LOG_FORMAT") {
	case "json", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build(zap.Fields(zap.String("component", component)))
}

// NewOrNop is New falling back to a no-op logger when the config cannot be built.
func NewOrNop(component string, verbose bool) *zap.Logger {
	l, err := New(component, verbose)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
