// Package observability builds the analyzer driver's structured logger: a
// zap.SugaredLogger whose every encoded line is passed through the
// redaction engine before it reaches its sink, so a GitHub token pulled
// into an error value can never leak into log output.
package observability

import (
	"fmt"

	"github.com/bkyoung/goodtogo/internal/config"
	"github.com/bkyoung/goodtogo/internal/redaction"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap.SugaredLogger from cfg. A disabled config returns
// zap.NewNop().Sugar(), so callers can log unconditionally.
func NewLogger(cfg config.LoggingConfig, redactor *redaction.Engine) (*zap.SugaredLogger, error) {
	if !cfg.Enabled {
		return zap.NewNop().Sugar(), nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "human":
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, redactingSink{redactor: redactor}, zap.NewAtomicLevelAt(level))
	return zap.New(core).Sugar(), nil
}

// redactingSink implements zapcore.WriteSyncer, scrubbing every encoded
// log line through the redaction engine before it reaches stderr.
type redactingSink struct {
	redactor *redaction.Engine
}

func (s redactingSink) Write(p []byte) (int, error) {
	clean, _ := s.redactor.Redact(string(p))
	n, err := fmt.Print(clean)
	if err != nil {
		return n, err
	}
	return len(p), nil
}

func (s redactingSink) Sync() error { return nil }
