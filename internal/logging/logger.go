package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New bikin zap logger JSON ke stdout, field service+env ikut di tiap entry.
func New(service, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	if env == "development" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	lg, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return lg.With(zap.String("service", service), zap.String("env", env)), nil
}
