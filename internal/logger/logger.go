package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. Production JSON output by default;
// APP_ENV=local switches to the human-readable development encoder.
func New(service, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" || env == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build(zap.Fields(zap.String("service", service)))
}
