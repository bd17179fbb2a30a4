// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"

	"github.com/fadilmartias/grant-portal/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger for production environments and a
// human readable development logger otherwise.
func New(appConfig *config.AppConfig) (*zap.Logger, error) {
	var cfg zap.Config
	if appConfig.IsProduction() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.With(zap.String("app", appConfig.Name), zap.String("env", appConfig.Env)), nil
}
