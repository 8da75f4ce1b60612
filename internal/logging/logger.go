// Package logging builds the process-wide zap logger.
package logging

import (
	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a development logger for gin debug mode and a JSON production
// logger otherwise.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == gin.DebugMode {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "build zap logger")
	}
	return logger, nil
}

// Install replaces the zap globals with logger and returns a func restoring
// the previous ones.
func Install(logger *zap.Logger) func() {
	return zap.ReplaceGlobals(logger)
}
