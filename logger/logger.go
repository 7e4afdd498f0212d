// Package logger configures the global structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global sugared logger. It defaults to a no-op so packages
// can log before Initialize is called without nil checks.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. JSON output is for machine
// consumption; otherwise a human-readable console encoder is used. Debug
// lowers the level threshold.
func Initialize(jsonOutput, debug bool) error {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	var zapLogger *zap.Logger
	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		built, err := cfg.Build()
		if err != nil {
			return err
		}
		zapLogger = built
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encCfg),
				zapcore.AddSync(os.Stdout),
				level,
			),
		)
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Named returns a child of the global logger with the given name.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
