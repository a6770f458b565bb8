// Package logging builds the application logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// New builds a zap logger for cfg. Logs go to stderr so that command output
// on stdout stays machine readable, or to cfg.File when set. The returned
// close func flushes the logger and closes the file.
func New(cfg entities.LoggingConfig) (*zap.Logger, func() error, error) {
	out := zapcore.Lock(os.Stderr)
	var file *os.File
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		file = f
		out = zapcore.AddSync(f)
	}

	logger := NewWithWriter(cfg, out, file == nil)

	closeFn := func() error {
		// Sync on stderr fails on some platforms, ignore it
		_ = logger.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}

	return logger, closeFn, nil
}

// NewWithWriter builds a logger writing to w. Colored levels are only used
// for console output to a terminal-like writer.
func NewWithWriter(cfg entities.LoggingConfig, w io.Writer, color bool) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.JSONFormat {
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if color {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), Level(cfg.GetLevel()))

	return zap.New(core, zap.AddCaller())
}

// Level maps a configured log level to zap's
func Level(level entities.LogLevel) zapcore.Level {
	switch level {
	case entities.LogLevelDebug:
		return zap.DebugLevel
	case entities.LogLevelWarn:
		return zap.WarnLevel
	case entities.LogLevelError:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
