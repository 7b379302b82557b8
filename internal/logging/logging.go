// Package logging builds the zap logger used by the CLI and the API server.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shapestone/shape-reqline/internal/config"
)

// New builds a logger from cfg. The returned level can be changed at runtime.
// When cfg.File is set, output is written through a rotating lumberjack file;
// otherwise it goes to stderr.
func New(cfg config.LogConfig) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, level, fmt.Errorf("logging: level %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch cfg.Encoding {
	case "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, writer(cfg), level)
	return zap.New(core, zap.AddCaller()), level, nil
}

func writer(cfg config.LogConfig) zapcore.WriteSyncer {
	if cfg.File == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	})
}

// SetLevel applies a textual level to an existing atomic level.
func SetLevel(level zap.AtomicLevel, text string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(text)); err != nil {
		return fmt.Errorf("logging: level %q: %w", text, err)
	}
	level.SetLevel(l)
	return nil
}
