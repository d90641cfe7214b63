// Package logger holds the process-wide zap logger shared by the API server,
// the migrator and the terminal client.
package logger

import (
	"fmt"
	"os"

	"onyx-tutor/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Initialize replaces the global logger. Env "production" selects JSON
// output; anything else gets the console encoder. Output "none" discards
// everything.
func Initialize(cfg config.LoggerConfig) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		level = parsed
	}

	if cfg.Output == "none" {
		log = zap.NewNop()
		return nil
	}
	sink, err := openSink(cfg.Output)
	if err != nil {
		return fmt.Errorf("logger: open %s: %w", cfg.Output, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.MillisDurationEncoder

	var enc zapcore.Encoder
	if cfg.Env == "production" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	log = zap.New(zapcore.NewCore(enc, sink, level), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(f), nil
}

func Get() *zap.Logger { return log }

// Named returns a child logger tagged with component.
func Named(component string) *zap.Logger { return log.Named(component) }

func Sync() error { return log.Sync() }
