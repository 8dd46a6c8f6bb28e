package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Init builds the global logger: JSON output in production, console output
// anywhere else. The level can be changed later with SetLevel.
func Init(environment string, lvl string) error {
	if err := SetLevel(lvl); err != nil {
		return err
	}

	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = level

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("cfg.Build -> %w", err)
	}

	zap.ReplaceGlobals(logger)

	return nil
}

// SetLevel changes the level of the global logger at runtime. An empty level
// keeps the current one.
func SetLevel(lvl string) error {
	if lvl == "" {
		return nil
	}

	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}
	level.SetLevel(parsed)

	return nil
}

func Level() zapcore.Level {
	return level.Level()
}
