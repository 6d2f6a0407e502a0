// Package logger holds the process-wide zap logger shared by the CLI
// commands, the local gateway and the session client.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log   *zap.Logger
	sugar *zap.SugaredLogger
	level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

// Init builds the global logger for service. env "dev" selects colored
// console output, anything else JSON. Everything is written to stderr;
// stdout carries command results only. An unparsable level keeps the
// current one.
func Init(service, env, lvl string) {
	var cfg zap.Config
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	_ = SetLevel(lvl)
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.InitialFields = map[string]any{"service": service}

	built, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log = built
	sugar = built.Sugar()

	sugar.Debugw("logger initialized", "env", env, "level", level.String())
}

// SetLevel changes the level of the global logger, including loggers
// already derived from it.
func SetLevel(name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log level %q: %w", name, err)
	}
	level.SetLevel(l)
	return nil
}

// Level reports the current global level.
func Level() zapcore.Level { return level.Level() }

func L() *zap.Logger {
	if log == nil {
		Init("splitora", "dev", level.String())
	}
	return log
}

func S() *zap.SugaredLogger {
	if sugar == nil {
		Init("splitora", "dev", level.String())
	}
	return sugar
}

// Named returns a child of the global logger scoped to component.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// Sync flushes buffered entries. Errors are dropped: stderr on a terminal
// reports EINVAL on sync.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
