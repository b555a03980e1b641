package logging

import (
	"go.uber.org/zap"
)

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapLogger) Printf(message string, args ...interface{}) {
	l.sugar.Debugf(message, args...)
}

// NewDebugLogger returns a Logger that writes timestamped debug output to
// stdout, for use with the -debug-all command line option. It falls back to
// the null logger if the zap core cannot be built.
func NewDebugLogger() Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stdout"}
	core, err := cfg.Build()
	if err != nil {
		return NullLogger()
	}
	return zapLogger{sugar: core.Sugar()}
}
