package logx

import (
	"strings"

	"crypto-report/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Events go to stderr and, when LogFile is
// set, are appended to that file one JSON line each.
func New(cfg config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.LogLevel != "" {
		_ = zapCfg.Level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel)))
	}
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.LogFile != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.LogFile)
	}
	zapCfg.InitialFields = map[string]interface{}{"env": cfg.Env}

	return zapCfg.Build(zap.AddCaller())
}

// Must is New for process start-up, where a broken logger is unrecoverable.
func Must(cfg config.Config) *zap.Logger {
	return zap.Must(New(cfg))
}
