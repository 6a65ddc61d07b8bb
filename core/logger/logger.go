package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

func init() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewNop()
	}
	log = base.Sugar()
}

// Init reconfigures the global logger with the given level ("debug", "info", "warn", "error").
func Init(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	log = base.Sugar()
}

func Debug(msg string, args ...any) { log.Debugw(msg, normalize(args)...) }
func Info(msg string, args ...any)  { log.Infow(msg, normalize(args)...) }
func Warn(msg string, args ...any)  { log.Warnw(msg, normalize(args)...) }
func Error(msg string, args ...any) { log.Errorw(msg, normalize(args)...) }

func Sync() {
	_ = log.Sync()
}

// normalize tolerates the two call shapes used across the codebase:
// logger.Error("Component:Method", err) and logger.Error("Component:Method", "key", value).
func normalize(args []any) []any {
	out := make([]any, 0, len(args)+1)
	for i := 0; i < len(args); {
		if _, ok := args[i].(string); ok && i+1 < len(args) {
			out = append(out, args[i], args[i+1])
			i += 2
			continue
		}
		switch args[i].(type) {
		case error:
			out = append(out, "error", args[i])
		default:
			out = append(out, "detail", args[i])
		}
		i++
	}
	return out
}
