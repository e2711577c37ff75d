package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var log = slog.New(slog.NewTextHandler(os.Stdout, nil))

type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init configures the package logger. Production writes JSON at info
// level; anything else writes text at debug level. When a log file is
// set, output is also written to a rotating file.
func Init(env string, opts ...Options) {
	var out io.Writer = os.Stdout
	if len(opts) > 0 && opts[0].File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts[0].File,
			MaxSize:    opts[0].MaxSizeMB,
			MaxBackups: opts[0].MaxBackups,
			MaxAge:     opts[0].MaxAgeDays,
			Compress:   true,
		})
	}

	log = slog.New(newHandler(env, out))
	slog.SetDefault(log)
}

func newHandler(env string, out io.Writer) slog.Handler {
	if env == "production" {
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
}

func Debug(msg string, args ...any) {
	log.Debug(msg, attrs(args)...)
}

func Info(msg string, args ...any) {
	log.Info(msg, attrs(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, attrs(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, attrs(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, attrs(args)...)
	os.Exit(1)
}

// With returns a logger carrying the given attributes, e.g. a trace id.
func With(args ...any) *slog.Logger {
	return log.With(attrs(args)...)
}

func Enabled(level slog.Level) bool {
	return log.Enabled(context.Background(), level)
}

// attrs accepts key/value pairs as well as bare errors or strings, so
// callers can write logger.Error("msg", err).
func attrs(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case slog.Attr:
			out = append(out, v)
		case error:
			out = append(out, slog.String("error", v.Error()))
		case string:
			if i+1 < len(args) {
				out = append(out, v, args[i+1])
				i++
				continue
			}
			out = append(out, slog.String("detail", v))
		default:
			out = append(out, slog.Any("detail", v))
		}
	}
	return out
}
