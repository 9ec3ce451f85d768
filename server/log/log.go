package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dhardy92/incubator-aurora/events"
	"github.com/dhardy92/incubator-aurora/server/flags"
	"github.com/spf13/viper"
)

// Base is a bare logger without attributes
var Base *slog.Logger

// logger is the server logger with default attributes
var logger *slog.Logger

// Init builds the loggers from the log-* flags, writing to out.
func Init(out io.Writer) error {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(viper.GetString(flags.LogLevel))); err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	options := slog.HandlerOptions{
		AddSource: viper.GetBool(flags.LogSource),
		Level:     logLevel,
	}

	switch format := viper.GetString(flags.LogFormat); format {
	case "json":
		Base = slog.New(slog.NewJSONHandler(out, &options))
	case "text":
		Base = slog.New(slog.NewTextHandler(out, &options))
	default:
		return fmt.Errorf("unknown log format '%s'", format)
	}

	// Packages without an injected logger fall back to slog.Default()
	slog.SetDefault(Base)

	logger = Component("server")
	return nil
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return Base.With("component", name)
}

// Event groups the kind and canonical key of an event under a single "event" attribute.
func Event(e events.Event) slog.Attr {
	return slog.Group("event",
		slog.String("kind", string(e.Kind())),
		slog.String("key", e.Key()),
	)
}

// Proxies for slog.Logger methods

func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}
