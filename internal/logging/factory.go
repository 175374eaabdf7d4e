package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatSlog    = "slog"
)

// New builds a Logger writing to w in the given format. Unknown formats fall
// back to zerolog JSON.
func New(format string, w io.Writer) Logger {
	switch format {
	case FormatSlog:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil)))
	case FormatConsole:
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return NewZerologLogger(zerolog.New(cw).With().Timestamp().Logger())
	default:
		return NewZerologLogger(zerolog.New(w).With().Timestamp().Logger())
	}
}
