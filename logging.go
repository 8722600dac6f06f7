package identity

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger writes JSON log lines to w at the given level.
// Unknown levels fall back to info.
func NewZerologLogger(w io.Writer, level string) *ZerologLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &ZerologLogger{
		logger: zerolog.New(w).Level(lvl).With().Timestamp().Str("component", "identity").Logger(),
	}
}

func (l *ZerologLogger) Debug(format string, args ...any) {
	l.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *ZerologLogger) Info(format string, args ...any) {
	l.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *ZerologLogger) Error(format string, args ...any) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}
