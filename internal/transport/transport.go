// Package transport delivers previous/next track commands to the system media player.
package transport

import (
	"errors"
	"log"
)

// ErrUnavailable is returned when no media player can receive commands.
var ErrUnavailable = errors.New("media transport unavailable")

// Commander sends media-transport commands. No acknowledgment is expected.
type Commander interface {
	Previous() error
	Next() error
	Close() error
}

// Logging records commands instead of sending them. It is the fallback when the
// platform integration is not available.
type Logging struct {
	log *log.Logger
}

// NewLogging returns a Commander that only logs.
func NewLogging(logger *log.Logger) *Logging {
	return &Logging{log: logger}
}

func (l *Logging) Previous() error {
	l.printf("previous track (no media transport)")
	return nil
}

func (l *Logging) Next() error {
	l.printf("next track (no media transport)")
	return nil
}

func (l *Logging) Close() error { return nil }

func (l *Logging) printf(format string, args ...any) {
	if l.log != nil {
		l.log.Printf(format, args...)
	}
}

// Open returns the platform commander, falling back to Logging when it cannot be reached.
func Open(logger *log.Logger) Commander {
	cmd, err := openPlatform()
	if err != nil {
		if logger != nil {
			logger.Printf("media transport disabled: %v", err)
		}
		return NewLogging(logger)
	}
	return cmd
}
