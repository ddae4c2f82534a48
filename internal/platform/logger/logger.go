// Package logger builds the zerolog logger shared by the conversation core
// and the CLI. Gateway diagnostics (provider faults behind fallback
// messages) flow through it; nothing here is shown to chat users.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a timestamped logger tagged with the service name. The level
// defaults to info; GUIDECHAT_LOG_LEVEL overrides it ("debug", "warn", ...)
// and an unparseable value is ignored.
func New(service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if s := os.Getenv("GUIDECHAT_LOG_LEVEL"); s != "" {
		if l, err := zerolog.ParseLevel(s); err == nil {
			level = l
		}
	}
	return zerolog.New(os.Stdout).Level(level).With().
		Str("service", service).
		Timestamp().
		Logger()
}
