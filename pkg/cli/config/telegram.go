package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Telegram holds configuration for the Telegram transport
type Telegram struct {
	token string
}

// Flags returns CLI flags for Telegram configuration
func (t *Telegram) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "telegram-token",
			Usage:       "Telegram bot token (the bot transport is disabled without it)",
			Sources:     cli.EnvVars("VECINO_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"),
			Destination: &t.token,
		},
	}
}

// Token returns the configured bot token
func (t *Telegram) Token() string {
	return t.token
}

// IsConfigured reports whether the Telegram transport should start
func (t *Telegram) IsConfigured() bool {
	return t.token != ""
}

// LogAttrs returns log attributes for the Telegram configuration. The
// token is never logged.
func (t *Telegram) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("configured", t.IsConfigured()),
	}
}
