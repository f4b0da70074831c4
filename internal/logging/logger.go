package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/config"
)

// New erstellt den Komponenten-Logger für stdout
func New(cfg config.LogConfig, component string) zerolog.Logger {
	return NewWithWriter(os.Stdout, cfg, component)
}

// NewWithWriter erstellt einen Komponenten-Logger, der nach w schreibt. Format "json"
// schreibt ein JSON-Objekt pro Zeile, sonst wird das lesbare Konsolenformat verwendet.
func NewWithWriter(w io.Writer, cfg config.LogConfig, component string) zerolog.Logger {
	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if os.Getenv("DEBUG") == "true" {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}
