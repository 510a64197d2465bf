// Package runenv loads environment-variable defaults that flags may
// override. It never fails the run on a missing variable: every field has
// a default matching the documented flag default.
package runenv

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Env holds the CLITEST_* environment defaults.
type Env struct {
	Shell       string `split_words:"true" default:"/bin/sh"`
	DiffOptions string `split_words:"true" default:"-u"`
	NoColor     bool   `split_words:"true" default:"false"`
	LogLevel    string `split_words:"true" default:"warn"`
}

const namespace = "CLITEST"

// Load reads CLITEST_* environment variables into an Env, filling in
// defaults for anything unset.
func Load() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load environment defaults: %w", err)
	}
	return &env, nil
}

// SlogLevel parses LogLevel into an slog.Level, defaulting to Warn for an
// unrecognized value.
func (e *Env) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelWarn
	}
	switch strings.ToLower(e.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
