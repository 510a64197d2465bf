// Package clog provides a colorized, single-line-per-record slog.Handler
// for the runner's diagnostic logging. It is distinct from the user-facing
// pass/fail report: clog only speaks at --verbose/debug level and is
// silent in normal and quiet operation.
package clog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/fatih/color"
)

// Config controls the handler's level gate and coloring.
type Config struct {
	Color bool
	Level slog.Level
}

// TextHandler renders slog records as "<time> <level> \"<msg>\" k=v k=v".
type TextHandler struct {
	cfg    Config
	groups []string
	attrs  []slog.Attr
	w      io.Writer
}

// New builds a TextHandler writing to w.
func New(w io.Writer, cfg Config) *TextHandler {
	return &TextHandler{cfg: cfg, w: w}
}

func (h *TextHandler) clone() *TextHandler {
	nh := *h
	nh.groups = append([]string(nil), h.groups...)
	nh.attrs = append([]slog.Attr(nil), h.attrs...)
	return &nh
}

func (h *TextHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.cfg.Level
}

func (h *TextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := h.clone()
	nh.groups = append(nh.groups, name)
	return nh
}

func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	nh.attrs = append(nh.attrs, attrs...)
	return nh
}

func (h *TextHandler) Handle(_ context.Context, record slog.Record) error {
	color.NoColor = !h.cfg.Color

	c := color.New()
	if _, err := c.Fprintf(h.w, "%s ", record.Time.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("clog: write time: %w", err)
	}

	switch record.Level {
	case slog.LevelDebug:
		c = color.New(color.FgCyan)
	case slog.LevelInfo:
		c = color.New(color.FgBlue)
	case slog.LevelWarn:
		c = color.New(color.FgYellow)
	case slog.LevelError:
		c = color.New(color.FgRed)
	default:
		c = color.New()
	}
	if _, err := c.Fprintf(h.w, "%-5s ", record.Level); err != nil {
		return fmt.Errorf("clog: write level: %w", err)
	}

	c = color.New(color.FgGreen)
	if _, err := c.Fprintf(h.w, "%q", record.Message); err != nil {
		return fmt.Errorf("clog: write message: %w", err)
	}

	kv := map[string]slog.Value{}
	for _, attr := range h.attrs {
		kv[attr.Key] = attr.Value
	}
	record.Attrs(func(attr slog.Attr) bool {
		kv[attr.Key] = attr.Value
		return true
	})

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c = color.New()
	for _, k := range keys {
		if _, err := c.Fprintf(h.w, " %s=%v", k, kv[k]); err != nil {
			return fmt.Errorf("clog: write attr %s: %w", k, err)
		}
	}
	_, err := fmt.Fprintln(h.w)
	return err
}
