// Package log provides logging utilities.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/ghettovoice/httphdr/internal/grammar"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(t time.Time) slog.Value {
		return slog.StringValue(grammar.FormatDate(t))
	}),
	slogformatter.FormatByType(func(s fmt.Stringer) slog.Value {
		return slog.GroupValue(
			slog.String("type", fmt.Sprintf("%T", s)),
			slog.String("value", s.String()),
		)
	}),
)

// Def is a default logger.
var Def = slog.New(newHandler(
	console.NewHandler(os.Stdout, &console.HandlerOptions{
		AddSource:  true,
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339Nano,
	}),
))

// Dev is a developer logger.
var Dev = slog.New(newHandler(
	devslog.NewHandler(os.Stdout, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		},
		SortKeys:   true,
		TimeFormat: time.RFC3339Nano,
	}),
))

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

// New wraps h with the package formatters.
func New(h slog.Handler) *slog.Logger { return slog.New(newHandler(h)) }

type tailValue struct {
	s   string
	max int
}

func (v tailValue) LogValue() slog.Value {
	if len(v.s) <= v.max {
		return slog.StringValue(v.s)
	}
	n := v.max
	for n > 0 && !utf8.RuneStart(v.s[n]) {
		n--
	}
	return slog.StringValue(v.s[:n] + "...")
}

// TailValue returns a value logger that prints at most max bytes of s.
func TailValue(s string, max int) slog.LogValuer { return tailValue{s, max} }
