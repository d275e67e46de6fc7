// Package testlog routes engine logging to the unit test log, so cheatcode
// traces show up interleaved with test output and only for failing tests.
package testlog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
)

// Logger returns a geth logger that forwards records at or above lvl to t.
func Logger(t testing.TB, lvl slog.Level) log.Logger {
	return log.NewLogger(&handler{t: t, lvl: lvl})
}

type handler struct {
	t     testing.TB
	lvl   slog.Level
	attrs []slog.Attr
}

var _ slog.Handler = (*handler)(nil)

func (h *handler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.lvl
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	h.t.Helper()
	var sb strings.Builder
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})
	h.t.Logf("%-5s %s", strings.ToUpper(r.Level.String()), sb.String())
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		t:     h.t,
		lvl:   h.lvl,
		attrs: append(slices.Clip(h.attrs), attrs...),
	}
}

func (h *handler) WithGroup(_ string) slog.Handler {
	return h
}
