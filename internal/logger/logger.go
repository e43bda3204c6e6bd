// Package logger provides structured logging setup for Agentry.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/agentry-dev/agentry/internal/config"
)

// Closer flushes and stops an async handler. Synchronous loggers return a
// no-op Closer.
type Closer interface {
	Close()
}

type nopCloser struct{}

func (nopCloser) Close() {}

// New creates a *slog.Logger from the given Logging config. Output is JSON
// to stdout with a "service" attribute on every record. When cfg.Async is
// set, records are handled by a buffered background worker; the returned
// Closer drains it.
func New(cfg config.Logging) (*slog.Logger, Closer) {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	closer := Closer(nopCloser{})
	if cfg.Async {
		ah := newAsyncHandler(handler, 1024)
		handler = ah
		closer = ah
	}

	return slog.New(handler).With("service", cfg.Service), closer
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// asyncHandler decouples log production from the underlying handler with a
// bounded channel. Records are dropped, not blocked on, when the buffer is
// full.
type asyncHandler struct {
	inner   slog.Handler
	ch      chan slog.Record
	wg      *sync.WaitGroup
	dropped *atomic.Int64
}

func newAsyncHandler(inner slog.Handler, buffer int) *asyncHandler {
	h := &asyncHandler{
		inner:   inner,
		ch:      make(chan slog.Record, buffer),
		wg:      &sync.WaitGroup{},
		dropped: &atomic.Int64{},
	}
	h.wg.Add(1)
	go h.drain()
	return h
}

func (h *asyncHandler) drain() {
	defer h.wg.Done()
	for rec := range h.ch {
		_ = h.inner.Handle(context.Background(), rec)
	}
}

func (h *asyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *asyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	select {
	case h.ch <- rec:
	default:
		h.dropped.Add(1)
	}
	return nil
}

func (h *asyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &asyncHandler{inner: h.inner.WithAttrs(attrs), ch: h.ch, wg: h.wg, dropped: h.dropped}
}

func (h *asyncHandler) WithGroup(name string) slog.Handler {
	return &asyncHandler{inner: h.inner.WithGroup(name), ch: h.ch, wg: h.wg, dropped: h.dropped}
}

// Dropped returns the number of records discarded because the buffer was full.
func (h *asyncHandler) Dropped() int64 { return h.dropped.Load() }

// Close closes the channel and waits for the worker to drain.
func (h *asyncHandler) Close() {
	close(h.ch)
	h.wg.Wait()
}
