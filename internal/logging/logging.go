package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// ParseLevel accepts debug, info, warn and error in any case
func ParseLevel(text string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(text) == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(text)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", text, err)
	}
	return level, nil
}

// SetupLogger builds a logger writing text records to w. When seqURL is set the
// records are also shipped to Seq. The returned cleanup function flushes Seq.
func SetupLogger(w io.Writer, level slog.Level, seqURL string) (*slog.Logger, func()) {
	consoleHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	if seqURL == "" {
		return slog.New(consoleHandler), func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		seqURL,
		slogseq.WithBatchSize(50),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(&slog.HandlerOptions{Level: level}),
	)

	// If Seq is not available, use console only
	if seqHandler == nil {
		return slog.New(consoleHandler), func() {}
	}

	multi := &multiHandler{
		handlers: []slog.Handler{consoleHandler, seqHandler},
	}
	return slog.New(multi), func() {
		seqHandler.Close()
	}
}
