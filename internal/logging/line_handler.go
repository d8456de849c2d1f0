package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// layout renders one record into buf. component has already been pulled out
// of attrs.
type layout func(buf *bytes.Buffer, ts time.Time, level slog.Level, component, message string, attrs []kv)

// lineHandler writes one line per record through a layout. WithAttrs clones
// share the writer mutex so concurrent component loggers never interleave.
type lineHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	render layout
	hidden map[string]struct{}
	attrs  []slog.Attr
	groups []string
}

func newLineHandler(w io.Writer, level slog.Leveler, render layout, hiddenKeys ...string) *lineHandler {
	hidden := make(map[string]struct{}, len(hiddenKeys))
	for _, key := range hiddenKeys {
		hidden[key] = struct{}{}
	}
	return &lineHandler{mu: &sync.Mutex{}, writer: w, level: level, render: render, hidden: hidden}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, nil, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})
	kvs = dedupeKVs(kvs)

	var component string
	filtered := kvs[:0]
	for _, field := range kvs {
		if field.key == FieldComponent {
			component = valueText(field.value)
			continue
		}
		if _, skip := h.hidden[field.key]; skip {
			continue
		}
		filtered = append(filtered, field)
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(filtered)*24)
	h.render(&buf, timestamp, record.Level, component, message, filtered)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	if len(h.groups) > 0 {
		// Pre-bound attrs inside a group keep their prefix.
		grouped := make([]slog.Attr, 0, len(attrs))
		for _, attr := range attrs {
			grouped = append(grouped, slog.Attr{Key: strings.Join(append(append([]string(nil), h.groups...), attr.Key), "."), Value: attr.Value})
		}
		attrs = grouped
	}
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *lineHandler) clone() *lineHandler {
	return &lineHandler{
		mu:     h.mu,
		writer: h.writer,
		level:  h.level,
		render: h.render,
		hidden: h.hidden,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func writeAttrs(buf *bytes.Buffer, attrs []kv) {
	for _, field := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(field.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(field.value))
	}
}

// fileLayout renders `[2006-01-02 15:04:05] [LEVEL] message key=value`.
func fileLayout(buf *bytes.Buffer, ts time.Time, level slog.Level, component, message string, attrs []kv) {
	buf.WriteByte('[')
	buf.WriteString(formatTimestamp(ts))
	buf.WriteString("] [")
	buf.WriteString(levelLabel(level))
	buf.WriteString("] ")
	buf.WriteString(message)
	if component != "" {
		buf.WriteString(" component=")
		buf.WriteString(component)
	}
	writeAttrs(buf, attrs)
}

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= LevelSuccess:
		return ansiGreen
	case level >= slog.LevelInfo:
		return ansiCyan
	default:
		return ansiDim
	}
}

// consoleLayout renders `15:04:05 LEVEL [component] message key=value`,
// coloring the level label when color is set.
func consoleLayout(color bool) layout {
	return func(buf *bytes.Buffer, ts time.Time, level slog.Level, component, message string, attrs []kv) {
		buf.WriteString(ts.In(time.Local).Format(time.TimeOnly))
		buf.WriteByte(' ')
		label := levelLabel(level)
		if color {
			buf.WriteString(levelColor(level))
		}
		buf.WriteString(label)
		if color {
			buf.WriteString(ansiReset)
		}
		if component != "" {
			buf.WriteString(" [")
			buf.WriteString(component)
			buf.WriteByte(']')
		}
		buf.WriteByte(' ')
		buf.WriteString(message)
		if color && len(attrs) > 0 {
			buf.WriteString(ansiDim)
		}
		writeAttrs(buf, attrs)
		if color && len(attrs) > 0 {
			buf.WriteString(ansiReset)
		}
	}
}
