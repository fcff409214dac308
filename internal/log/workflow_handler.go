package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nao1215/bundlestats/internal/actions"
)

// WorkflowHandler writes records as GitHub Actions workflow commands.
// Debug records become ::debug:: lines, Warn ::warning:: and Error ::error::.
// Info records are written as plain lines. Attributes are appended to the
// message as key=value pairs.
type WorkflowHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// lineEscaper keeps a plain output line on one line, so that no part of it
// can start a workflow command.
var lineEscaper = strings.NewReplacer("\r", "%0D", "\n", "%0A")

// NewWorkflowHandler creates a WorkflowHandler writing to w.
// Debug records are dropped unless verbose is true.
func NewWorkflowHandler(w io.Writer, verbose bool) *WorkflowHandler {
	return &WorkflowHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level(verbose),
	}
}

// Enabled reports whether level is at least the handler's level.
func (h *WorkflowHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one workflow command line.
func (h *WorkflowHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	prefix := h.prefix()
	for _, a := range h.attrs {
		appendAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, prefix, a)
		return true
	})

	var line string
	switch {
	case r.Level >= slog.LevelError:
		line = actions.FormatCommand(actions.CommandError, nil, b.String())
	case r.Level >= slog.LevelWarn:
		line = actions.FormatCommand(actions.CommandWarning, nil, b.String())
	case r.Level >= slog.LevelInfo:
		line = lineEscaper.Replace(b.String())
	default:
		line = actions.FormatCommand(actions.CommandDebug, nil, b.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, line)
	return err
}

// WithAttrs returns a new handler with the given attributes added.
func (h *WorkflowHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	prefix := h.prefix()
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return nh
}

// WithGroup returns a new handler that qualifies later attribute keys
// with name.
func (h *WorkflowHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := h.clone()
	nh.groups = append(nh.groups, name)
	return nh
}

func (h *WorkflowHandler) clone() *WorkflowHandler {
	return &WorkflowHandler{
		mu:     h.mu,
		w:      h.w,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *WorkflowHandler) prefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, p, ga)
		}
		return
	}

	value := a.Value.String()
	if strings.ContainsAny(value, " \t\r\n\"=") {
		value = fmt.Sprintf("%q", value)
	}
	fmt.Fprintf(b, " %s%s=%s", prefix, a.Key, value)
}

// NewWorkflowLogger creates a logger for use inside a workflow job: records
// are masked by SecureHandler and written as workflow commands.
// verbose enables debug output; the runner's debug mode should be passed
// in as verbose too.
func NewWorkflowLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(NewWorkflowHandler(w, verbose)))
}
