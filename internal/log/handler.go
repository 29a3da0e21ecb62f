package log

import (
	"context"
	"io"
	"log/slog"
)

// ComponentKey is the attribute key carrying the originating component
// of a log record.
const ComponentKey = "component"

// ComponentHandler wraps an slog.Handler and stamps every record with a
// component attribute. Records that already carry one (because a more
// specific logger was derived) keep theirs; the wrapper only fills the
// gap.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Library packages keep accepting a plain *slog.Logger
type ComponentHandler struct {
	// handler is the underlying slog handler that receives records.
	handler slog.Handler

	// component is the name stamped onto records lacking one.
	component string
}

// NewComponentHandler creates a ComponentHandler wrapping the given
// handler. If handler is nil, the returned ComponentHandler wraps
// slog.Default().Handler().
func NewComponentHandler(handler slog.Handler, component string) *ComponentHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &ComponentHandler{handler: handler, component: component}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *ComponentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle stamps the record with the component attribute and passes it
// to the underlying handler.
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.component == "" || hasComponent(r) {
		return h.handler.Handle(ctx, r)
	}

	stamped := r.Clone()
	stamped.AddAttrs(slog.String(ComponentKey, h.component))
	return h.handler.Handle(ctx, stamped)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ComponentHandler{handler: h.handler.WithAttrs(attrs), component: h.component}
}

// WithGroup returns a new handler with the given group name.
func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{handler: h.handler.WithGroup(name), component: h.component}
}

// hasComponent reports whether the record already carries a component
// attribute.
func hasComponent(r slog.Record) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == ComponentKey {
			found = true
			return false
		}
		return true
	})
	return found
}

// NewLogger creates a text logger writing to w.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be passed to components accepting
// *slog.Logger or installed with slog.SetDefault().
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// WithComponent derives a logger whose records carry the given
// component name. Components created inside a package use this so a
// mining run's interleaved output stays attributable.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return slog.New(NewComponentHandler(logger.Handler(), component))
}
