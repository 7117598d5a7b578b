package recorder

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger carried by ctx, or nil.
func FromContext(ctx context.Context) *Logger {
	l, _ := ctx.Value(contextKey{}).(*Logger)
	return l
}

// Record records value with the logger carried by ctx.
func Record(ctx context.Context, name string, value interface{}) error {
	return FromContext(ctx).Record(name, value)
}

// AdvanceFrame advances the logger carried by ctx.
func AdvanceFrame(ctx context.Context) error {
	return FromContext(ctx).AdvanceFrame()
}

// Export exports the logger carried by ctx.
func Export(ctx context.Context) error {
	return FromContext(ctx).Export(ctx)
}
