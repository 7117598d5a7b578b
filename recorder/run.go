package recorder

import "context"

// Run constructs a logger for target, calls fn with it and a context carrying
// it, and closes the logger when fn returns.
func Run(ctx context.Context, target Target, fn func(ctx context.Context, l *Logger) error, opts ...Option) error {
	l, err := New(target, opts...)
	if err != nil {
		return err
	}
	defer l.Close()
	return fn(NewContext(ctx, l), l)
}
