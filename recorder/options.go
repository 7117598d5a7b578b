package recorder

import (
	"context"
	"log/slog"

	"github.com/viant/houlog/host"
	"github.com/viant/houlog/host/embedded"
	"github.com/viant/houlog/host/rpc"
)

// HostFactory starts a transient host for a file export.
type HostFactory func(ctx context.Context) (host.Session, error)

// Dialer connects to a live host at addr.
type Dialer func(ctx context.Context, addr string) (host.Session, error)

// Option configures a Logger.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	newHost HostFactory
	dial    Dialer
	address string
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHostFactory sets the transient host used by file exports.
func WithHostFactory(f HostFactory) Option {
	return func(o *options) { o.newHost = f }
}

// WithDialer sets how NewLiveLogger connects when no session is supplied.
func WithDialer(d Dialer) Option {
	return func(o *options) { o.dial = d }
}

// WithAddress sets the live host address, host.DefaultAddress by default.
func WithAddress(addr string) Option {
	return func(o *options) { o.address = addr }
}

func dialRPC(ctx context.Context, addr string) (host.Session, error) {
	c, err := rpc.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  slog.Default(),
		newHost: embedded.NewSession,
		dial:    dialRPC,
		address: host.DefaultAddress,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
