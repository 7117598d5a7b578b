package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/viant/houlog/config"
	"github.com/viant/houlog/host"
	"github.com/viant/houlog/internal/logging"
	"github.com/viant/houlog/loggable"
)

// constructed is set by the first successful construction and never cleared.
var constructed atomic.Bool

// Logger records values into frames and exports them to its target.
//
// All methods are safe for concurrent use. Record, AdvanceFrame and Export
// hold one lock for their whole duration, so an export blocks recording.
type Logger struct {
	mu       sync.Mutex
	frames   []Frame
	dirty    bool
	poisoned bool
	closed   bool

	target Target
	env    exportEnv
	owned  host.Session
	logger *slog.Logger
}

// New constructs the process logger for target. It fails with
// ErrAlreadyInitialized when a logger was constructed before.
func New(target Target, opts ...Option) (*Logger, error) {
	return newLogger(target, nil, newOptions(opts))
}

// NewFileLogger constructs a logger exporting to a container file at path.
func NewFileLogger(path string, opts ...Option) (*Logger, error) {
	return New(FileTarget{Path: path}, opts...)
}

// NewLiveLogger constructs a logger exporting into a live host session under
// the default container path and node name. When session is nil the logger
// dials the configured address and owns the resulting session.
func NewLiveLogger(ctx context.Context, session host.Session, opts ...Option) (*Logger, error) {
	return newLive(ctx, LiveTarget{Session: session}, newOptions(opts))
}

// NewFromConfig constructs a logger from cfg. Options override the logger
// derived from cfg.LogLevel.
func NewFromConfig(ctx context.Context, cfg config.Config, opts ...Option) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	o := newOptions(append([]Option{WithLogger(logging.New(nil, level))}, opts...))
	switch cfg.Target {
	case config.TargetLive:
		if cfg.Address != "" {
			o.address = cfg.Address
		}
		return newLive(ctx, LiveTarget{ContainerPath: cfg.ContainerPath, NodeName: cfg.NodeName}, o)
	default:
		return newLogger(FileTarget{Path: cfg.Path}, nil, o)
	}
}

func newLive(ctx context.Context, target LiveTarget, o *options) (*Logger, error) {
	if target.Session != nil {
		return newLogger(target, nil, o)
	}
	if constructed.Load() {
		return nil, errors.WithStack(ErrAlreadyInitialized)
	}
	session, err := o.dial(ctx, o.address)
	if err != nil {
		return nil, hostError(err, "recorder: connect %s", o.address)
	}
	target.Session = session
	l, err := newLogger(target, session, o)
	if err != nil {
		_ = session.Close()
		return nil, err
	}
	return l, nil
}

func newLogger(target Target, owned host.Session, o *options) (*Logger, error) {
	if target == nil {
		return nil, errors.New("recorder: target is nil")
	}
	if err := target.validate(); err != nil {
		return nil, err
	}
	if !constructed.CompareAndSwap(false, true) {
		return nil, errors.WithStack(ErrAlreadyInitialized)
	}
	return &Logger{
		frames: []Frame{{}},
		dirty:  true,
		target: target,
		env:    exportEnv{newHost: o.newHost},
		owned:  owned,
		logger: o.logger,
	}, nil
}

// locked runs fn under the state lock. A panic in fn poisons the logger and
// is re-raised.
func (l *Logger) locked(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.poisoned {
		return errors.WithStack(ErrLockFailure)
	}
	if l.closed {
		return errors.WithStack(ErrClosed)
	}
	if len(l.frames) == 0 {
		return errors.Mark(errors.AssertionFailedf("recorder: no frames"), ErrEmptyFrame)
	}
	defer func() {
		if r := recover(); r != nil {
			l.poisoned = true
			panic(r)
		}
	}()
	return fn()
}

// Record converts value and appends it to the current frame. Without a
// logger the call logs a warning and does nothing.
func (l *Logger) Record(name string, value interface{}) error {
	if l == nil {
		slog.Default().Warn("recorder: record without a logger", "name", name)
		return nil
	}
	v, err := loggable.Convert(value)
	if err != nil {
		return errors.Wrapf(err, "recorder: record %q", name)
	}
	return l.locked(func() error {
		last := &l.frames[len(l.frames)-1]
		last.Entries = append(last.Entries, Entry{Name: name, Value: v})
		l.dirty = true
		return nil
	})
}

// AdvanceFrame starts a new empty frame.
func (l *Logger) AdvanceFrame() error {
	if l == nil {
		return errors.WithStack(ErrNotInitialized)
	}
	return l.locked(func() error {
		l.frames = append(l.frames, Frame{})
		l.dirty = true
		return nil
	})
}

// Export flattens every frame and commits the columns to the target. It does
// nothing when nothing was recorded since the last successful export. A
// failed export leaves the logger dirty.
func (l *Logger) Export(ctx context.Context) error {
	if l == nil {
		return errors.WithStack(ErrNotInitialized)
	}
	return l.locked(func() error { return l.export(ctx) })
}

func (l *Logger) export(ctx context.Context) error {
	if !l.dirty {
		return nil
	}
	l.dirty = false
	cols, err := Flatten(l.frames)
	if err == nil {
		err = l.target.commit(ctx, &l.env, cols)
	}
	if err != nil {
		l.dirty = true
		return err
	}
	l.logger.Debug("recorder: exported", "frames", len(l.frames), "rows", cols.Rows())
	return nil
}

// Close performs the final export and disposes the logger. Export failures
// are logged, not returned. Close is idempotent.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.poisoned {
		l.logger.Error("recorder: final export skipped", "error", ErrLockFailure)
	} else if err := l.finalExport(); err != nil {
		l.logger.Error("recorder: final export failed", "error", err)
	}
	if l.owned != nil {
		if err := l.owned.Close(); err != nil {
			l.logger.Warn("recorder: close host session", "error", err)
		}
	}
	return nil
}

func (l *Logger) finalExport() (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.poisoned = true
			err = errors.Newf("recorder: panic during final export: %v", r)
		}
	}()
	return l.export(context.Background())
}

// FrameCount returns the number of frames, including the current one.
func (l *Logger) FrameCount() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

// EntryCount returns the number of recorded entries across all frames.
func (l *Logger) EntryCount() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, f := range l.frames {
		n += len(f.Entries)
	}
	return n
}

// Dirty reports whether something was recorded since the last successful
// export.
func (l *Logger) Dirty() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

// Snapshot returns a copy of the frame buffer.
func (l *Logger) Snapshot() []Frame {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneFrames(l.frames)
}
