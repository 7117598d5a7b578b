package recorder

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/houlog/config"
	"github.com/viant/houlog/container"
	"github.com/viant/houlog/host"
	"github.com/viant/houlog/host/embedded"
	"github.com/viant/houlog/host/rpc"
	"github.com/viant/houlog/loggable"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fresh clears the process-wide construction guard for the duration of a test.
func fresh(t *testing.T) {
	t.Helper()
	constructed.Store(false)
	t.Cleanup(func() { constructed.Store(false) })
}

type countingFactory struct {
	calls int
	err   error
}

func (f *countingFactory) newHost(context.Context) (host.Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return embedded.New(), nil
}

func fileLogger(t *testing.T, opts ...Option) (*Logger, string) {
	t.Helper()
	fresh(t)
	path := filepath.Join(t.TempDir(), "recording.hlog")
	l, err := NewFileLogger(path, append([]Option{WithLogger(discard)}, opts...)...)
	require.NoError(t, err)
	return l, path
}

type bomb struct{}

func (bomb) Kind() string                         { return "bomb" }
func (bomb) Position() mgl32.Vec3                 { return mgl32.Vec3{} }
func (bomb) Metadata() (loggable.Document, error) { panic("bomb") }

type sensor struct{ reading float32 }

func (sensor) Kind() string                           { return "sensor" }
func (sensor) Position() mgl32.Vec3                   { return mgl32.Vec3{} }
func (s sensor) Metadata() (loggable.Document, error) { return loggable.Document{"v": s.reading}, nil }

func TestRecordOrder(t *testing.T) {
	ctx := context.Background()
	l, path := fileLogger(t)

	require.NoError(t, l.Record("a", mgl32.Vec3{1, 2, 3}))
	require.NoError(t, l.Record("b", loggable.NewLine(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})))
	require.NoError(t, l.Record("a", 2.5))
	require.NoError(t, l.Export(ctx))

	rows, err := container.ReadRows(ctx, path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b", "a"}, []string{rows[0].Name, rows[1].Name, rows[2].Name})
	assert.Equal(t, []string{"vec3", "line", "float"}, []string{rows[0].Kind, rows[1].Kind, rows[2].Kind})
	assert.Equal(t, [3]float32{1, 2, 3}, rows[0].Position)
	assert.Equal(t, [3]float32{0, 0, 0}, rows[1].Position)
	assert.Equal(t, `{"float":2.5}`, rows[2].Metadata)
	for _, r := range rows {
		assert.Equal(t, float32(1), r.Time)
	}
}

func TestFrameTimes(t *testing.T) {
	ctx := context.Background()
	l, path := fileLogger(t)

	require.NoError(t, l.AdvanceFrame())
	require.NoError(t, l.AdvanceFrame())
	require.NoError(t, l.Record("late", mgl32.Vec3{}))
	require.NoError(t, l.AdvanceFrame())
	require.NoError(t, l.Record("later", mgl32.Vec3{}))
	assert.Equal(t, 4, l.FrameCount())
	assert.Equal(t, 2, l.EntryCount())
	require.NoError(t, l.Export(ctx))

	rows, err := container.ReadRows(ctx, path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, float32(3), rows[0].Time)
	assert.Equal(t, float32(4), rows[1].Time)
}

func TestExportIdempotent(t *testing.T) {
	ctx := context.Background()
	factory := &countingFactory{}
	l, _ := fileLogger(t, WithHostFactory(factory.newHost))

	require.NoError(t, l.Record("p", mgl32.Vec3{1, 0, 0}))
	assert.True(t, l.Dirty())
	require.NoError(t, l.Export(ctx))
	assert.False(t, l.Dirty())
	require.NoError(t, l.Export(ctx))
	assert.Equal(t, 1, factory.calls)

	require.NoError(t, l.AdvanceFrame())
	require.NoError(t, l.Export(ctx))
	assert.Equal(t, 2, factory.calls)
}

func TestExportEmpty(t *testing.T) {
	ctx := context.Background()
	l, path := fileLogger(t)
	require.NoError(t, l.Export(ctx))

	g, err := container.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Part.PointCount)
	for _, name := range []string{"P", "name", "kind", "time", "metadata"} {
		a := g.Attribute(name)
		require.NotNil(t, a, name)
		assert.Equal(t, 0, a.Len(), name)
	}
}

func TestAlreadyInitialized(t *testing.T) {
	l, _ := fileLogger(t)
	require.NoError(t, l.Record("kept", mgl32.Vec3{}))

	second, err := NewFileLogger(filepath.Join(t.TempDir(), "other.hlog"))
	assert.Nil(t, second)
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))

	_, err = NewLiveLogger(context.Background(), nil, WithDialer(func(context.Context, string) (host.Session, error) {
		t.Fatal("dialed while a logger exists")
		return nil, nil
	}))
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))

	assert.Equal(t, 1, l.EntryCount())
	assert.Equal(t, 1, l.FrameCount())
	assert.True(t, l.Dirty())
	require.NoError(t, l.Record("still", mgl32.Vec3{}))
}

func TestGuardSurvivesClose(t *testing.T) {
	l, _ := fileLogger(t)
	require.NoError(t, l.Close())
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "again.hlog"))
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))
}

func TestInvalidTarget(t *testing.T) {
	fresh(t)
	_, err := New(nil)
	assert.Error(t, err)
	_, err = New(FileTarget{})
	assert.Error(t, err)
	_, err = New(LiveTarget{})
	assert.Error(t, err)

	l, err := New(FileTarget{Path: filepath.Join(t.TempDir(), "ok.hlog")}, WithLogger(discard))
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	assert.NoError(t, l.Record("ignored", mgl32.Vec3{}))
	assert.True(t, errors.Is(l.AdvanceFrame(), ErrNotInitialized))
	assert.True(t, errors.Is(l.Export(context.Background()), ErrNotInitialized))
	assert.NoError(t, l.Close())
	assert.Equal(t, 0, l.FrameCount())

	ctx := context.Background()
	assert.NoError(t, Record(ctx, "ignored", 1))
	assert.True(t, errors.Is(AdvanceFrame(ctx), ErrNotInitialized))
	assert.True(t, errors.Is(Export(ctx), ErrNotInitialized))
}

func TestRecordRejectsInvalid(t *testing.T) {
	l, _ := fileLogger(t)
	err := l.Record("empty", loggable.Polyline{})
	assert.True(t, errors.Is(err, loggable.ErrInvalid))
	err = l.Record("text", "hello")
	assert.True(t, errors.Is(err, loggable.ErrUnsupported))
	assert.Equal(t, 0, l.EntryCount())
}

func TestFailedExportRestoresDirty(t *testing.T) {
	ctx := context.Background()
	factory := &countingFactory{err: errors.New("no license")}
	l, path := fileLogger(t, WithHostFactory(factory.newHost))
	require.NoError(t, l.Record("p", mgl32.Vec3{}))

	err := l.Export(ctx)
	assert.True(t, errors.Is(err, ErrHostCommunication))
	assert.True(t, l.Dirty())
	assert.Equal(t, 1, l.EntryCount())

	factory.err = nil
	require.NoError(t, l.Export(ctx))
	assert.False(t, l.Dirty())
	rows, err := container.ReadRows(ctx, path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSerializationFailure(t *testing.T) {
	require.NoError(t, loggable.RegisterKind("sensor"))
	l, _ := fileLogger(t)
	require.NoError(t, l.Record("broken", sensor{reading: float32(math.NaN())}))
	err := l.Export(context.Background())
	assert.True(t, errors.Is(err, ErrSerialization))
	assert.True(t, l.Dirty())
}

func TestNonFiniteRejectedAtRecord(t *testing.T) {
	ctx := context.Background()
	l, path := fileLogger(t)

	err := l.Record("nan", float32(math.NaN()))
	assert.True(t, errors.Is(err, loggable.ErrInvalid))
	err = l.Record("inf", loggable.NewSphere(mgl32.Vec3{float32(math.Inf(1)), 0, 0}, 1))
	assert.True(t, errors.Is(err, loggable.ErrInvalid))
	require.NoError(t, l.Record("ok", 1.5))
	require.NoError(t, l.Export(ctx))

	rows, err := container.ReadRows(ctx, path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ok", rows[0].Name)
	assert.Equal(t, `{"float":1.5}`, rows[0].Metadata)
}

func TestRecordedEntriesAreIsolated(t *testing.T) {
	ctx := context.Background()
	l, path := fileLogger(t)

	buf := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}
	idx := []int{0, 1, 2}
	require.NoError(t, l.Record("path", buf))
	require.NoError(t, l.Record("tri", loggable.NewMesh([]mgl32.Vec3{{}, {1, 0, 0}, {0, 1, 0}}, idx, []int{3})))
	buf[0] = mgl32.Vec3{99, 99, 99}
	idx[2] = 42
	require.NoError(t, l.Export(ctx))

	rows, err := container.ReadRows(ctx, path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, [3]float32{0, 0, 0}, rows[0].Position)
	assert.Equal(t, `{"x":[0,1],"y":[0,0],"z":[0,0]}`, rows[0].Metadata)
	assert.Equal(t, `{"c":[3],"i":[0,1,2],"x":[0,1,0],"y":[0,0,1],"z":[0,0,0]}`, rows[1].Metadata)
}

func TestPoisoned(t *testing.T) {
	require.NoError(t, loggable.RegisterKind("bomb"))
	l, _ := fileLogger(t)
	require.NoError(t, l.Record("bomb", bomb{}))

	assert.Panics(t, func() { _ = l.Export(context.Background()) })
	assert.True(t, errors.Is(l.Record("after", mgl32.Vec3{}), ErrLockFailure))
	assert.True(t, errors.Is(l.AdvanceFrame(), ErrLockFailure))
	assert.True(t, errors.Is(l.Export(context.Background()), ErrLockFailure))
	assert.NoError(t, l.Close())
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	l, path := fileLogger(t)
	require.NoError(t, l.Record("p", mgl32.Vec3{1, 1, 1}))
	require.NoError(t, l.Close())

	rows, err := container.ReadRows(ctx, path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	assert.True(t, errors.Is(l.Record("p", mgl32.Vec3{}), ErrClosed))
	assert.True(t, errors.Is(l.AdvanceFrame(), ErrClosed))
	assert.True(t, errors.Is(l.Export(ctx), ErrClosed))
	assert.NoError(t, l.Close())
}

func TestCloseSwallowsExportFailure(t *testing.T) {
	factory := &countingFactory{err: errors.New("host crashed")}
	l, _ := fileLogger(t, WithHostFactory(factory.newHost))
	require.NoError(t, l.Record("p", mgl32.Vec3{}))
	assert.NoError(t, l.Close())
	assert.Equal(t, 1, factory.calls)
}

func TestConcurrentRecord(t *testing.T) {
	l, _ := fileLogger(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NoError(t, l.Record("p", mgl32.Vec3{float32(j), 0, 0}))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, l.EntryCount())
	snap := l.Snapshot()
	require.Len(t, snap, 1)
	assert.Len(t, snap[0].Entries, 800)
}

func TestSnapshotIsCopy(t *testing.T) {
	l, _ := fileLogger(t)
	require.NoError(t, l.Record("p", mgl32.Vec3{}))
	snap := l.Snapshot()
	snap[0].Entries[0].Name = "changed"
	assert.Equal(t, "p", l.Snapshot()[0].Entries[0].Name)
}

func pipeSession(t *testing.T, h *embedded.Host) host.Session {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srvConn, cliConn := net.Pipe()
	srv := rpc.NewServer(h, rpc.WithServerLogger(discard))
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.ServeConn(ctx, srvConn)
	}()
	c := rpc.NewClient(ctx, cliConn)
	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
	})
	return c
}

func TestLiveExportReplacesNode(t *testing.T) {
	fresh(t)
	ctx := context.Background()
	h := embedded.New()
	recordings, err := h.CreateNode(ctx, host.NodeSpec{Operator: host.OperatorSubnet, Parent: host.RootID, Label: "recordings"})
	require.NoError(t, err)

	l, err := NewLiveLogger(ctx, pipeSession(t, h), WithLogger(discard))
	require.NoError(t, err)

	require.NoError(t, l.Record("first", mgl32.Vec3{1, 0, 0}))
	require.NoError(t, l.Export(ctx))
	require.NoError(t, l.AdvanceFrame())
	require.NoError(t, l.Record("second", loggable.NewCapsule(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 2, 0}, 0.25)))
	require.NoError(t, l.Export(ctx))

	children, err := h.Children(recordings)
	require.NoError(t, err)
	assert.Equal(t, []string{"recording"}, children)

	id, err := h.NodeByPath(ctx, "/obj/recordings/recording", host.RootID)
	require.NoError(t, err)
	g, err := h.Geometry(ctx, id)
	require.NoError(t, err)
	rows, err := container.Rows(g)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "second", rows[1].Name)
	assert.Equal(t, "capsule", rows[1].Kind)
	assert.Equal(t, [3]float32{0, 1, 0}, rows[1].Position)
	assert.Equal(t, float32(2), rows[1].Time)
	assert.Equal(t, `{"a":[0,0,0],"b":[0,2,0],"r":0.25}`, rows[1].Metadata)
}

func TestLiveMissingContainer(t *testing.T) {
	fresh(t)
	ctx := context.Background()
	l, err := NewLiveLogger(ctx, embedded.New(), WithLogger(discard))
	require.NoError(t, err)
	err = l.Export(ctx)
	assert.True(t, errors.Is(err, ErrHostCommunication))
	assert.True(t, errors.Is(err, host.ErrNodeNotFound))
	assert.True(t, l.Dirty())
}

func TestLiveCustomNode(t *testing.T) {
	fresh(t)
	ctx := context.Background()
	h := embedded.New()
	sub, err := h.CreateNode(ctx, host.NodeSpec{Operator: host.OperatorSubnet, Parent: host.RootID, Label: "debug"})
	require.NoError(t, err)
	l, err := New(LiveTarget{Session: h, ContainerPath: "/obj/debug", NodeName: "physics"}, WithLogger(discard))
	require.NoError(t, err)
	require.NoError(t, l.Export(ctx))
	children, err := h.Children(sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"physics"}, children)
}

func TestNewLiveLoggerDials(t *testing.T) {
	fresh(t)
	ctx := context.Background()
	h := embedded.New()
	_, err := h.CreateNode(ctx, host.NodeSpec{Operator: host.OperatorSubnet, Parent: host.RootID, Label: "recordings"})
	require.NoError(t, err)

	var dialed string
	dial := func(_ context.Context, addr string) (host.Session, error) {
		dialed = addr
		return h, nil
	}
	l, err := NewLiveLogger(ctx, nil, WithDialer(dial), WithLogger(discard))
	require.NoError(t, err)
	assert.Equal(t, host.DefaultAddress, dialed)

	require.NoError(t, l.Record("p", mgl32.Vec3{}))
	require.NoError(t, l.Close())
	_, err = h.NodeByPath(ctx, "/obj/recordings", host.RootID)
	assert.True(t, errors.Is(err, host.ErrClosed))
}

func TestNewLiveLoggerDialFailure(t *testing.T) {
	fresh(t)
	dial := func(context.Context, string) (host.Session, error) { return nil, errors.New("refused") }
	_, err := NewLiveLogger(context.Background(), nil, WithDialer(dial), WithAddress("127.0.0.1:1"))
	assert.True(t, errors.Is(err, ErrHostCommunication))

	l, err := NewFileLogger(filepath.Join(t.TempDir(), "after.hlog"), WithLogger(discard))
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewFromConfig(t *testing.T) {
	fresh(t)
	ctx := context.Background()
	cfg := config.Default()
	cfg.Path = filepath.Join(t.TempDir(), "cfg.hlog")
	cfg.LogLevel = "error"
	l, err := NewFromConfig(ctx, cfg, WithLogger(discard))
	require.NoError(t, err)
	require.NoError(t, l.Record("p", mgl32.Vec3{}))
	require.NoError(t, l.Close())
	rows, err := container.ReadRows(ctx, cfg.Path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	cfg.Target = "carrier-pigeon"
	_, err = NewFromConfig(ctx, cfg)
	assert.Error(t, err)
}

func TestNewFromConfigLive(t *testing.T) {
	fresh(t)
	ctx := context.Background()
	h := embedded.New()
	_, err := h.CreateNode(ctx, host.NodeSpec{Operator: host.OperatorSubnet, Parent: host.RootID, Label: "recordings"})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Target = config.TargetLive
	cfg.Address = "10.1.2.3:9999"
	cfg.NodeName = "run"
	var dialed string
	l, err := NewFromConfig(ctx, cfg, WithLogger(discard), WithDialer(func(_ context.Context, addr string) (host.Session, error) {
		dialed = addr
		return h, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3:9999", dialed)
	require.NoError(t, l.Export(ctx))
	_, err = h.NodeByPath(ctx, "/obj/recordings/run", host.RootID)
	assert.NoError(t, err)
}

func TestRunAndContext(t *testing.T) {
	fresh(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "run.hlog")
	err := Run(ctx, FileTarget{Path: path}, func(ctx context.Context, l *Logger) error {
		assert.Same(t, l, FromContext(ctx))
		if err := Record(ctx, "p", mgl32.Vec3{1, 2, 3}); err != nil {
			return err
		}
		if err := AdvanceFrame(ctx); err != nil {
			return err
		}
		return Record(ctx, "q", mgl32.QuatIdent())
	}, WithLogger(discard))
	require.NoError(t, err)

	rows, err := container.ReadRows(ctx, path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "quat", rows[1].Kind)
	assert.Equal(t, `{"quat":[0,0,0,1]}`, rows[1].Metadata)
}
