package embedded

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/viant/houlog/container"
	"github.com/viant/houlog/geo"
	"github.com/viant/houlog/host"
)

const rootName = "obj"

// CommitFunc observes committed geometry. It is called after the host lock is
// released, with the committed node path and a private copy of the geometry.
type CommitFunc func(ctx context.Context, path string, g *geo.Geometry)

// Option configures a Host.
type Option func(*Host)

// WithOnCommit registers fn to be called after every successful Commit.
func WithOnCommit(fn CommitFunc) Option {
	return func(h *Host) { h.onCommit = fn }
}

// Host is an in-process geometry host.
type Host struct {
	mu       sync.RWMutex
	nodes    map[host.NodeID]*node
	nextID   host.NodeID
	closed   bool
	onCommit CommitFunc
}

type node struct {
	id        host.NodeID
	parent    host.NodeID
	name      string
	operator  string
	children  []host.NodeID
	cooked    bool
	draft     *geo.Geometry
	committed *geo.Geometry
}

// New creates an empty host with only the root object network.
func New(opts ...Option) *Host {
	h := &Host{
		nodes:  map[host.NodeID]*node{host.RootID: {id: host.RootID, parent: -1, name: rootName, operator: "Object/network"}},
		nextID: host.RootID + 1,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewSession is a host factory returning a fresh Host as a host.Session.
func NewSession(context.Context) (host.Session, error) { return New(), nil }

func isNetwork(operator string) bool { return strings.HasPrefix(operator, "Object/") }

func (h *Host) lookup(id host.NodeID) (*node, error) {
	if h.closed {
		return nil, host.ErrClosed
	}
	n, ok := h.nodes[id]
	if !ok {
		return nil, errors.Wrapf(host.ErrNodeNotFound, "embedded: node %d", id)
	}
	return n, nil
}

func (h *Host) child(parent *node, name string) *node {
	for _, c := range parent.children {
		if n := h.nodes[c]; n != nil && n.name == name {
			return n
		}
	}
	return nil
}

func (h *Host) path(n *node) string {
	var parts []string
	for cur := n; cur != nil; cur = h.nodes[cur.parent] {
		parts = append(parts, cur.name)
		if cur.id == host.RootID {
			break
		}
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

// NodeByPath resolves an absolute ("/obj/...") or parent-relative path.
func (h *Host) NodeByPath(_ context.Context, path string, parent host.NodeID) (host.NodeID, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return 0, host.ErrClosed
	}
	if strings.Trim(path, "/") == "" {
		return 0, errors.Wrapf(host.ErrNodeNotFound, "embedded: empty path %q", path)
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	var cur *node
	if strings.HasPrefix(path, "/") {
		if segments[0] != rootName {
			return 0, errors.Wrapf(host.ErrNodeNotFound, "embedded: %s", path)
		}
		cur, segments = h.nodes[host.RootID], segments[1:]
	} else {
		var err error
		if cur, err = h.lookup(parent); err != nil {
			return 0, err
		}
	}
	for _, seg := range segments {
		next := h.child(cur, seg)
		if next == nil {
			return 0, errors.Wrapf(host.ErrNodeNotFound, "embedded: %s", path)
		}
		cur = next
	}
	return cur.id, nil
}

// CreateNode creates a node inside a network node. Labels that collide with a
// sibling get a numeric suffix.
func (h *Host) CreateNode(_ context.Context, spec host.NodeSpec) (host.NodeID, error) {
	if spec.Operator == "" {
		return 0, errors.New("embedded: node operator is empty")
	}
	if strings.Contains(spec.Label, "/") {
		return 0, errors.Newf("embedded: invalid node label %q", spec.Label)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	parent, err := h.lookup(spec.Parent)
	if err != nil {
		return 0, err
	}
	if !isNetwork(parent.operator) {
		return 0, errors.Newf("embedded: %s (%s) cannot contain nodes", h.path(parent), parent.operator)
	}
	base := spec.Label
	if base == "" {
		base = spec.Operator[strings.LastIndex(spec.Operator, "/")+1:]
	}
	name := base
	if spec.Label == "" || h.child(parent, name) != nil {
		for i := 1; ; i++ {
			name = base + strconv.Itoa(i)
			if h.child(parent, name) == nil {
				break
			}
		}
	}
	n := &node{id: h.nextID, parent: parent.id, name: name, operator: spec.Operator}
	h.nextID++
	h.nodes[n.id] = n
	parent.children = append(parent.children, n.id)
	return n.id, nil
}

// DeleteNode deletes a node and everything below it. The root cannot be deleted.
func (h *Host) DeleteNode(_ context.Context, id host.NodeID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookup(id)
	if err != nil {
		return err
	}
	if id == host.RootID {
		return errors.New("embedded: cannot delete the root network")
	}
	if p := h.nodes[n.parent]; p != nil {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	h.remove(n)
	return nil
}

func (h *Host) remove(n *node) {
	for _, c := range n.children {
		if cn := h.nodes[c]; cn != nil {
			h.remove(cn)
		}
	}
	delete(h.nodes, n.id)
}

// CookNode marks the node cooked; geometry nodes get an empty draft geometry.
func (h *Host) CookNode(_ context.Context, id host.NodeID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.lookup(id)
	if err != nil {
		return err
	}
	n.cooked = true
	if !isNetwork(n.operator) && n.draft == nil {
		n.draft = &geo.Geometry{Part: geo.PartInfo{Type: geo.PartMesh}}
	}
	return nil
}

func (h *Host) geometryNode(id host.NodeID) (*node, error) {
	n, err := h.lookup(id)
	if err != nil {
		return nil, err
	}
	if isNetwork(n.operator) {
		return nil, errors.Wrapf(host.ErrNoGeometry, "embedded: %s", h.path(n))
	}
	if !n.cooked || n.draft == nil {
		return nil, errors.Wrapf(host.ErrNotCooked, "embedded: %s", h.path(n))
	}
	return n, nil
}

// SetPartInfo resets the draft geometry to an attribute-less part.
func (h *Host) SetPartInfo(_ context.Context, id host.NodeID, part geo.PartInfo) error {
	if part.PointCount < 0 {
		return errors.Wrapf(host.ErrAttributeMismatch, "embedded: negative point count %d", part.PointCount)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.geometryNode(id)
	if err != nil {
		return err
	}
	n.draft = &geo.Geometry{Part: part}
	return nil
}

// AddAttribute declares an attribute on the draft geometry.
func (h *Host) AddAttribute(_ context.Context, id host.NodeID, info geo.AttributeInfo) error {
	if err := info.Validate(); err != nil {
		return errors.Mark(err, host.ErrAttributeMismatch)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.geometryNode(id)
	if err != nil {
		return err
	}
	if n.draft.Attribute(info.Name) != nil {
		return errors.Wrapf(host.ErrAttributeMismatch, "embedded: attribute %q already exists", info.Name)
	}
	n.draft.Attributes = append(n.draft.Attributes, &geo.Attribute{Info: info})
	return nil
}

func (h *Host) draftAttribute(id host.NodeID, name string, storage geo.Storage, size int) (*geo.Attribute, error) {
	n, err := h.geometryNode(id)
	if err != nil {
		return nil, err
	}
	a := n.draft.Attribute(name)
	if a == nil {
		return nil, errors.Wrapf(host.ErrAttributeMismatch, "embedded: attribute %q is not declared", name)
	}
	if a.Info.Storage != storage {
		return nil, errors.Wrapf(host.ErrAttributeMismatch, "embedded: attribute %q stores %s, not %s", name, a.Info.Storage, storage)
	}
	if want := a.Info.Count * a.Info.TupleSize; size != want {
		return nil, errors.Wrapf(host.ErrAttributeMismatch, "embedded: attribute %q takes %d values, got %d", name, want, size)
	}
	return a, nil
}

// SetFloatAttribute assigns all values of a float attribute.
func (h *Host) SetFloatAttribute(_ context.Context, id host.NodeID, name string, values []float32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, err := h.draftAttribute(id, name, geo.StorageFloat, len(values))
	if err != nil {
		return err
	}
	a.Floats = append([]float32(nil), values...)
	return nil
}

// SetStringAttribute assigns all values of a string attribute.
func (h *Host) SetStringAttribute(_ context.Context, id host.NodeID, name string, values []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, err := h.draftAttribute(id, name, geo.StorageString, len(values))
	if err != nil {
		return err
	}
	a.Strings = append([]string(nil), values...)
	return nil
}

// Commit validates the draft geometry and publishes it as the node's
// committed geometry.
func (h *Host) Commit(ctx context.Context, id host.NodeID) error {
	h.mu.Lock()
	n, err := h.geometryNode(id)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	if err := n.draft.Validate(); err != nil {
		h.mu.Unlock()
		return errors.Mark(errors.Wrapf(err, "embedded: commit %s", h.path(n)), host.ErrAttributeMismatch)
	}
	n.committed = n.draft.Clone()
	path, fn := h.path(n), h.onCommit
	var snapshot *geo.Geometry
	if fn != nil {
		snapshot = n.committed.Clone()
	}
	h.mu.Unlock()

	if fn != nil {
		fn(ctx, path, snapshot)
	}
	return nil
}

// SaveGeometry writes the committed geometry of a node to a container file.
func (h *Host) SaveGeometry(ctx context.Context, id host.NodeID, path string) error {
	h.mu.RLock()
	n, err := h.lookup(id)
	var g *geo.Geometry
	if err == nil {
		if n.committed == nil {
			err = errors.Wrapf(host.ErrNotCommitted, "embedded: %s", h.path(n))
		} else {
			g = n.committed.Clone()
		}
	}
	h.mu.RUnlock()
	if err != nil {
		return err
	}
	return container.Save(ctx, path, g)
}

// Geometry returns a copy of the committed geometry of a node.
func (h *Host) Geometry(_ context.Context, id host.NodeID) (*geo.Geometry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n, err := h.lookup(id)
	if err != nil {
		return nil, err
	}
	if n.committed == nil {
		return nil, errors.Wrapf(host.ErrNotCommitted, "embedded: %s", h.path(n))
	}
	return n.committed.Clone(), nil
}

// Path returns the absolute path of a node.
func (h *Host) Path(id host.NodeID) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n, err := h.lookup(id)
	if err != nil {
		return "", err
	}
	return h.path(n), nil
}

// Children returns the names of a node's children in creation order.
func (h *Host) Children(id host.NodeID) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n, err := h.lookup(id)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, h.nodes[c].name)
	}
	return out, nil
}

// Close releases the host; later calls fail with host.ErrClosed.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.nodes = nil
	return nil
}

var _ host.Session = (*Host)(nil)
