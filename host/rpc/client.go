package rpc

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/viant/houlog/geo"
	"github.com/viant/houlog/host"
	"go.lsp.dev/jsonrpc2"
)

// Client is a host.Session backed by a remote host.
type Client struct {
	mu     sync.Mutex
	conn   jsonrpc2.Conn
	closed bool
}

// Dial connects to a host server at addr ("host:port").
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "rpc: dial %s", addr)
	}
	return NewClient(ctx, c), nil
}

// NewClient starts a client over an established connection. The client owns
// rwc and closes it on Close.
func NewClient(ctx context.Context, rwc io.ReadWriteCloser) *Client {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, jsonrpc2.MethodNotFoundHandler)
	return &Client{conn: conn}
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return host.ErrClosed
	}
	select {
	case <-c.conn.Done():
		return errors.Wrapf(host.ErrClosed, "rpc: %s: connection lost: %v", method, c.conn.Err())
	default:
	}
	_, err := c.conn.Call(ctx, method, params, result)
	return fromWireError(method, err)
}

// NodeByPath implements host.Session.
func (c *Client) NodeByPath(ctx context.Context, path string, parent host.NodeID) (host.NodeID, error) {
	var res nodeResult
	err := c.call(ctx, MethodNodeByPath, nodeByPathParams{Path: path, Parent: parent}, &res)
	return res.Node, err
}

// CreateNode implements host.Session.
func (c *Client) CreateNode(ctx context.Context, spec host.NodeSpec) (host.NodeID, error) {
	var res nodeResult
	err := c.call(ctx, MethodCreateNode, spec, &res)
	return res.Node, err
}

// DeleteNode implements host.Session.
func (c *Client) DeleteNode(ctx context.Context, id host.NodeID) error {
	return c.call(ctx, MethodDeleteNode, nodeParams{Node: id}, nil)
}

// CookNode implements host.Session.
func (c *Client) CookNode(ctx context.Context, id host.NodeID) error {
	return c.call(ctx, MethodCookNode, nodeParams{Node: id}, nil)
}

// SetPartInfo implements host.Session.
func (c *Client) SetPartInfo(ctx context.Context, id host.NodeID, part geo.PartInfo) error {
	return c.call(ctx, MethodSetPartInfo, partInfoParams{Node: id, Part: part}, nil)
}

// AddAttribute implements host.Session.
func (c *Client) AddAttribute(ctx context.Context, id host.NodeID, info geo.AttributeInfo) error {
	return c.call(ctx, MethodAddAttribute, attributeParams{Node: id, Info: info}, nil)
}

// SetFloatAttribute implements host.Session.
func (c *Client) SetFloatAttribute(ctx context.Context, id host.NodeID, name string, values []float32) error {
	return c.call(ctx, MethodSetFloats, floatsParams{Node: id, Name: name, Data: geo.EncodeFloats(values)}, nil)
}

// SetStringAttribute implements host.Session.
func (c *Client) SetStringAttribute(ctx context.Context, id host.NodeID, name string, values []string) error {
	if values == nil {
		values = []string{}
	}
	return c.call(ctx, MethodSetStrings, stringsParams{Node: id, Name: name, Values: values}, nil)
}

// Commit implements host.Session.
func (c *Client) Commit(ctx context.Context, id host.NodeID) error {
	return c.call(ctx, MethodCommit, nodeParams{Node: id}, nil)
}

// SaveGeometry implements host.Session. The path is resolved on the host.
func (c *Client) SaveGeometry(ctx context.Context, id host.NodeID, path string) error {
	return c.call(ctx, MethodSave, saveParams{Node: id, Path: path}, nil)
}

// Close closes the connection and waits for the reader to stop.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.conn.Close()
	<-c.conn.Done()
	return err
}

var _ host.Session = (*Client)(nil)
