package rpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/viant/houlog/geo"
	"github.com/viant/houlog/host"
	"go.lsp.dev/jsonrpc2"
)

var wire = jsoniter.ConfigCompatibleWithStandardLibrary

// Server exposes a host.Session to JSON-RPC clients. All connections share
// the same session.
type Server struct {
	session host.Session
	logger  *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger used for connection and call logs.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a server for session.
func NewServer(session host.Session, opts ...ServerOption) *Server {
	s := &Server{session: session, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve accepts connections on ln until ctx is cancelled or ln fails. It
// closes ln and waits for active connections before returning.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	defer wg.Wait()
	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "rpc: accept")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ServeConn(ctx, c)
		}()
	}
}

// ServeConn serves a single connection until the peer disconnects or ctx is
// cancelled.
func (s *Server) ServeConn(ctx context.Context, rwc io.ReadWriteCloser) {
	id := uuid.NewString()
	logger := s.logger.With("conn", id)
	logger.Debug("rpc: connection opened")

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, s.handler(logger))
	select {
	case <-conn.Done():
	case <-ctx.Done():
		_ = conn.Close()
		<-conn.Done()
	}
	if err := conn.Err(); err != nil && !errors.Is(err, io.EOF) {
		logger.Debug("rpc: connection closed", "error", err)
		return
	}
	logger.Debug("rpc: connection closed")
}

func (s *Server) handler(logger *slog.Logger) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		result, err := s.dispatch(ctx, req.Method(), req.Params())
		if err != nil {
			logger.Debug("rpc: call failed", "method", req.Method(), "error", err)
		}
		return reply(ctx, result, toWireError(err))
	}
}

func decode(params json.RawMessage, v interface{}) error {
	if err := wire.Unmarshal(params, v); err != nil {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	}
	return nil
}

func (s *Server) dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case MethodNodeByPath:
		var p nodeByPathParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		id, err := s.session.NodeByPath(ctx, p.Path, p.Parent)
		if err != nil {
			return nil, err
		}
		return nodeResult{Node: id}, nil
	case MethodCreateNode:
		var p host.NodeSpec
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		id, err := s.session.CreateNode(ctx, p)
		if err != nil {
			return nil, err
		}
		return nodeResult{Node: id}, nil
	case MethodDeleteNode, MethodCookNode, MethodCommit:
		var p nodeParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		switch method {
		case MethodDeleteNode:
			return nil, s.session.DeleteNode(ctx, p.Node)
		case MethodCookNode:
			return nil, s.session.CookNode(ctx, p.Node)
		default:
			return nil, s.session.Commit(ctx, p.Node)
		}
	case MethodSetPartInfo:
		var p partInfoParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return nil, s.session.SetPartInfo(ctx, p.Node, p.Part)
	case MethodAddAttribute:
		var p attributeParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return nil, s.session.AddAttribute(ctx, p.Node, p.Info)
	case MethodSetFloats:
		var p floatsParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		values, err := geo.DecodeFloats(p.Data)
		if err != nil {
			return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
		}
		return nil, s.session.SetFloatAttribute(ctx, p.Node, p.Name, values)
	case MethodSetStrings:
		var p stringsParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return nil, s.session.SetStringAttribute(ctx, p.Node, p.Name, p.Values)
	case MethodSave:
		var p saveParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return nil, s.session.SaveGeometry(ctx, p.Node, p.Path)
	}
	return nil, jsonrpc2.NewError(jsonrpc2.MethodNotFound, "method not found: "+method)
}
