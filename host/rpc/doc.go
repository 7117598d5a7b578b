// Package rpc carries host.Session over a JSON-RPC 2.0 connection
// (go.lsp.dev/jsonrpc2). Client implements host.Session against a remote
// host; Server exposes any host.Session, typically an embedded.Host, to
// remote clients.
//
// Host error sentinels travel as application error codes and are restored on
// the client, so errors.Is(err, host.ErrNodeNotFound) works across the wire.
package rpc
