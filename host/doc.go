// Package host defines the geometry host collaborator: the node and attribute
// operations the recorder needs from a geometry-processing application, the
// error sentinels shared by host implementations, and well-known defaults.
//
// Implementations live in sub-packages: embedded (an in-process host) and rpc
// (a JSON-RPC 2.0 client and server carrying Session over a connection).
package host
