// Package embedded implements host.Session in process. It keeps a node tree
// rooted at "/obj", per-node draft and committed geometry, and saves committed
// geometry through the container package.
//
// The File export target uses a fresh Host per export; host/rpc can serve a
// long-lived Host to remote recorders.
package embedded
