package host

import "github.com/cockroachdb/errors"

var (
	// ErrNodeNotFound is returned when a node path or handle does not resolve.
	ErrNodeNotFound = errors.New("host: node not found")
	// ErrNotCooked is returned when geometry is edited before the node is cooked.
	ErrNotCooked = errors.New("host: node not cooked")
	// ErrNoGeometry is returned for nodes that cannot hold geometry.
	ErrNoGeometry = errors.New("host: node has no geometry")
	// ErrAttributeMismatch is returned when attribute values do not match their declaration.
	ErrAttributeMismatch = errors.New("host: attribute mismatch")
	// ErrNotCommitted is returned when saving a node that has no committed geometry.
	ErrNotCommitted = errors.New("host: geometry not committed")
	// ErrClosed is returned by sessions used after Close.
	ErrClosed = errors.New("host: session closed")
)

// Sentinels lists every host sentinel; transports use it to map errors across
// the wire.
var Sentinels = []error{ErrNodeNotFound, ErrNotCooked, ErrNoGeometry, ErrAttributeMismatch, ErrNotCommitted, ErrClosed}
