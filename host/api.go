package host

import (
	"context"

	"github.com/viant/houlog/geo"
)

// NodeID is a host-assigned node handle. RootID refers to the top-level
// object network.
type NodeID int64

// RootID is the handle of the top-level object network ("/obj").
const RootID NodeID = 0

// Operator names used by the recorder.
const (
	OperatorGeo    = "Object/geo"
	OperatorSubnet = "Object/subnet"
	OperatorNull   = "null"
)

// Well-known live session defaults.
const (
	DefaultAddress       = "127.0.0.1:9090"
	DefaultContainerPath = "/obj/recordings"
	DefaultNodeName      = "recording"
)

// NodeSpec describes a node to create.
type NodeSpec struct {
	// Operator is the node type, e.g. OperatorNull.
	Operator string `json:"operator"`
	// Parent is the network the node is created in.
	Parent NodeID `json:"parent"`
	// Label is the node name; when empty the host picks one.
	Label string `json:"label,omitempty"`
}

// Session is a connection to a geometry host.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use, callers
//     should still serialize a logical export.
//   - Errors: failures wrap one of the sentinels in this package when one
//     applies; transport failures are returned as-is.
type Session interface {
	// NodeByPath resolves path; relative paths are resolved against parent.
	// It returns ErrNodeNotFound when no such node exists.
	NodeByPath(ctx context.Context, path string, parent NodeID) (NodeID, error)

	// CreateNode creates a node and returns its handle.
	CreateNode(ctx context.Context, spec NodeSpec) (NodeID, error)

	// DeleteNode deletes a node and its children.
	DeleteNode(ctx context.Context, id NodeID) error

	// CookNode finalizes a node so its geometry can be edited.
	CookNode(ctx context.Context, id NodeID) error

	// SetPartInfo resets the node geometry to a single part.
	SetPartInfo(ctx context.Context, id NodeID, part geo.PartInfo) error

	// AddAttribute declares an attribute on the node geometry.
	AddAttribute(ctx context.Context, id NodeID, info geo.AttributeInfo) error

	// SetFloatAttribute assigns the values of a float attribute.
	SetFloatAttribute(ctx context.Context, id NodeID, name string, values []float32) error

	// SetStringAttribute assigns the values of a string attribute.
	SetStringAttribute(ctx context.Context, id NodeID, name string, values []string) error

	// Commit makes the written attributes visible.
	Commit(ctx context.Context, id NodeID) error

	// SaveGeometry writes the committed node geometry to a file.
	SaveGeometry(ctx context.Context, id NodeID, path string) error

	// Close releases the session.
	Close() error
}
