package recorder

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/viant/houlog/geo"
	"github.com/viant/houlog/host"
)

// Target is the destination of an export. It is either a FileTarget or a
// LiveTarget.
type Target interface {
	commit(ctx context.Context, env *exportEnv, cols Columns) error
	validate() error
}

// exportEnv carries what targets need from the logger.
type exportEnv struct {
	newHost HostFactory
}

// FileTarget writes each export to a container file through a transient host.
type FileTarget struct {
	Path string
}

func (t FileTarget) validate() error {
	if t.Path == "" {
		return errors.New("recorder: file target path is empty")
	}
	return nil
}

func (t FileTarget) commit(ctx context.Context, env *exportEnv, cols Columns) (err error) {
	session, err := env.newHost(ctx)
	if err != nil {
		return hostError(err, "recorder: start transient host")
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			err = hostError(cerr, "recorder: stop transient host")
		}
	}()
	parent, err := session.CreateNode(ctx, host.NodeSpec{Operator: host.OperatorGeo, Parent: host.RootID})
	if err != nil {
		return hostError(err, "recorder: create container node")
	}
	id, err := session.CreateNode(ctx, host.NodeSpec{Operator: host.OperatorNull, Parent: parent})
	if err != nil {
		return hostError(err, "recorder: create output node")
	}
	if err = writeColumns(ctx, session, id, cols); err != nil {
		return err
	}
	if err = session.SaveGeometry(ctx, id, t.Path); err != nil {
		return hostError(err, "recorder: save %s", t.Path)
	}
	return nil
}

// LiveTarget replaces a node inside a running host session on every export.
type LiveTarget struct {
	Session host.Session
	// ContainerPath is the network holding the output node,
	// host.DefaultContainerPath when empty.
	ContainerPath string
	// NodeName is the output node label, host.DefaultNodeName when empty.
	NodeName string
}

func (t LiveTarget) validate() error {
	if t.Session == nil {
		return errors.New("recorder: live target has no session")
	}
	return nil
}

func (t LiveTarget) paths() (string, string) {
	containerPath, nodeName := t.ContainerPath, t.NodeName
	if containerPath == "" {
		containerPath = host.DefaultContainerPath
	}
	if nodeName == "" {
		nodeName = host.DefaultNodeName
	}
	return containerPath, nodeName
}

func (t LiveTarget) commit(ctx context.Context, _ *exportEnv, cols Columns) error {
	containerPath, nodeName := t.paths()
	s := t.Session
	parent, err := s.NodeByPath(ctx, containerPath, host.RootID)
	if err != nil {
		return hostError(err, "recorder: resolve %s", containerPath)
	}
	existing, err := s.NodeByPath(ctx, nodeName, parent)
	switch {
	case err == nil:
		if err = s.DeleteNode(ctx, existing); err != nil {
			return hostError(err, "recorder: delete %s/%s", containerPath, nodeName)
		}
	case !errors.Is(err, host.ErrNodeNotFound):
		return hostError(err, "recorder: resolve %s/%s", containerPath, nodeName)
	}
	id, err := s.CreateNode(ctx, host.NodeSpec{Operator: host.OperatorNull, Parent: parent, Label: nodeName})
	if err != nil {
		return hostError(err, "recorder: create %s/%s", containerPath, nodeName)
	}
	return writeColumns(ctx, s, id, cols)
}

// writeColumns cooks node, declares one point per row, writes the five
// column attributes and commits.
func writeColumns(ctx context.Context, s host.Session, id host.NodeID, cols Columns) error {
	g := cols.Geometry()
	if err := s.CookNode(ctx, id); err != nil {
		return hostError(err, "recorder: cook node")
	}
	if err := s.SetPartInfo(ctx, id, g.Part); err != nil {
		return hostError(err, "recorder: set part info")
	}
	for _, a := range g.Attributes {
		if err := s.AddAttribute(ctx, id, a.Info); err != nil {
			return hostError(err, "recorder: add attribute %s", a.Info.Name)
		}
		var err error
		switch a.Info.Storage {
		case geo.StorageFloat:
			err = s.SetFloatAttribute(ctx, id, a.Info.Name, a.Floats)
		default:
			err = s.SetStringAttribute(ctx, id, a.Info.Name, a.Strings)
		}
		if err != nil {
			return hostError(err, "recorder: write attribute %s", a.Info.Name)
		}
	}
	if err := s.Commit(ctx, id); err != nil {
		return hostError(err, "recorder: commit")
	}
	return nil
}
