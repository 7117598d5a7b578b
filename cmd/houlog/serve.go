package main

import (
	"context"
	"net"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/viant/houlog/container"
	"github.com/viant/houlog/geo"
	"github.com/viant/houlog/host"
	"github.com/viant/houlog/host/embedded"
	"github.com/viant/houlog/host/rpc"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a live geometry host",
		Long:  "Runs an in-process geometry host over JSON-RPC. Live recorders connect to it and replace their output node on every export.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			out, _ := cmd.Flags().GetString("out")
			containerPath, _ := cmd.Flags().GetString("container")
			logger, err := commandLogger(cmd)
			if err != nil {
				return err
			}

			var opts []embedded.Option
			if out != "" {
				opts = append(opts, embedded.WithOnCommit(func(ctx context.Context, path string, g *geo.Geometry) {
					if err := container.Save(ctx, out, g); err != nil {
						logger.Error("serve: snapshot failed", "node", path, "error", err)
						return
					}
					logger.Info("serve: snapshot written", "node", path, "file", out, "points", g.Part.PointCount)
				}))
			}
			h := embedded.New(opts...)
			defer h.Close()
			if err := ensureNetwork(cmd.Context(), h, containerPath); err != nil {
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "serve: listen %s", addr)
			}
			logger.Info("serve: listening", "addr", ln.Addr().String(), "container", containerPath)
			return rpc.NewServer(h, rpc.WithServerLogger(logger)).Serve(cmd.Context(), ln)
		},
	}
	cmd.Flags().String("addr", host.DefaultAddress, "Listen address")
	cmd.Flags().String("out", "", "Container file rewritten on every commit (optional)")
	cmd.Flags().String("container", host.DefaultContainerPath, "Network created for recorder output")
	return cmd
}

// ensureNetwork creates every missing subnet along an absolute /obj path.
func ensureNetwork(ctx context.Context, s host.Session, path string) error {
	trimmed := strings.Trim(path, "/")
	if !strings.HasPrefix(path, "/") || trimmed == "" {
		return errors.Newf("serve: container path %q is not absolute", path)
	}
	segments := strings.Split(trimmed, "/")
	if segments[0] != "obj" {
		return errors.Newf("serve: container path %q is outside /obj", path)
	}
	parent := host.RootID
	for _, seg := range segments[1:] {
		id, err := s.NodeByPath(ctx, seg, parent)
		if errors.Is(err, host.ErrNodeNotFound) {
			id, err = s.CreateNode(ctx, host.NodeSpec{Operator: host.OperatorSubnet, Parent: parent, Label: seg})
		}
		if err != nil {
			return errors.Wrapf(err, "serve: create %s", path)
		}
		parent = id
	}
	return nil
}
