package main

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
	"github.com/viant/houlog/config"
	"github.com/viant/houlog/loggable"
	"github.com/viant/houlog/recorder"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Record a sample scene",
		Long:  "Records a few frames of sample shapes to a container file or a live host. Settings come from --config, then HOULOG_* variables, then flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			config.FromEnv(&cfg)
			if cmd.Flags().Changed("target") {
				cfg.Target, _ = cmd.Flags().GetString("target")
			}
			if cmd.Flags().Changed("out") {
				cfg.Path, _ = cmd.Flags().GetString("out")
			}
			if cmd.Flags().Changed("addr") {
				cfg.Address, _ = cmd.Flags().GetString("addr")
			}
			frames, _ := cmd.Flags().GetInt("frames")
			logger, err := commandLogger(cmd)
			if err != nil {
				return err
			}

			l, err := recorder.NewFromConfig(cmd.Context(), cfg, recorder.WithLogger(logger))
			if err != nil {
				return err
			}
			defer l.Close()
			ctx := recorder.NewContext(cmd.Context(), l)
			for i := 0; i < frames; i++ {
				if err := recordDemoFrame(ctx, i); err != nil {
					return err
				}
				if err := recorder.AdvanceFrame(ctx); err != nil {
					return err
				}
			}
			if err := recorder.Export(ctx); err != nil {
				return err
			}
			logger.Info("demo: recorded", "frames", l.FrameCount(), "entries", l.EntryCount())
			return nil
		},
	}
	cmd.Flags().String("config", "", "Configuration file (JSON or YAML)")
	cmd.Flags().String("target", config.TargetFile, "Export target: file|live")
	cmd.Flags().String("out", "demo.hlog", "Container file for the file target")
	cmd.Flags().String("addr", "", "Live host address")
	cmd.Flags().Int("frames", 10, "Number of frames to record")
	return cmd
}

func recordDemoFrame(ctx context.Context, frame int) error {
	angle := float32(frame) * math.Pi / 8
	rot := mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})
	tip := rot.Rotate(mgl32.Vec3{1, 0, 0})
	root := mgl32.Ident4()
	elbow := mgl32.Translate3D(0, 1, 0).Mul4(rot.Mat4())
	values := []struct {
		name  string
		value interface{}
	}{
		{"tip", tip},
		{"heading", rot},
		{"angle", angle},
		{"arm", loggable.NewLine(mgl32.Vec3{}, tip)},
		{"pose", mgl32.Translate3D(tip[0], 0, tip[2])},
		{"floor", loggable.NewPolygon(mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{1, 0, -1}, mgl32.Vec3{1, 0, 1}, mgl32.Vec3{-1, 0, 1})},
		{"tri", loggable.NewMesh([]mgl32.Vec3{{0, 0, 0}, tip, {0, 1, 0}}, []int{0, 1, 2}, []int{3})},
		{"skeleton", loggable.NewArmature([]string{"root", "elbow"}, []int32{-1, 0}, []mgl32.Mat4{root, elbow})},
		{"bone", loggable.NewCapsule(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0.1)},
		{"target", loggable.NewSphere(tip.Mul(2), 0.2)},
	}
	for _, v := range values {
		if err := recorder.Record(ctx, v.name, v.value); err != nil {
			return err
		}
	}
	return nil
}
