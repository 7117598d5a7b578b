package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/viant/houlog/container"
	"github.com/viant/houlog/loggable"
)

var kindColors = map[string]*color.Color{
	loggable.KindPoint:     color.New(color.FgCyan),
	loggable.KindTransform: color.New(color.FgMagenta),
	loggable.KindRotation:  color.New(color.FgMagenta),
	loggable.KindScalar:    color.New(color.FgYellow),
	loggable.KindPolyline:  color.New(color.FgGreen),
	loggable.KindPolygon:   color.New(color.FgGreen, color.Bold),
	loggable.KindMesh:      color.New(color.FgBlue),
	loggable.KindArmature:  color.New(color.FgRed),
	loggable.KindCapsule:   color.New(color.FgHiBlue),
	loggable.KindSphere:    color.New(color.FgHiCyan),
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the entries of a recorded container file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			near, _ := cmd.Flags().GetString("near")
			k, _ := cmd.Flags().GetInt("k")
			out := cmd.OutOrStdout()
			if near == "" {
				rows, err := container.ReadRows(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, r := range rows {
					printRow(out, r)
				}
				fmt.Fprintf(out, "%d entries\n", len(rows))
				return nil
			}
			pos, err := parseVec3(near)
			if err != nil {
				return err
			}
			neighbors, err := container.Nearest(cmd.Context(), args[0], pos, k)
			if err != nil {
				return err
			}
			for _, n := range neighbors {
				fmt.Fprintf(out, "%8.4f  ", n.Distance)
				printRow(out, n.Row)
			}
			return nil
		},
	}
	cmd.Flags().String("near", "", "Only list entries nearest to x,y,z")
	cmd.Flags().IntP("k", "k", 10, "Number of entries listed with --near (0 lists all)")
	return cmd
}

func printRow(w io.Writer, r container.Row) {
	kind := r.Kind
	if c, ok := kindColors[kind]; ok {
		kind = c.Sprint(kind)
	}
	fmt.Fprintf(w, "%5d  t=%-4g %-10s %-16s (%g, %g, %g)  %s\n",
		r.Index, r.Time, kind, r.Name, r.Position[0], r.Position[1], r.Position[2], r.Metadata)
}

func parseVec3(s string) ([3]float32, error) {
	var out [3]float32
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, errors.Newf("inspect: expected x,y,z, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return out, errors.Wrapf(err, "inspect: coordinate %d", i)
		}
		out[i] = float32(v)
	}
	return out, nil
}
