package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/galmag/internal/config"
	"github.com/san-kum/galmag/internal/export"
	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/storage"
	"github.com/san-kum/galmag/internal/trace"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <model> [x y z]",
		Short: "follow a field line from a seed point (kpc)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 4 {
				return fmt.Errorf("accepts <model> or <model> <x> <y> <z>, received %d args", len(args))
			}
			return nil
		},
		RunE: runTrace,
	}
	addFieldFlags(cmd)
	cmd.Flags().Float64Var(&traceStep, "trace-step", config.DefaultConfig().Trace.Step, "arc-length step (kpc)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "maximum number of steps")
	cmd.Flags().BoolVar(&backward, "backward", false, "follow -B instead of B")
	cmd.Flags().BoolVar(&both, "both", false, "trace in both directions")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "adaptive stepping with this local error bound (kpc)")
	cmd.Flags().StringVar(&svgFile, "svg", "", "write the x-y projection as SVG")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the traced points as CSV")
	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "trace", args[0])
	if err != nil {
		return err
	}
	seedPos := cfg.ObserverPos()
	if len(args) == 4 {
		xyz, err := parseFloats(args[1:])
		if err != nil {
			return err
		}
		seedPos = geom.New(xyz[0], xyz[1], xyz[2])
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}

	opts := cfg.TraceOptions()
	directions := []bool{opts.Backward}
	if both {
		directions = []bool{false, true}
	}

	lines := make([]*trace.Line, 0, len(directions))
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", f.Model())
	fmt.Fprintf(w, "seed\t(%g, %g, %g) kpc\n\n", seedPos.X, seedPos.Y, seedPos.Z)
	fmt.Fprintln(w, "DIRECTION\tPOINTS\tLENGTH\tSTOP\tEND")
	for _, bwd := range directions {
		opts.Backward = bwd
		line, err := trace.Trace(f, seedPos, opts)
		if err != nil {
			return err
		}
		lines = append(lines, line)
		end := line.Points[len(line.Points)-1]
		fmt.Fprintf(w, "%s\t%d\t%.3f kpc\t%s\t(%.3f, %.3f, %.3f)\n",
			directionName(bwd), len(line.Points), line.Length(), line.Stop, end.X, end.Y, end.Z)
		logger.Debug("traced",
			zap.Bool("backward", bwd),
			zap.Int("points", len(line.Points)),
			zap.Stringer("stop", line.Stop),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if svgFile != "" {
		paths := make([][]export.Point, len(lines))
		for i, line := range lines {
			paths[i] = make([]export.Point, len(line.Points))
			for j, p := range line.Points {
				paths[i][j] = export.Point{X: p.X, Y: p.Y}
			}
		}
		svg := export.PathsToSVG(paths, export.Fit(paths), 800, 800)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nwrote %s\n", svgFile)
	}
	if outFile != "" {
		file, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer file.Close()
		return writeLines(file, directions, lines)
	}
	return nil
}

func directionName(backward bool) string {
	if backward {
		return "backward"
	}
	return "forward"
}

func writeLines(w io.Writer, directions []bool, lines []*trace.Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"direction", "x", "y", "z"}); err != nil {
		return err
	}
	for i, line := range lines {
		dir := directionName(directions[i])
		for _, p := range line.Points {
			err := cw.Write([]string{
				dir,
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
				strconv.FormatFloat(p.Z, 'g', -1, 64),
			})
			if err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored sampling runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSAMPLES\tSEED\tL\tB")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%g\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.Seed,
			run.L,
			run.B,
		)
	}
	return w.Flush()
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run_id>",
		Short: "export a stored run with all draws as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output path (default stdout)")
	return cmd
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.ExportJSON(cmd.OutOrStdout(), args[0])
	}
	file, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := st.ExportJSON(file, args[0]); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", outFile)
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [group]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			groups := config.Groups()
			if len(args) > 0 {
				groups = args
			}
			for _, g := range groups {
				presets := config.ListPresets(g)
				if len(presets) == 0 {
					fmt.Fprintf(out, "no presets for group: %s\n", g)
					continue
				}
				fmt.Fprintf(out, "%s:\n", g)
				for _, p := range presets {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}
			return nil
		},
	}
}
