package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/galmag/internal/covariance"
	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/gmf"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "list field models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tCOVARIANCE\tDESCRIPTION")
			for _, m := range gmf.Models() {
				cov := "-"
				if covariance.Available(m) {
					cov = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", m, cov, m.Description())
			}
			return w.Flush()
		},
	}
}

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params <model>",
		Short: "show the parameters of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  showParams,
	}
	addFieldFlags(cmd)
	return cmd
}

func showParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "", args[0])
	if err != nil {
		return err
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE\tUNIT")
	for i, v := range f.Parameters() {
		p := gmf.Param(i)
		fmt.Fprintf(w, "%s\t%.7g\t%s\n", p, v, p.UnitName())
	}
	return w.Flush()
}

func newFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field <model> <x> <y> <z>",
		Short: "evaluate the field at a position (kpc)",
		Args:  cobra.ExactArgs(4),
		RunE:  evalField,
	}
	addFieldFlags(cmd)
	return cmd
}

func evalField(cmd *cobra.Command, args []string) error {
	xyz, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, "", args[0])
	if err != nil {
		return err
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}

	pos := geom.New(xyz[0], xyz[1], xyz[2])
	b, err := f.Evaluate(pos)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", f.Model())
	fmt.Fprintf(w, "position\t(%g, %g, %g) kpc\n", pos.X, pos.Y, pos.Z)
	fmt.Fprintf(w, "Bx\t%.10g muG\n", b.X)
	fmt.Fprintf(w, "By\t%.10g muG\n", b.Y)
	fmt.Fprintf(w, "Bz\t%.10g muG\n", b.Z)
	fmt.Fprintf(w, "|B|\t%.10g muG\n", b.Norm())
	return w.Flush()
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <model> <csv>",
		Short: "evaluate the field at every x,y,z row of a CSV file (- for stdin)",
		Args:  cobra.ExactArgs(2),
		RunE:  evalBatch,
	}
	addFieldFlags(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cores)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path (default stdout)")
	return cmd
}

func evalBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "", args[0])
	if err != nil {
		return err
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if args[1] != "-" {
		file, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}
	positions, err := readPositions(in)
	if err != nil {
		return err
	}

	start := time.Now()
	fields, err := f.EvaluateMany(context.Background(), positions, cfg.Workers)
	if err != nil {
		return err
	}
	logger.Debug("batch evaluated",
		zap.Int("positions", len(positions)),
		zap.Duration("elapsed", time.Since(start)),
	)

	out := cmd.OutOrStdout()
	if outFile != "" {
		file, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	return writeFields(out, positions, fields)
}

// readPositions parses x,y,z rows. A first row that is not numeric is taken
// as a header and skipped.
func readPositions(r io.Reader) ([]geom.Vec3, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var positions []geom.Vec3
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		xyz, err := parseFloats(record)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		positions = append(positions, geom.New(xyz[0], xyz[1], xyz[2]))
	}
	return positions, nil
}

func writeFields(w io.Writer, positions, fields []geom.Vec3) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "z", "bx", "by", "bz"}); err != nil {
		return err
	}
	row := make([]string, 6)
	for i, p := range positions {
		b := fields[i]
		for j, v := range [6]float64{p.X, p.Y, p.Z, b.X, b.Y, b.Z} {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatParams(ps []gmf.Param) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}
