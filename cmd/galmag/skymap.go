package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/galmag/internal/los"
	"github.com/san-kum/galmag/internal/viz"
)

func newSkymapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skymap <model>",
		Short: "integrate an observable over a grid of sight lines",
		Args:  cobra.ExactArgs(1),
		RunE:  runSkymap,
	}
	addSightlineFlags(cmd)
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "parallel", "parallel, perp2 or magnitude")
	cmd.Flags().IntVar(&gridL, "nl", 72, "longitude cells")
	cmd.Flags().IntVar(&gridB, "nb", 36, "latitude cells")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cores)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write l,b,value rows as CSV")
	return cmd
}

func runSkymap(cmd *cobra.Command, args []string) error {
	if los.ByName(quantity) == nil {
		return fmt.Errorf("unknown quantity %q", quantity)
	}
	cfg, err := loadConfig(cmd, "", args[0])
	if err != nil {
		return err
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m, err := los.Map(ctx, f, cfg.ObserverPos(), cfg.Step, gridL, gridB, cfg.Workers, func() los.Observable {
		return los.ByName(quantity)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s, l from 0 (left) to 360, b from +90 (top) to -90\n", f.Model(), m.Name)
	fmt.Fprint(out, viz.Heatmap(m.Rows()))

	if outFile == "" {
		return nil
	}
	file, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err := w.Write([]string{"l", "b", m.Name}); err != nil {
		return err
	}
	for j := 0; j < m.NB; j++ {
		for i := 0; i < m.NL; i++ {
			l, b := m.Coords(i, j)
			err := w.Write([]string{
				strconv.FormatFloat(l, 'g', -1, 64),
				strconv.FormatFloat(b, 'g', -1, 64),
				strconv.FormatFloat(m.At(i, j), 'g', -1, 64),
			})
			if err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}
