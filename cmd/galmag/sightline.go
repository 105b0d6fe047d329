package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/galmag/internal/config"
	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/los"
	"github.com/san-kum/galmag/internal/sampler"
	"github.com/san-kum/galmag/internal/storage"
)

var observableUnits = map[string]string{
	"parallel":  "muG kpc",
	"perp2":     "muG^2 kpc",
	"magnitude": "muG kpc",
}

func sightlineArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return fmt.Errorf("accepts <model> or <model> <l> <b>, received %d args", len(args))
	}
	return nil
}

// resolveSightline loads the config and takes l and b from the arguments
// when given.
func resolveSightline(cmd *cobra.Command, group string, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd, group, args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 3 {
		lb, err := parseFloats(args[1:])
		if err != nil {
			return nil, err
		}
		cfg.Sightline = config.SightlineConfig{L: lb[0], B: lb[1]}
	}
	return cfg, nil
}

func newLOSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "los <model> [l b]",
		Short: "integrate field observables along a sight line (degrees)",
		Args:  sightlineArgs,
		RunE:  runLOS,
	}
	addSightlineFlags(cmd)
	return cmd
}

func runLOS(cmd *cobra.Command, args []string) error {
	cfg, err := resolveSightline(cmd, "los", args)
	if err != nil {
		return err
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}

	dir := los.Direction(cfg.Sightline.L, cfg.Sightline.B)
	var steps int
	var length float64
	err = los.Walk(f, cfg.ObserverPos(), dir, cfg.Step, func(l float64, _, _ geom.Vec3) error {
		steps++
		length = l + cfg.Step
		return nil
	})
	if err != nil {
		return err
	}
	obs := los.Standard()
	if err := los.Integrate(f, cfg.ObserverPos(), dir, cfg.Step, obs...); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", f.Model())
	fmt.Fprintf(w, "sight line\tl=%g b=%g deg\n", cfg.Sightline.L, cfg.Sightline.B)
	fmt.Fprintf(w, "steps\t%d x %g kpc (%g kpc)\n", steps, cfg.Step, length)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OBSERVABLE\tVALUE\tUNIT")
	for _, o := range obs {
		fmt.Fprintf(w, "%s\t%.10g\t%s\n", o.Name(), o.Value(), observableUnits[o.Name()])
	}
	return w.Flush()
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <model> [l b]",
		Short: "plot the field along a sight line",
		Args:  sightlineArgs,
		RunE:  runProfile,
	}
	addSightlineFlags(cmd)
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "magnitude", "magnitude, parallel, perp2, bx, by or bz")
	return cmd
}

func profileValue(s los.Sample, q string) (float64, bool) {
	switch q {
	case "magnitude":
		return s.B.Norm(), true
	case "parallel":
		return s.Parallel, true
	case "perp2":
		return s.PerpSquared, true
	case "bx":
		return s.B.X, true
	case "by":
		return s.B.Y, true
	case "bz":
		return s.B.Z, true
	}
	return 0, false
}

func runProfile(cmd *cobra.Command, args []string) error {
	if _, ok := profileValue(los.Sample{}, quantity); !ok {
		return fmt.Errorf("unknown quantity %q", quantity)
	}
	cfg, err := resolveSightline(cmd, "los", args)
	if err != nil {
		return err
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}

	samples, err := los.Profile(f, cfg.ObserverPos(), los.Direction(cfg.Sightline.L, cfg.Sightline.B), cfg.Step)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("observer is outside the cutoff radius")
	}

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i], _ = profileValue(s, quantity)
	}
	caption := fmt.Sprintf("%s %s along l=%g b=%g, 0 to %.1f kpc", f.Model(), quantity,
		cfg.Sightline.L, cfg.Sightline.B, samples[len(samples)-1].L)
	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <model> [l b]",
		Short: "propagate parameter uncertainties to sight-line observables",
		Args:  sightlineArgs,
		RunE:  runSample,
	}
	addSightlineFlags(cmd)
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of parameter draws")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cores)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := resolveSightline(cmd, "sample", args)
	if err != nil {
		return err
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}
	cov, err := cfg.NewCovariance()
	if err != nil {
		return err
	}
	s, err := sampler.New(f, cov, sampler.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	from := cfg.ObserverPos()
	names, observe := sampler.SightLine(from, los.Direction(cfg.Sightline.L, cfg.Sightline.B), cfg.Step)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "sampling %s with %d draws...\n", f.Model(), cfg.Samples)
	start := time.Now()
	res, err := s.Run(ctx, cfg.SamplerConfig(), names, observe)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OBSERVABLE\tNOMINAL\tMEAN\tSTD\tUNIT")
	for i, name := range res.Names {
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%.6g\t%s\n", name, res.Nominal[i], res.Mean[i], res.StdDev[i], observableUnits[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runMetadata(cfg, res), res.Draws)
	if err != nil {
		return err
	}
	logger.Info("run saved", zap.String("id", runID), zap.String("dir", dataDir))
	fmt.Fprintf(out, "\nrun id: %s\n", runID)
	return nil
}

func runMetadata(cfg *config.Config, res *sampler.Result) storage.RunMetadata {
	meta := storage.RunMetadata{
		Model:    cfg.Model,
		Seed:     cfg.Seed,
		Samples:  cfg.Samples,
		Step:     cfg.Step,
		Observer: [3]float64{cfg.Observer.X, cfg.Observer.Y, cfg.Observer.Z},
		L:        cfg.Sightline.L,
		B:        cfg.Sightline.B,
	}
	for i, name := range res.Names {
		meta.Observables = append(meta.Observables, storage.Observable{
			Name:    name,
			Nominal: res.Nominal[i],
			Mean:    res.Mean[i],
			StdDev:  res.StdDev[i],
		})
	}
	return meta
}

func newCovarianceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "covariance <model>",
		Short: "report parameter uncertainties and correlations",
		Args:  cobra.ExactArgs(1),
		RunE:  showCovariance,
	}
}

func showCovariance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "", args[0])
	if err != nil {
		return err
	}
	cov, err := cfg.NewCovariance()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	indices := cov.Indices()
	fmt.Fprintf(out, "model: %s\ndimension: %d\nparameters: %s\n\n", cov.Model(), cov.Dimension(), formatParams(indices))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPARAM\tSIGMA\tUNIT")
	for i, sigma := range cov.StdDevs() {
		p := indices[i]
		fmt.Fprintf(w, "%d\t%s\t%.5g\t%s\n", i, p, sigma, p.UnitName())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	corr := cov.Correlation()
	n := cov.Dimension()
	fmt.Fprintln(out, "\ncorrelation (%):")
	w = tabwriter.NewWriter(out, 0, 0, 1, ' ', tabwriter.AlignRight)
	header := make([]string, n)
	for j := range header {
		header[j] = fmt.Sprint(j)
	}
	fmt.Fprintf(w, "\t%s\t\n", strings.Join(header, "\t"))
	for i := 0; i < n; i++ {
		row := make([]string, n)
		for j := range row {
			row[j] = fmt.Sprintf("%.0f", 100*corr.At(i, j))
		}
		fmt.Fprintf(w, "%d\t%s\t\n", i, strings.Join(row, "\t"))
	}
	return w.Flush()
}
