package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/san-kum/galmag/internal/config"
	"github.com/san-kum/galmag/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	maxRadius float64
	step      float64
	samples   int
	seed      uint64
	workers   int
	observer  []float64

	traceStep float64
	maxSteps  int
	backward  bool
	both      bool
	tolerance float64

	outFile  string
	svgFile  string
	quantity string
	noSave   bool
	gridL    int
	gridB    int

	logger = zap.NewNop()
)

// main runs the galmag CLI and exits with status 1 on error.
func main() {
	if err := execute(newRootCmd(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func execute(root *cobra.Command, args []string) error {
	root.SetArgs(separatePositionals(root, args))
	return root.Execute()
}

// separatePositionals moves positionals behind "--" when one of them is a
// negative number, so pflag does not read -8.178 as a shorthand flag. The
// command path stays in front and flags keep their values.
func separatePositionals(root *cobra.Command, args []string) []string {
	cmd, _, err := root.Find(args)
	if err != nil {
		return args
	}
	lookup := func(name string, short bool) *pflag.Flag {
		for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
			if short {
				if f := fs.ShorthandLookup(name); f != nil {
					return f
				}
			} else if f := fs.Lookup(name); f != nil {
				return f
			}
		}
		return nil
	}

	var path, flags, positionals []string
	negative := false
	cur := root
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			positionals = append(positionals, args[i+1:]...)
			i = len(args)
		case isNumber(a):
			negative = negative || strings.HasPrefix(a, "-")
			positionals = append(positionals, a)
		case strings.HasPrefix(a, "--"):
			flags = append(flags, a)
			name := strings.TrimPrefix(a, "--")
			if f := lookup(name, false); f != nil && !strings.Contains(name, "=") && f.NoOptDefVal == "" && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		case strings.HasPrefix(a, "-") && len(a) > 1:
			flags = append(flags, a)
			if len(a) != 2 {
				continue
			}
			if f := lookup(a[1:], true); f != nil && f.NoOptDefVal == "" && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			if len(positionals) == 0 {
				if sub := subcommand(cur, a); sub != nil {
					cur = sub
					path = append(path, a)
					continue
				}
			}
			positionals = append(positionals, a)
		}
	}
	if !negative {
		return args
	}
	out := append(path, flags...)
	out = append(out, "--")
	return append(out, positionals...)
}

func subcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return c
		}
	}
	return nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "galmag",
		Short:        "galactic magnetic field models",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: runExplore,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".galmag", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newModelsCmd(),
		newParamsCmd(),
		newFieldCmd(),
		newBatchCmd(),
		newLOSCmd(),
		newProfileCmd(),
		newSkymapCmd(),
		newSampleCmd(),
		newCovarianceCmd(),
		newTraceCmd(),
		newExploreCmd(),
		newListCmd(),
		newExportCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// loadConfig resolves the configuration of one command: defaults, then the
// config file, then a preset of group, then the model argument and flags.
func loadConfig(cmd *cobra.Command, group, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		if group == "" {
			return nil, fmt.Errorf("%s takes no presets", cmd.Name())
		}
		if err := cfg.ApplyPreset(group, preset); err != nil {
			return nil, err
		}
	}
	if model != "" {
		cfg.Model = model
	}

	flags := cmd.Flags()
	if flags.Changed("max-radius") {
		cfg.MaxRadius = maxRadius
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("observer") {
		if len(observer) != 3 {
			return nil, fmt.Errorf("--observer needs x,y,z, got %d values", len(observer))
		}
		cfg.Observer = config.PositionConfig{X: observer[0], Y: observer[1], Z: observer[2]}
	}
	if flags.Changed("trace-step") {
		cfg.Trace.Step = traceStep
	}
	if flags.Changed("max-steps") {
		cfg.Trace.MaxSteps = maxSteps
	}
	if flags.Changed("backward") {
		cfg.Trace.Backward = backward
	}
	if flags.Changed("tolerance") {
		cfg.Trace.Tolerance = tolerance
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config resolved",
		zap.String("model", cfg.Model),
		zap.String("preset", preset),
		zap.Float64("max_radius", cfg.MaxRadius),
		zap.Float64("step", cfg.Step),
	)
	return cfg, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&maxRadius, "max-radius", config.DefaultConfig().MaxRadius, "cutoff radius (kpc)")
}

func addSightlineFlags(cmd *cobra.Command) {
	addFieldFlags(cmd)
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "integration step (kpc)")
	cmd.Flags().Float64SliceVar(&observer, "observer", nil, "observer position x,y,z (kpc)")
}

func newExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore [model]",
		Short: "interactive field explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExplore,
	}
	addSightlineFlags(cmd)
	return cmd
}

func runExplore(cmd *cobra.Command, args []string) error {
	model := ""
	if len(args) > 0 {
		model = args[0]
	}
	cfg, err := loadConfig(cmd, "los", model)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{Config: cfg, Logger: logger, OutDir: "."})
}
