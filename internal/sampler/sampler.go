// Package sampler propagates fitted-parameter uncertainties to derived
// quantities by Monte Carlo: parameter vectors are drawn from the model
// covariance, and an observable is evaluated on a field built from each draw.
//
// Normals are drawn sequentially from one seeded source before any work is
// distributed, so results are identical for any worker count.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/galmag/internal/covariance"
	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/gmf"
	"github.com/san-kum/galmag/internal/los"
)

const (
	DefaultSamples = 1000
	DefaultSeed    = 123
)

var ErrModelMismatch = errors.New("sampler: covariance and field belong to different models")

// ObserveFunc computes the observables for one field realization.
type ObserveFunc func(f *gmf.Field) ([]float64, error)

type Config struct {
	Samples int
	Seed    uint64
	Workers int // GOMAXPROCS when <= 0
}

func DefaultConfig() Config {
	return Config{Samples: DefaultSamples, Seed: DefaultSeed}
}

type Result struct {
	Names   []string
	Nominal []float64
	Mean    []float64
	StdDev  []float64

	// Draws holds the observables of every sample, in draw order.
	Draws [][]float64
}

type Sampler struct {
	field *gmf.Field
	cov   *covariance.Covariance
	log   *zap.Logger
}

type Option func(*Sampler)

func WithLogger(l *zap.Logger) Option {
	return func(s *Sampler) {
		s.log = l
	}
}

// New binds a field at its central parameters to the covariance of the same
// model. The field is cloned and never modified.
func New(field *gmf.Field, cov *covariance.Covariance, opts ...Option) (*Sampler, error) {
	if field.Model() != cov.Model() {
		return nil, fmt.Errorf("%w: field %v, covariance %v", ErrModelMismatch, field.Model(), cov.Model())
	}
	s := &Sampler{field: field.Clone(), cov: cov, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run draws cfg.Samples parameter vectors and evaluates observe on each.
// names labels the observables and must match the length observe returns.
func (s *Sampler) Run(ctx context.Context, cfg Config, names []string, observe ObserveFunc) (*Result, error) {
	if cfg.Samples <= 0 {
		return nil, fmt.Errorf("sampler: invalid sample count %d", cfg.Samples)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	s.log.Debug("sampling started",
		zap.Stringer("model", s.field.Model()),
		zap.Int("samples", cfg.Samples),
		zap.Uint64("seed", cfg.Seed),
		zap.Int("workers", workers),
		zap.Int("dimension", s.cov.Dimension()),
	)

	nominal, err := observe(s.field.Clone())
	if err != nil {
		return nil, fmt.Errorf("sampler: nominal parameters: %w", err)
	}
	if len(nominal) != len(names) {
		return nil, fmt.Errorf("%w: %d observables, %d names", gmf.ErrDimensionMismatch, len(nominal), len(names))
	}

	normals := s.drawNormals(cfg)
	central := s.field.Parameters()
	draws := make([][]float64, cfg.Samples)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range draws {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vals, err := s.sample(central, normals[i], observe)
			if err != nil {
				return fmt.Errorf("sampler: draw %d: %w", i, err)
			}
			if len(vals) != len(names) {
				return fmt.Errorf("%w: draw %d returned %d observables", gmf.ErrDimensionMismatch, i, len(vals))
			}
			draws[i] = vals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := summarize(names, nominal, draws)
	s.log.Debug("sampling finished", zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (s *Sampler) drawNormals(cfg Config) [][]float64 {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(cfg.Seed, cfg.Seed)}
	d := s.cov.Dimension()
	normals := make([][]float64, cfg.Samples)
	for i := range normals {
		n := make([]float64, d)
		for j := range n {
			n[j] = normal.Rand()
		}
		normals[i] = n
	}
	return normals
}

func (s *Sampler) sample(central, normals []float64, observe ObserveFunc) ([]float64, error) {
	offset, err := s.cov.Offset(normals)
	if err != nil {
		return nil, err
	}
	params := append([]float64(nil), central...)
	if err := s.cov.Apply(params, offset); err != nil {
		return nil, err
	}
	f := s.field.Clone()
	if err := f.SetParameters(params); err != nil {
		return nil, err
	}
	return observe(f)
}

// summarize reduces in draw order. The variance is the population variance
// Σx²/N − μ².
func summarize(names []string, nominal []float64, draws [][]float64) *Result {
	k := len(names)
	n := float64(len(draws))
	sum := make([]float64, k)
	sum2 := make([]float64, k)
	for _, d := range draws {
		for j, v := range d {
			sum[j] += v
			sum2[j] += v * v
		}
	}
	res := &Result{
		Names:   names,
		Nominal: nominal,
		Mean:    make([]float64, k),
		StdDev:  make([]float64, k),
		Draws:   draws,
	}
	for j := range names {
		mu := sum[j] / n
		res.Mean[j] = mu
		res.StdDev[j] = math.Sqrt(math.Max(0, sum2[j]/n-mu*mu))
	}
	return res
}

// SightLine integrates every standard observable along one sight line.
func SightLine(from, dir geom.Vec3, step float64) ([]string, ObserveFunc) {
	std := los.Standard()
	names := make([]string, len(std))
	for i, o := range std {
		names[i] = o.Name()
	}
	return names, func(f *gmf.Field) ([]float64, error) {
		obs := los.Standard()
		if err := los.Integrate(f, from, dir, step, obs...); err != nil {
			return nil, err
		}
		vals := make([]float64, len(obs))
		for i, o := range obs {
			vals[i] = o.Value()
		}
		return vals, nil
	}
}
