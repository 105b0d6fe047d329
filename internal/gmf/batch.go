package gmf

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/galmag/internal/geom"
)

// minChunk is the smallest slice of positions handed to one worker.
const minChunk = 256

// EvaluateMany evaluates f at every position, splitting the work across up to
// workers goroutines (GOMAXPROCS when workers <= 0). Results keep the input
// order. The first evaluation error cancels the remaining chunks.
func (f *Field) EvaluateMany(ctx context.Context, positions []geom.Vec3, workers int) ([]geom.Vec3, error) {
	out := make([]geom.Vec3, len(positions))
	err := ParallelFor(ctx, len(positions), workers, func(start, end int) error {
		for i := start; i < end; i++ {
			b, err := f.Evaluate(positions[i])
			if err != nil {
				return err
			}
			out[i] = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParallelFor runs fn over contiguous chunks covering [0, n). Small ranges run
// on the calling goroutine.
func ParallelFor(ctx context.Context, n, workers int, fn func(start, end int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(0, n)
	}

	chunkSize := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(start, end)
		})
	}
	return g.Wait()
}
