package simplify

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"geosimplify/internal/geom"
)

// Options configures SimplifyAll.
type Options struct {
	Tolerance   float64
	HighQuality bool
	// Workers caps the number of features simplified at once. Values below 1 mean 1.
	Workers int
	// ContinueOnError attempts every feature, drops the failed ones from the
	// result and reports all failures together.
	ContinueOnError bool
}

// SimplifyAll simplifies features with the default reducer.
func SimplifyAll(ctx context.Context, features []geom.Feature, opts Options) ([]geom.Feature, Stats, error) {
	return defaultSimplifier.SimplifyAll(ctx, features, opts)
}

// SimplifyAll runs Simplify over features concurrently and returns the results
// in input order. Without ContinueOnError the first failure cancels the rest.
func (s *Simplifier) SimplifyAll(ctx context.Context, features []geom.Feature, opts Options) ([]geom.Feature, Stats, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	var (
		out   = make([]geom.Feature, len(features))
		stats = make([]Stats, len(features))
		errs  = make([]error, len(features))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range features {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, st, err := s.SimplifyWithStats(features[i], opts.Tolerance, opts.HighQuality)
			if err != nil {
				err = errors.Wrapf(err, "feature %d", i)
				if opts.ContinueOnError {
					errs[i] = err
					return nil
				}
				return err
			}
			out[i], stats[i] = f, st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	var total Stats
	res := out[:0]
	for i := range out {
		if errs[i] != nil {
			continue
		}
		total.Add(stats[i])
		res = append(res, out[i])
	}
	return res, total, multierr.Combine(errs...)
}
