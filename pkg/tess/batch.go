package tess

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of patches a worker evaluates between context checks.
const chunkSize = 256

// EvaluateAll evaluates every patch, spreading the work over up to workers
// goroutines. workers <= 0 uses GOMAXPROCS. Each patch writes only its own
// slot in the result, so no locking is needed between patches.
//
// If ctx is canceled before the batch completes, EvaluateAll returns a nil
// slice and ctx.Err().
func EvaluateAll(ctx context.Context, patches []Patch, s Settings, workers int) ([]Output, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Output, len(patches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(patches); start += chunkSize {
		if gctx.Err() != nil {
			break
		}
		end := min(start+chunkSize, len(patches))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = Evaluate(patches[i], s)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// gctx is always done after Wait; only the caller's context matters here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
