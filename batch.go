package khorgosh

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// EncodeBatch encodes many vectors concurrently. Worker count is bounded
// by WithMaxEncodeWorkers and throughput by WithEncodeRateLimit; the first
// error cancels the remaining work. Results keep input order.
func (c *Codec) EncodeBatch(ctx context.Context, vecs [][]float32) ([]*EncodedVector, error) {
	out := make([]*EncodedVector, len(vecs))
	if len(vecs) == 0 {
		return out, nil
	}

	sem := semaphore.NewWeighted(c.maxWorkers)
	g, ctx := errgroup.WithContext(ctx)

	for i, vec := range vecs {
		i, vec := i, vec
		if err := sem.Acquire(ctx, 1); err != nil {
			// context canceled, usually because a worker failed
			break
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				sem.Release(1)
				break
			}
		}

		g.Go(func() error {
			defer sem.Release(1)
			ev, err := c.Encode(vec)
			if err != nil {
				return err
			}
			out[i] = ev
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
