package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RunBatch runs independent requests with at most limit in flight. Results
// keep the order of reqs. The first failure cancels the requests still
// running and is returned, tagged with the failing request.
func (p *Pipeline) RunBatch(ctx context.Context, reqs []Request, limit int) ([]*Result, error) {
	if limit < 1 {
		limit = 1
	}
	results := make([]*Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range reqs {
		req := reqs[i]
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		g.Go(func() error {
			res, err := p.Run(gctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", req.describe(), err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
