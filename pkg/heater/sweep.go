package heater

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SweepPoint is the design for one candidate board height.
type SweepPoint struct {
	BoardHeight float64
	Result      *Result // nil when Err is set
	Err         error
}

// Sweep designs base at each of heights in parallel, running at most limit
// designs at once (0 means no limit). Results keep the order of heights.
//
// A height that cannot be designed records its error in the point and does
// not stop the others; Sweep itself only fails when ctx is cancelled.
func Sweep(ctx context.Context, base Input, heights []float64, limit int) ([]SweepPoint, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	// Each goroutine writes only its own index.
	points := make([]SweepPoint, len(heights))
	for i, h := range heights {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in := base
			in.BoardHeight = h
			res, err := Design(in)
			points[i] = SweepPoint{BoardHeight: h, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
