package wilt

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DeformAll deforms every target against the same surface, spreading the work across up to workers goroutines
// (GOMAXPROCS if workers < 1). The surface is only read, and each target writes to its own buffer. Targets that
// fail are skipped, and their errors joined into the returned error; the batch only stops early if ctx is done.
func DeformAll(ctx context.Context, deformer *Deformer, targets []Deformable, surface CollisionSurface, workers int) error {

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	errs := make([]error, len(targets))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, target := range targets {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			_, errs[i] = deformer.DeformField(target, surface)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return errors.Join(errs...)

}
