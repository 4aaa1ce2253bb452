package rotation

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultChunkSize is the number of columns handed to one worker when
// Options.ChunkSize is unset.
const DefaultChunkSize = 4096

// Options controls how a Rotator splits a batch across goroutines.
type Options struct {
	// Workers is the maximum number of goroutines. Values <= 1 rotate serially.
	Workers int
	// ChunkSize is the number of columns per unit of work.
	ChunkSize int
}

// Rotator applies the rotations of this package, optionally splitting large
// batches into column chunks that are rotated concurrently. Every output
// column depends only on its own input column and angle, so chunks never
// share state. The zero value rotates serially.
type Rotator struct {
	opts Options
}

var serial = &Rotator{}

// NewRotator returns a Rotator using opts.
func NewRotator(opts Options) *Rotator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Rotator{opts: opts}
}

// Options returns the options the Rotator was built with.
func (r *Rotator) Options() Options {
	return r.opts
}

// RotateAxisAngle is the concurrent form of the package-level RotateAxisAngle.
func (r *Rotator) RotateAxisAngle(x *mat.Dense, axis r3.Vec, theta []float64) (*mat.Dense, error) {
	n, err := checkRows(x, 3)
	if err != nil {
		return nil, err
	}
	k, err := BroadcastLen(n, len(theta))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(3, k, nil)
	err = r.run(k, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			xi := pick(j, n)
			v := r3.Vec{X: x.At(0, xi), Y: x.At(1, xi), Z: x.At(2, xi)}
			rv := Rodrigues(v, axis, theta[pick(j, len(theta))])
			out.Set(0, j, rv.X)
			out.Set(1, j, rv.Y)
			out.Set(2, j, rv.Z)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RotatePlanar is the concurrent form of the package-level RotatePlanar.
func (r *Rotator) RotatePlanar(xy *mat.Dense, theta []float64) (*mat.Dense, error) {
	n, err := checkRows(xy, 2)
	if err != nil {
		return nil, err
	}
	k, err := BroadcastLen(n, len(theta))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(2, k, nil)
	err = r.run(k, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			xi := pick(j, n)
			px, py := Planar(xy.At(0, xi), xy.At(1, xi), theta[pick(j, len(theta))])
			out.Set(0, j, px)
			out.Set(1, j, py)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// run calls fn over [0, n) in chunks, at most Workers at a time. Chunks write
// disjoint columns of a preallocated matrix, which is safe for concurrent use.
// A panic in a worker goroutine is returned as an error.
func (r *Rotator) run(n int, fn func(lo, hi int)) error {
	chunk := r.opts.ChunkSize
	if r.opts.Workers <= 1 || chunk <= 0 || n <= chunk {
		fn(0, n)
		return nil
	}

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("rotating columns [%d, %d): %v", lo, hi, p)
				}
			}()
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
