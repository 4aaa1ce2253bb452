// Package rotation rotates batches of 2- and 3-vectors.
//
// A batch is a D×N *mat.Dense whose columns are the vectors. Angles are given
// per column, or as a single angle shared by every column. A single-column
// batch rotated by M angles yields M columns.
package rotation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrShape is returned when a batch or its angles have an unusable shape.
var ErrShape = errors.New("rotation: incompatible shape")

// Rodrigues rotates v by theta radians about the unit vector axis.
func Rodrigues(v, axis r3.Vec, theta float64) r3.Vec {
	s, c := math.Sincos(theta)
	out := r3.Scale(c, v)
	out = r3.Add(out, r3.Scale(s, r3.Cross(axis, v)))
	return r3.Add(out, r3.Scale((1-c)*r3.Dot(axis, v), axis))
}

// Planar rotates (x, y) counter-clockwise by theta radians.
func Planar(x, y, theta float64) (float64, float64) {
	s, c := math.Sincos(theta)
	return c*x - s*y, s*x + c*y
}

// BroadcastLen returns the number of output columns for a batch of n vectors
// rotated by m angles.
func BroadcastLen(n, m int) (int, error) {
	switch {
	case n == 0 || m == 0:
		return 0, fmt.Errorf("%w: %d vectors, %d angles", ErrShape, n, m)
	case n == m, m == 1:
		return n, nil
	case n == 1:
		return m, nil
	default:
		return 0, fmt.Errorf("%w: cannot broadcast %d vectors against %d angles", ErrShape, n, m)
	}
}

// RotateAxisAngle rotates every column of the 3×N batch x about axis by the
// matching angle in theta. axis must already be a unit vector.
func RotateAxisAngle(x *mat.Dense, axis r3.Vec, theta []float64) (*mat.Dense, error) {
	return serial.RotateAxisAngle(x, axis, theta)
}

// RotatePlanar rotates every column of the 2×N batch xy by the matching angle
// in theta.
func RotatePlanar(xy *mat.Dense, theta []float64) (*mat.Dense, error) {
	return serial.RotatePlanar(xy, theta)
}

func checkRows(x *mat.Dense, want int) (int, error) {
	if x == nil {
		return 0, fmt.Errorf("%w: nil batch", ErrShape)
	}
	r, c := x.Dims()
	if r != want {
		return 0, fmt.Errorf("%w: batch has %d rows, want %d", ErrShape, r, want)
	}
	return c, nil
}

// pick maps output column k onto an input index of a broadcast operand.
func pick(k, n int) int {
	if n == 1 {
		return 0
	}
	return k
}
