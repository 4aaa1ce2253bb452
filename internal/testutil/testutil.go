// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// isNil reports whether m is nil, including a nil *mat.Dense held in the
// interface.
func isNil(m mat.Matrix) bool {
	d, ok := m.(*mat.Dense)
	return m == nil || (ok && d == nil)
}

// DenseNear reports whether want and got have the same shape and every
// element differs by at most tol. A nil matrix is never near anything.
func DenseNear(want, got mat.Matrix, tol float64) bool {
	if isNil(want) || isNil(got) {
		return false
	}
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		return false
	}
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			if math.Abs(want.At(i, j)-got.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}

// AssertDenseNear checks that got matches want element-wise within tol.
func AssertDenseNear(t *testing.T, want, got mat.Matrix, tol float64) {
	t.Helper()
	if isNil(got) {
		t.Fatalf("got nil matrix, want\n%v", mat.Formatted(want))
	}
	if !DenseNear(want, got, tol) {
		t.Errorf("matrix mismatch (tol %g):\nwant\n%v\ngot\n%v", tol, mat.Formatted(want), mat.Formatted(got))
	}
}

// AssertVecNear checks that got matches want component-wise within tol.
func AssertVecNear(t *testing.T, want, got r3.Vec, tol float64) {
	t.Helper()
	if math.Abs(want.X-got.X) > tol || math.Abs(want.Y-got.Y) > tol || math.Abs(want.Z-got.Z) > tol {
		t.Errorf("vector = %v, want %v (tol %g)", got, want, tol)
	}
}

// TempDBPath returns a database path inside a per-test temporary directory.
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "orbits.db")
}
