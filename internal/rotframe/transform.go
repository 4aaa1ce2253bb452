// Package rotframe transforms phase-space samples between a static inertial
// frame and a frame rotating at constant angular velocity.
//
// A rotating frame's Omega is its angular velocity relative to the inertial
// frame. Carrying inertial coordinates onto the rotating axes is a rotation
// by -Omega*t; the inverse transform applies +Omega*t. Positions and
// velocities are both rotated by the same angle, no Omega×r term is added.
package rotframe

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/rotframe/internal/frame"
	"github.com/banshee-data/rotframe/internal/phasespace"
	"github.com/banshee-data/rotframe/internal/rotation"
	"github.com/banshee-data/rotframe/internal/units"
)

var (
	// ErrInvalidInput is returned when the times to transform at cannot be
	// resolved.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDimensionMismatch is returned when the angular velocity, the vectors
	// and the times cannot be combined.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Times overrides the time axis of a transform. An empty Unit means the
// inertial frame's time unit.
type Times struct {
	Values []float64
	Unit   string
}

// At is shorthand for times in the inertial frame's time unit.
func At(values ...float64) *Times {
	return &Times{Values: values}
}

// Result is a transformed sample expressed in the inertial frame's units.
type Result struct {
	Pos, Vel     *mat.Dense
	LengthUnit   string
	VelocityUnit string

	units units.System
	t     []float64
}

// Units is the inertial unit system the result is expressed in.
func (r *Result) Units() units.System { return r.units }

// Time returns a copy of the time each output column was transformed at, in
// the inertial time unit.
func (r *Result) Time() []float64 {
	return append([]float64(nil), r.t...)
}

// PhaseSpace wraps the result as an Orbit stamped with the times the
// transform used, whether they came from the input or from an override.
func (r *Result) PhaseSpace() (*phasespace.Orbit, error) {
	return phasespace.NewOrbit(r.Pos, r.Vel, r.Time(), r.units)
}

// Transformer runs transforms with a configurable rotator.
type Transformer struct {
	rot *rotation.Rotator
}

// New returns a Transformer whose rotations use opts.
func New(opts rotation.Options) *Transformer {
	return &Transformer{rot: rotation.NewRotator(opts)}
}

var std = &Transformer{rot: &rotation.Rotator{}}

// StaticToConstantRotating expresses w, given in the inertial frame, in the
// rotating frame.
func StaticToConstantRotating(inertial *frame.StaticFrame, rotating *frame.ConstantRotatingFrame, w phasespace.Sample, t *Times) (*Result, error) {
	return std.Transform(inertial, rotating, w, t, Forward)
}

// ConstantRotatingToStatic expresses w, given in the rotating frame, in the
// inertial frame.
func ConstantRotatingToStatic(inertial *frame.StaticFrame, rotating *frame.ConstantRotatingFrame, w phasespace.Sample, t *Times) (*Result, error) {
	return std.Transform(inertial, rotating, w, t, Inverse)
}

// Transform runs a transform in direction dir with the default serial rotator.
func Transform(inertial *frame.StaticFrame, rotating *frame.ConstantRotatingFrame, w phasespace.Sample, t *Times, dir Direction) (*Result, error) {
	return std.Transform(inertial, rotating, w, t, dir)
}

// StaticToConstantRotating is the Transformer form of the package function.
func (tr *Transformer) StaticToConstantRotating(inertial *frame.StaticFrame, rotating *frame.ConstantRotatingFrame, w phasespace.Sample, t *Times) (*Result, error) {
	return tr.Transform(inertial, rotating, w, t, Forward)
}

// ConstantRotatingToStatic is the Transformer form of the package function.
func (tr *Transformer) ConstantRotatingToStatic(inertial *frame.StaticFrame, rotating *frame.ConstantRotatingFrame, w phasespace.Sample, t *Times) (*Result, error) {
	return tr.Transform(inertial, rotating, w, t, Inverse)
}

// Transform rotates the positions and velocities of w by the angle the
// rotating frame sweeps out at each time, with the sense given by dir.
//
// Times come from w when it carries its own and t is nil, otherwise from t.
func (tr *Transformer) Transform(inertial *frame.StaticFrame, rotating *frame.ConstantRotatingFrame, w phasespace.Sample, t *Times, dir Direction) (*Result, error) {
	if inertial == nil || rotating == nil || w == nil {
		return nil, fmt.Errorf("%w: nil frame or sample", ErrInvalidInput)
	}
	if err := dir.validate(); err != nil {
		return nil, err
	}
	u := inertial.Units()

	omega, err := rotating.AngularVelocity().Decompose(u.Time)
	if err != nil {
		return nil, err
	}
	omega = omega.Neg()

	times, err := resolveTimes(w, t, u)
	if err != nil {
		return nil, err
	}

	if omega.Dim() != w.Dim() {
		return nil, fmt.Errorf("%w: %d-dimensional angular velocity with %d-dimensional vectors", ErrDimensionMismatch, omega.Dim(), w.Dim())
	}
	n := w.Len()
	if _, err := rotation.BroadcastLen(n, len(times)); err != nil {
		return nil, fmt.Errorf("%w: %d times for %d samples", ErrDimensionMismatch, len(times), n)
	}

	pos, vel, err := phasespace.Decompose(w, u)
	if err != nil {
		return nil, err
	}

	sign := dir.Sign()
	theta := make([]float64, len(times))
	var outPos, outVel *mat.Dense
	if omega.IsPlanar() {
		rate := omega.Scalar()
		for i, ti := range times {
			theta[i] = sign * rate * ti
		}
		if outPos, err = tr.rot.RotatePlanar(pos, theta); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
		}
		if outVel, err = tr.rot.RotatePlanar(vel, theta); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
		}
	} else {
		vec := omega.Vector()
		rate := r3.Norm(vec)
		axis := r3.Vec{Z: 1}
		if rate > 0 {
			axis = r3.Scale(1/rate, vec)
		}
		for i, ti := range times {
			theta[i] = sign * rate * ti
		}
		if outPos, err = tr.rot.RotateAxisAngle(pos, axis, theta); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
		}
		if outVel, err = tr.rot.RotateAxisAngle(vel, axis, theta); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
		}
	}

	_, k := outPos.Dims()
	return &Result{
		Pos:          outPos,
		Vel:          outVel,
		LengthUnit:   u.Length,
		VelocityUnit: u.VelocityUnit(),
		units:        u,
		t:            broadcastTimes(times, k),
	}, nil
}

// resolveTimes picks the time axis for w in the inertial time unit. The
// returned slice never aliases the input's.
func resolveTimes(w phasespace.Sample, t *Times, u units.System) ([]float64, error) {
	if t == nil {
		own, ok := w.Time()
		if !ok {
			return nil, fmt.Errorf("%w: time required when input lacks an intrinsic time axis", ErrInvalidInput)
		}
		f, err := units.TimeFactor(w.Units().Time, u.Time)
		if err != nil {
			return nil, err
		}
		own = append([]float64(nil), own...)
		units.ScaleAll(own, f)
		return own, nil
	}

	if len(t.Values) == 0 {
		return nil, fmt.Errorf("%w: empty time override", ErrInvalidInput)
	}
	from := t.Unit
	if from == "" {
		from = u.Time
	}
	f, err := units.TimeFactor(from, u.Time)
	if err != nil {
		return nil, err
	}
	times := append([]float64(nil), t.Values...)
	units.ScaleAll(times, f)
	return times, nil
}

func broadcastTimes(times []float64, k int) []float64 {
	if len(times) == k {
		return times
	}
	out := make([]float64, k)
	for i := range out {
		out[i] = times[0]
	}
	return out
}
