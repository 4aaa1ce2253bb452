// Package frame describes the reference frames phase-space data can be
// expressed in: a static inertial frame and a frame rotating about a fixed
// axis at a constant rate.
package frame

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/rotframe/internal/units"
)

// ErrInvalidOmega is returned for an angular velocity with non-finite components.
var ErrInvalidOmega = errors.New("frame: invalid angular velocity")

// AngularVelocity is either a planar rate about the implicit z axis or a full
// 3-vector whose direction is the axis and whose magnitude is the rate.
type AngularVelocity struct {
	vec    r3.Vec
	planar bool
	// Unit is an angular frequency unit understood by units.FrequencyFactor.
	Unit string
}

// Planar returns a scalar angular velocity about z.
func Planar(omega float64, unit string) AngularVelocity {
	return AngularVelocity{vec: r3.Vec{Z: omega}, planar: true, Unit: unit}
}

// Spatial returns a 3D angular velocity.
func Spatial(omega r3.Vec, unit string) AngularVelocity {
	return AngularVelocity{vec: omega, Unit: unit}
}

// IsPlanar reports whether this is the scalar (z axis) form.
func (w AngularVelocity) IsPlanar() bool { return w.planar }

// Dim is the dimensionality of the vectors this angular velocity can rotate.
func (w AngularVelocity) Dim() int {
	if w.planar {
		return 2
	}
	return 3
}

// Scalar returns the planar rate. For the 3D form it returns the z component.
func (w AngularVelocity) Scalar() float64 { return w.vec.Z }

// Vector returns the 3D form; a planar rate becomes (0, 0, omega).
func (w AngularVelocity) Vector() r3.Vec { return w.vec }

// Neg returns the angular velocity with the opposite sense of rotation.
func (w AngularVelocity) Neg() AngularVelocity {
	w.vec = r3.Scale(-1, w.vec)
	return w
}

// Decompose returns the angular velocity in radians per timeUnit.
func (w AngularVelocity) Decompose(timeUnit string) (AngularVelocity, error) {
	f, err := units.FrequencyFactor(w.Unit, timeUnit)
	if err != nil {
		return AngularVelocity{}, fmt.Errorf("decompose angular velocity: %w", err)
	}
	w.vec = r3.Scale(f, w.vec)
	w.Unit = units.RAD + "/" + timeUnit
	return w, nil
}

func (w AngularVelocity) validate() error {
	for _, c := range []float64{w.vec.X, w.vec.Y, w.vec.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidOmega, w.vec)
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (w AngularVelocity) String() string {
	if w.planar {
		return fmt.Sprintf("%g %s", w.vec.Z, w.Unit)
	}
	return fmt.Sprintf("(%g, %g, %g) %s", w.vec.X, w.vec.Y, w.vec.Z, w.Unit)
}

// StaticFrame is a non-rotating inertial frame.
type StaticFrame struct {
	units units.System
}

// NewStaticFrame returns an inertial frame using the unit system u.
func NewStaticFrame(u units.System) (*StaticFrame, error) {
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("static frame: %w", err)
	}
	return &StaticFrame{units: u}, nil
}

// Units returns the frame's unit system.
func (f *StaticFrame) Units() units.System { return f.units }

// ConstantRotatingFrame rotates relative to the inertial frame at a fixed
// angular velocity.
type ConstantRotatingFrame struct {
	omega AngularVelocity
	units units.System
}

// NewConstantRotatingFrame returns a rotating frame. An omega with an empty
// Unit is taken in u's angle/time unit.
func NewConstantRotatingFrame(omega AngularVelocity, u units.System) (*ConstantRotatingFrame, error) {
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("rotating frame: %w", err)
	}
	if err := omega.validate(); err != nil {
		return nil, err
	}
	if omega.Unit == "" {
		omega.Unit = u.FrequencyUnit()
	}
	if _, err := units.FrequencyFactor(omega.Unit, u.Time); err != nil {
		return nil, fmt.Errorf("rotating frame: %w", err)
	}
	return &ConstantRotatingFrame{omega: omega, units: u}, nil
}

// AngularVelocity returns the frame's Omega parameter as configured.
func (f *ConstantRotatingFrame) AngularVelocity() AngularVelocity { return f.omega }

// Units returns the frame's unit system.
func (f *ConstantRotatingFrame) Units() units.System { return f.units }
