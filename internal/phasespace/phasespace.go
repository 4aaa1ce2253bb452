// Package phasespace holds position/velocity samples, either as a bare
// snapshot or as an orbit that carries its own time axis.
package phasespace

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/rotframe/internal/units"
)

// ErrShape is returned when positions, velocities and times disagree in shape.
var ErrShape = errors.New("phasespace: incompatible shape")

// Sample is the read side shared by snapshots and orbits. Pos and Vel are D×N
// with D in {2, 3}. Time reports whether the sample carries its own time axis.
// The returned slice may be the sample's own storage and must not be modified.
type Sample interface {
	Pos() *mat.Dense
	Vel() *mat.Dense
	Units() units.System
	Time() ([]float64, bool)
	Dim() int
	Len() int
}

// PhaseSpacePosition is a snapshot of N positions and velocities with no
// time axis.
type PhaseSpacePosition struct {
	pos, vel *mat.Dense
	units    units.System
}

// NewPhaseSpacePosition validates and wraps pos and vel. The matrices are not
// copied.
func NewPhaseSpacePosition(pos, vel *mat.Dense, u units.System) (*PhaseSpacePosition, error) {
	if pos == nil || vel == nil {
		return nil, fmt.Errorf("%w: nil position or velocity", ErrShape)
	}
	pr, pc := pos.Dims()
	vr, vc := vel.Dims()
	if pr != 2 && pr != 3 {
		return nil, fmt.Errorf("%w: position has %d rows, want 2 or 3", ErrShape, pr)
	}
	if pr != vr || pc != vc {
		return nil, fmt.Errorf("%w: position is %dx%d but velocity is %dx%d", ErrShape, pr, pc, vr, vc)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &PhaseSpacePosition{pos: pos, vel: vel, units: u}, nil
}

// Pos returns the D×N positions.
func (p *PhaseSpacePosition) Pos() *mat.Dense { return p.pos }

// Vel returns the D×N velocities.
func (p *PhaseSpacePosition) Vel() *mat.Dense { return p.vel }

// Units returns the unit system positions and velocities are expressed in.
func (p *PhaseSpacePosition) Units() units.System { return p.units }

// Time always reports false for a snapshot.
func (p *PhaseSpacePosition) Time() ([]float64, bool) { return nil, false }

// Dim is 2 or 3.
func (p *PhaseSpacePosition) Dim() int {
	r, _ := p.pos.Dims()
	return r
}

// Len is the number of samples.
func (p *PhaseSpacePosition) Len() int {
	_, c := p.pos.Dims()
	return c
}

// Orbit is a time series of phase-space positions.
type Orbit struct {
	*PhaseSpacePosition
	t []float64
}

// NewOrbit wraps pos and vel sampled at times t, one time per column.
func NewOrbit(pos, vel *mat.Dense, t []float64, u units.System) (*Orbit, error) {
	p, err := NewPhaseSpacePosition(pos, vel, u)
	if err != nil {
		return nil, err
	}
	if len(t) != p.Len() {
		return nil, fmt.Errorf("%w: %d times for %d samples", ErrShape, len(t), p.Len())
	}
	return &Orbit{PhaseSpacePosition: p, t: t}, nil
}

// Time returns a copy of the orbit's time axis.
func (o *Orbit) Time() ([]float64, bool) {
	return append([]float64(nil), o.t...), true
}

// FromRowVectors builds a snapshot from N×D matrices holding one vector per
// row, the layout most tabular sources use.
func FromRowVectors(pos, vel *mat.Dense, u units.System) (*PhaseSpacePosition, error) {
	if pos == nil || vel == nil {
		return nil, fmt.Errorf("%w: nil position or velocity", ErrShape)
	}
	return NewPhaseSpacePosition(mat.DenseCopyOf(pos.T()), mat.DenseCopyOf(vel.T()), u)
}

// Decompose returns copies of the sample's positions and velocities expressed
// in the unit system u.
func Decompose(s Sample, u units.System) (pos, vel *mat.Dense, err error) {
	from := s.Units()
	lf, err := units.LengthFactor(from.Length, u.Length)
	if err != nil {
		return nil, nil, err
	}
	vf, err := units.VelocityFactor(from.VelocityUnit(), u.VelocityUnit())
	if err != nil {
		return nil, nil, err
	}
	pos = mat.DenseCopyOf(s.Pos())
	vel = mat.DenseCopyOf(s.Vel())
	if lf != 1 {
		pos.Scale(lf, pos)
	}
	if vf != 1 {
		vel.Scale(vf, vel)
	}
	return pos, vel, nil
}
