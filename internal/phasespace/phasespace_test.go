package phasespace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/rotframe/internal/units"
)

func TestNewPhaseSpacePosition_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		pos, vel *mat.Dense
		wantErr  bool
	}{
		{"2d", mat.NewDense(2, 3, nil), mat.NewDense(2, 3, nil), false},
		{"3d", mat.NewDense(3, 1, nil), mat.NewDense(3, 1, nil), false},
		{"4 rows", mat.NewDense(4, 1, nil), mat.NewDense(4, 1, nil), true},
		{"row mismatch", mat.NewDense(3, 2, nil), mat.NewDense(2, 2, nil), true},
		{"column mismatch", mat.NewDense(3, 2, nil), mat.NewDense(3, 3, nil), true},
		{"nil velocity", mat.NewDense(3, 2, nil), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPhaseSpacePosition(tt.pos, tt.vel, units.Galactic)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrShape)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrbit_Time(t *testing.T) {
	o, err := NewOrbit(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil), []float64{0, 1}, units.Galactic)
	require.NoError(t, err)

	tt, ok := o.Time()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1}, tt)
	tt[0] = 99
	again, _ := o.Time()
	assert.Equal(t, 0.0, again[0], "Time must return a copy")

	var s Sample = o
	assert.Equal(t, 2, s.Dim())
	assert.Equal(t, 2, s.Len())

	_, err = NewOrbit(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil), []float64{0}, units.Galactic)
	assert.ErrorIs(t, err, ErrShape)
}

func TestSnapshot_HasNoTime(t *testing.T) {
	p, err := NewPhaseSpacePosition(mat.NewDense(3, 1, nil), mat.NewDense(3, 1, nil), units.SI)
	require.NoError(t, err)
	_, ok := p.Time()
	assert.False(t, ok)
}

func TestFromRowVectors(t *testing.T) {
	pos := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	vel := mat.NewDense(2, 3, []float64{
		-1, -2, -3,
		-4, -5, -6,
	})
	p, err := FromRowVectors(pos, vel, units.Galactic)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Dim())
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []float64{4, 5, 6}, mat.Col(nil, 1, p.Pos()))
	assert.Equal(t, []float64{-1, -2, -3}, mat.Col(nil, 0, p.Vel()))

	_, err = FromRowVectors(nil, vel, units.Galactic)
	assert.ErrorIs(t, err, ErrShape)
}

func TestDecompose(t *testing.T) {
	pos := mat.NewDense(2, 1, []float64{1, 2})
	vel := mat.NewDense(2, 1, []float64{3, 4})
	p, err := NewPhaseSpacePosition(pos, vel, units.System{Length: units.KM, Time: units.S, Angle: units.RAD})
	require.NoError(t, err)

	gp, gv, err := Decompose(p, units.SI)
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(mat.Col(nil, 0, gp), []float64{1000, 2000}, 1e-9))
	assert.True(t, floats.EqualApprox(mat.Col(nil, 0, gv), []float64{3000, 4000}, 1e-9))
	assert.Equal(t, 1.0, pos.At(0, 0), "input must not be modified")

	_, _, err = Decompose(p, units.System{Length: "cubit", Time: units.S, Angle: units.RAD})
	assert.ErrorIs(t, err, units.ErrUnknownUnit)
}

func TestCSVRoundTrip_Orbit(t *testing.T) {
	in := "t,x,y,z,vx,vy,vz\n0,1,0,0,0,1,0\n0.5,0,1,0,-1,0,0\n"
	s, err := ReadCSV(strings.NewReader(in), units.Galactic)
	require.NoError(t, err)

	o, ok := s.(*Orbit)
	require.True(t, ok, "expected *Orbit, got %T", s)
	assert.Equal(t, 3, o.Dim())
	assert.Equal(t, 2, o.Len())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	assert.Equal(t, in, buf.String())
}

func TestCSVRoundTrip_Snapshot(t *testing.T) {
	in := "t,x,y,vx,vy\n,1,2,3,4\n,-1,-2,-3,-4\n"
	s, err := ReadCSV(strings.NewReader(in), units.Galactic)
	require.NoError(t, err)

	_, ok := s.(*PhaseSpacePosition)
	require.True(t, ok, "expected *PhaseSpacePosition, got %T", s)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	assert.Equal(t, in, buf.String())
}

func TestReadCSV_Malformed(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"header only":  "t,x,y,vx,vy\n",
		"bad header":   "time,x,y,vx,vy\n0,1,2,3,4\n",
		"mixed times":  "t,x,y,vx,vy\n0,1,2,3,4\n,1,2,3,4\n",
		"bad number":   "t,x,y,vx,vy\n0,one,2,3,4\n",
		"bad velocity": "t,x,y,vx,vy\n0,1,2,3,four\n",
		"short row":    "t,x,y,vx,vy\n0,1,2,3\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(in), units.Galactic)
			assert.ErrorIs(t, err, ErrMalformedCSV)
		})
	}
}
