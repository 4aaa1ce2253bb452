package phasespace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/rotframe/internal/units"
)

// ErrMalformedCSV is returned by ReadCSV for input it cannot interpret.
var ErrMalformedCSV = errors.New("phasespace: malformed csv")

var (
	header2D = []string{"t", "x", "y", "vx", "vy"}
	header3D = []string{"t", "x", "y", "z", "vx", "vy", "vz"}
)

func headerFor(dim int) []string {
	if dim == 2 {
		return header2D
	}
	return header3D
}

// ReadCSV reads samples written as "t,x,y[,z],vx,vy[,vz]" with a header row.
// When every t cell is empty the result is a *PhaseSpacePosition, otherwise
// every t cell must be set and the result is an *Orbit.
func ReadCSV(r io.Reader, u units.System) (Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header and at least one row", ErrMalformedCSV)
	}

	var dim int
	switch strings.Join(rows[0], ",") {
	case strings.Join(header2D, ","):
		dim = 2
	case strings.Join(header3D, ","):
		dim = 3
	default:
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedCSV, strings.Join(rows[0], ","))
	}

	rows = rows[1:]
	n := len(rows)
	pos := mat.NewDense(dim, n, nil)
	vel := mat.NewDense(dim, n, nil)
	times := make([]float64, 0, n)
	for j, row := range rows {
		line := j + 2
		if row[0] != "" {
			v, err := strconv.ParseFloat(row[0], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid time %q", ErrMalformedCSV, line, row[0])
			}
			times = append(times, v)
		}
		for i := 0; i < dim; i++ {
			p, err := strconv.ParseFloat(row[1+i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid position %q", ErrMalformedCSV, line, row[1+i])
			}
			v, err := strconv.ParseFloat(row[1+dim+i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid velocity %q", ErrMalformedCSV, line, row[1+dim+i])
			}
			pos.Set(i, j, p)
			vel.Set(i, j, v)
		}
	}

	switch len(times) {
	case 0:
		return NewPhaseSpacePosition(pos, vel, u)
	case n:
		return NewOrbit(pos, vel, times, u)
	default:
		return nil, fmt.Errorf("%w: %d of %d rows have a time", ErrMalformedCSV, len(times), n)
	}
}

// WriteCSV writes s in the format read by ReadCSV.
func WriteCSV(w io.Writer, s Sample) error {
	cw := csv.NewWriter(w)
	dim := s.Dim()
	if err := cw.Write(headerFor(dim)); err != nil {
		return err
	}

	t, hasTime := s.Time()
	pos, vel := s.Pos(), s.Vel()
	record := make([]string, 1+2*dim)
	for j := 0; j < s.Len(); j++ {
		record[0] = ""
		if hasTime {
			record[0] = formatFloat(t[j])
		}
		for i := 0; i < dim; i++ {
			record[1+i] = formatFloat(pos.At(i, j))
			record[1+dim+i] = formatFloat(vel.At(i, j))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
